package pgx

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/store"
)

// SimilaritySearch returns up to limit entities ordered by descending cosine
// similarity to vector. Metadata chunks are always searched; implementation
// chunks join in when the filter asks for them.
func (s *GraphDBStore) SimilaritySearch(
	ctx context.Context,
	collection string,
	vector []float32,
	filter store.SearchFilter,
	limit int,
) ([]common.ScoredEntity, error) {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + entityColumns + `, 1 - (embedding <=> $2) AS score
		FROM entities
		WHERE collection_id = $1 AND embedding IS NOT NULL`
	args := []any{collectionID, pgvector.NewVector(vector)}

	if filter.IncludeImplementation {
		query += ` AND chunk_type IN ('metadata', 'implementation')`
	} else {
		query += ` AND chunk_type = 'metadata'`
	}

	if len(filter.EntityTypes) > 0 {
		typeNames := make([]string, len(filter.EntityTypes))
		for i, t := range filter.EntityTypes {
			typeNames[i] = string(t)
		}
		query += ` AND entity_type = ANY($3) ORDER BY embedding <=> $2 LIMIT $4`
		args = append(args, typeNames, limit)
	} else {
		query += ` ORDER BY embedding <=> $2 LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, common.StoreUnavailablef("similarity search: %v", err)
	}
	defer rows.Close()

	hits := make([]common.ScoredEntity, 0, limit)
	for rows.Next() {
		var (
			hit              common.ScoredEntity
			observationsJSON []byte
			metadataJSON     []byte
		)
		e := &hit.Entity
		err := rows.Scan(
			&e.ID, &e.Name, &e.EntityType, &observationsJSON, &e.FilePath,
			&e.LineNumber, &e.EndLineNumber, &e.Docstring, &e.Signature,
			&e.ComplexityScore, &metadataJSON, &hit.Score,
		)
		if err != nil {
			return nil, common.StoreUnavailablef("similarity scan: %v", err)
		}
		if err := unmarshalEntityJSON(e, observationsJSON, metadataJSON); err != nil {
			return nil, common.StoreUnavailablef("similarity scan: %v", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreUnavailablef("similarity search: %v", err)
	}
	return hits, nil
}
