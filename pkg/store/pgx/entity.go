package pgx

import (
	"context"
	"encoding/json"
	"errors"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/common"
)

const entityColumns = `public_id, name, entity_type, observations, file_path,
	line_number, end_line_number, docstring, signature, complexity_score, metadata`

func scanEntity(row pgxv5.Row) (common.Entity, error) {
	var (
		e                common.Entity
		observationsJSON []byte
		metadataJSON     []byte
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.EntityType, &observationsJSON, &e.FilePath,
		&e.LineNumber, &e.EndLineNumber, &e.Docstring, &e.Signature,
		&e.ComplexityScore, &metadataJSON,
	)
	if err != nil {
		return common.Entity{}, err
	}
	if err := unmarshalEntityJSON(&e, observationsJSON, metadataJSON); err != nil {
		return common.Entity{}, err
	}
	return e, nil
}

func unmarshalEntityJSON(e *common.Entity, observationsJSON, metadataJSON []byte) error {
	if len(observationsJSON) > 0 {
		if err := json.Unmarshal(observationsJSON, &e.Observations); err != nil {
			return err
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
			return err
		}
	}
	return nil
}

// ResolveEntity returns the metadata chunk for the named entity.
func (s *GraphDBStore) ResolveEntity(ctx context.Context, collection, name string) (*common.Entity, error) {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	row := s.conn.QueryRow(ctx,
		`SELECT `+entityColumns+`
		 FROM entities
		 WHERE collection_id = $1 AND name = $2 AND chunk_type = 'metadata'`,
		collectionID, util.SanitizePostgresText(name),
	)
	entity, err := scanEntity(row)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, common.NotFoundf("entity not found: %s", name)
	}
	if err != nil {
		return nil, common.StoreUnavailablef("entity lookup: %v", err)
	}
	return &entity, nil
}

// ListEntities returns up to limit metadata-chunk entities of the collection,
// optionally restricted to the given types.
func (s *GraphDBStore) ListEntities(ctx context.Context, collection string, types []common.EntityType, limit int) ([]common.Entity, error) {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + entityColumns + `
		FROM entities
		WHERE collection_id = $1 AND chunk_type = 'metadata'`
	args := []any{collectionID}
	if len(types) > 0 {
		typeNames := make([]string, len(types))
		for i, t := range types {
			typeNames[i] = string(t)
		}
		query += ` AND entity_type = ANY($2) ORDER BY name LIMIT $3`
		args = append(args, typeNames, limit)
	} else {
		query += ` ORDER BY name LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, common.StoreUnavailablef("entity list: %v", err)
	}
	defer rows.Close()

	entities := make([]common.Entity, 0, limit)
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, common.StoreUnavailablef("entity scan: %v", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreUnavailablef("entity list: %v", err)
	}
	return entities, nil
}

// GetImplementation returns the implementation chunk content for the named
// entity.
func (s *GraphDBStore) GetImplementation(ctx context.Context, collection, name string) (string, error) {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return "", err
	}

	var content string
	err = s.conn.QueryRow(ctx,
		`SELECT content
		 FROM entities
		 WHERE collection_id = $1 AND name = $2 AND chunk_type = 'implementation'`,
		collectionID, util.SanitizePostgresText(name),
	).Scan(&content)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return "", common.NotFoundf("no implementation indexed for entity: %s", name)
	}
	if err != nil {
		return "", common.StoreUnavailablef("implementation lookup: %v", err)
	}
	return content, nil
}
