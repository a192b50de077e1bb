package pgx

import (
	"context"
	"encoding/json"

	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/common"
)

// relationPageLimit caps every relation listing. Collections larger than
// this get a partial view of their edges.
const relationPageLimit = 1000

// ListRelations returns relations of the collection, capped at the page
// limit. When entityName is non-empty only relations touching that entity
// are returned.
func (s *GraphDBStore) ListRelations(ctx context.Context, collection, entityName string) ([]common.Relation, error) {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	query := `SELECT public_id, from_entity, to_entity, relation_type, context, confidence, metadata
		FROM relations
		WHERE collection_id = $1`
	args := []any{collectionID}
	if entityName != "" {
		name := util.SanitizePostgresText(entityName)
		query += ` AND (from_entity = $2 OR to_entity = $2) LIMIT $3`
		args = append(args, name, relationPageLimit)
	} else {
		query += ` LIMIT $2`
		args = append(args, relationPageLimit)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, common.StoreUnavailablef("relation list: %v", err)
	}
	defer rows.Close()

	relations := make([]common.Relation, 0)
	for rows.Next() {
		var (
			r            common.Relation
			metadataJSON []byte
		)
		err := rows.Scan(&r.ID, &r.FromEntity, &r.ToEntity, &r.RelationType, &r.Context, &r.Confidence, &metadataJSON)
		if err != nil {
			return nil, common.StoreUnavailablef("relation scan: %v", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &r.Metadata); err != nil {
				return nil, common.StoreUnavailablef("relation scan: %v", err)
			}
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreUnavailablef("relation list: %v", err)
	}
	return relations, nil
}
