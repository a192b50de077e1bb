package pgx

import (
	"context"
	"time"

	"github.com/codelens-dev/codelens/pkg/common"
)

// CollectionInfo returns statistics for one collection.
func (s *GraphDBStore) CollectionInfo(ctx context.Context, collection string) (common.CollectionInfo, error) {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return common.CollectionInfo{}, err
	}

	var (
		entityCount   int
		relationCount int
		fileCount     int
		sizeBytes     int64
		lastIndexed   *time.Time
	)
	err = s.conn.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM entities WHERE collection_id = $1 AND chunk_type = 'metadata'),
			(SELECT count(*) FROM relations WHERE collection_id = $1),
			(SELECT count(DISTINCT file_path) FROM entities
				WHERE collection_id = $1 AND chunk_type = 'metadata' AND file_path <> ''),
			(SELECT coalesce(sum(pg_column_size(e.*)), 0) FROM entities e WHERE e.collection_id = $1),
			(SELECT last_indexed FROM collections WHERE id = $1)`,
		collectionID,
	).Scan(&entityCount, &relationCount, &fileCount, &sizeBytes, &lastIndexed)
	if err != nil {
		return common.CollectionInfo{}, common.StoreUnavailablef("collection stats: %v", err)
	}

	info := common.CollectionInfo{
		Name:          collection,
		EntityCount:   entityCount,
		RelationCount: relationCount,
		FileCount:     fileCount,
		SizeMB:        float64(sizeBytes) / (1024 * 1024),
		Health:        "green",
	}
	if entityCount == 0 {
		info.Health = "empty"
	}
	if lastIndexed != nil {
		info.LastIndexed = lastIndexed.UTC().Format(time.RFC3339)
	}
	return info, nil
}

// ListCollections returns the names of all collections in creation order.
func (s *GraphDBStore) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT name FROM collections ORDER BY id`)
	if err != nil {
		return nil, common.StoreUnavailablef("collection list: %v", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, common.StoreUnavailablef("collection scan: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreUnavailablef("collection list: %v", err)
	}
	return names, nil
}

// DeleteCollection removes a collection together with its entities and
// relations.
func (s *GraphDBStore) DeleteCollection(ctx context.Context, collection string) error {
	collectionID, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return common.StoreUnavailablef("collection delete: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM relations WHERE collection_id = $1`, collectionID); err != nil {
		return common.StoreUnavailablef("collection delete: %v", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM entities WHERE collection_id = $1`, collectionID); err != nil {
		return common.StoreUnavailablef("collection delete: %v", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, collectionID); err != nil {
		return common.StoreUnavailablef("collection delete: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return common.StoreUnavailablef("collection delete: %v", err)
	}
	return nil
}
