// Package pgx implements the GraphStore interface on PostgreSQL with
// pgvector for similarity search. Collections, entities and relations each
// live in their own table; entity rows carry either a metadata chunk or an
// implementation chunk.
package pgx

import (
	"context"
	"errors"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codelens-dev/codelens/pkg/common"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// GraphDBStore reads the code knowledge graph from PostgreSQL. Safe for
// concurrent use as long as the underlying connection is (a pgxpool.Pool).
type GraphDBStore struct {
	conn pgxIConn
}

// NewGraphDBStore creates a store bound to an existing database connection
// or pool.
func NewGraphDBStore(conn pgxIConn) *GraphDBStore {
	return &GraphDBStore{conn: conn}
}

func (s *GraphDBStore) collectionID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.conn.QueryRow(ctx,
		`SELECT id FROM collections WHERE name = $1`,
		name,
	).Scan(&id)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return 0, common.NotFoundf("collection not found: %s", name)
	}
	if err != nil {
		return 0, common.StoreUnavailablef("collection lookup: %v", err)
	}
	return id, nil
}
