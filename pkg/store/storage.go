package store

import (
	"context"

	"github.com/codelens-dev/codelens/pkg/common"
)

// SearchFilter narrows a similarity search to a subset of stored chunks.
// A zero filter matches metadata chunks of every entity type.
type SearchFilter struct {
	// EntityTypes restricts hits to the given types; empty means all.
	EntityTypes []common.EntityType
	// IncludeImplementation widens the search to implementation chunks.
	// Metadata chunks are always included.
	IncludeImplementation bool
}

// GraphStore is the read contract over the external entity/relation store.
// One collection corresponds to one indexed codebase. Implementations must
// be safe for concurrent use; the traversal engine issues multiple reads
// per request and holds no state between calls.
//
// Lookups of a single named record return common.ErrNotFound when the
// record is absent. List operations return empty slices, not errors, for
// empty collections. Infrastructure failures are wrapped in
// common.ErrStoreUnavailable.
type GraphStore interface {
	// ResolveEntity returns the metadata chunk for the named entity.
	ResolveEntity(ctx context.Context, collection, name string) (*common.Entity, error)

	// ListEntities returns up to limit metadata-chunk entities, optionally
	// restricted to the given types.
	ListEntities(ctx context.Context, collection string, types []common.EntityType, limit int) ([]common.Entity, error)

	// ListRelations returns relations of the collection. When entityName is
	// non-empty only relations with that entity as either endpoint are
	// returned. The result is capped at the store page limit.
	ListRelations(ctx context.Context, collection, entityName string) ([]common.Relation, error)

	// CollectionInfo returns statistics for one collection, or
	// common.ErrNotFound if it does not exist.
	CollectionInfo(ctx context.Context, collection string) (common.CollectionInfo, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// SimilaritySearch returns up to limit entities ordered by descending
	// cosine similarity to vector, restricted by filter.
	SimilaritySearch(ctx context.Context, collection string, vector []float32, filter SearchFilter, limit int) ([]common.ScoredEntity, error)

	// GetImplementation returns the implementation chunk content for the
	// named entity, or common.ErrNotFound when none was indexed.
	GetImplementation(ctx context.Context, collection, name string) (string, error)

	// DeleteCollection removes a collection and all of its chunks.
	DeleteCollection(ctx context.Context, collection string) error
}
