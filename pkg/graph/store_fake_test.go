package graph

import (
	"context"
	"slices"

	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/store"
)

// fakeStore is an in-memory GraphStore for engine tests.
type fakeStore struct {
	order       []string
	collections map[string]*fakeCollection

	// lastSearchLimit records the limit of the most recent similarity
	// search, to observe over-fetch behavior.
	lastSearchLimit int
}

type fakeCollection struct {
	entities  []common.Entity
	relations []common.Relation
	hits      []common.ScoredEntity
	impls     map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string]*fakeCollection)}
}

func (f *fakeStore) addCollection(name string, entities []common.Entity, relations []common.Relation) *fakeCollection {
	col := &fakeCollection{entities: entities, relations: relations, impls: make(map[string]string)}
	f.collections[name] = col
	f.order = append(f.order, name)
	return col
}

func (f *fakeStore) ResolveEntity(_ context.Context, collection, name string) (*common.Entity, error) {
	col, ok := f.collections[collection]
	if !ok {
		return nil, common.NotFoundf("collection %q", collection)
	}
	for i := range col.entities {
		if col.entities[i].Name == name {
			ent := col.entities[i]
			return &ent, nil
		}
	}
	return nil, common.NotFoundf("entity %q", name)
}

func (f *fakeStore) ListEntities(_ context.Context, collection string, types []common.EntityType, limit int) ([]common.Entity, error) {
	col, ok := f.collections[collection]
	if !ok {
		return nil, common.NotFoundf("collection %q", collection)
	}
	out := make([]common.Entity, 0, limit)
	for _, ent := range col.entities {
		if len(types) > 0 && !slices.Contains(types, ent.EntityType) {
			continue
		}
		out = append(out, ent)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ListRelations(_ context.Context, collection, entityName string) ([]common.Relation, error) {
	col, ok := f.collections[collection]
	if !ok {
		return nil, common.NotFoundf("collection %q", collection)
	}
	out := make([]common.Relation, 0, len(col.relations))
	for _, rel := range col.relations {
		if entityName != "" && !rel.Touches(entityName) {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

func (f *fakeStore) CollectionInfo(_ context.Context, collection string) (common.CollectionInfo, error) {
	col, ok := f.collections[collection]
	if !ok {
		return common.CollectionInfo{}, common.NotFoundf("collection %q", collection)
	}
	return common.CollectionInfo{
		Name:          collection,
		EntityCount:   len(col.entities),
		RelationCount: len(col.relations),
		Health:        "healthy",
	}, nil
}

func (f *fakeStore) ListCollections(_ context.Context) ([]string, error) {
	return slices.Clone(f.order), nil
}

func (f *fakeStore) SimilaritySearch(_ context.Context, collection string, _ []float32, filter store.SearchFilter, limit int) ([]common.ScoredEntity, error) {
	col, ok := f.collections[collection]
	if !ok {
		return nil, common.NotFoundf("collection %q", collection)
	}
	f.lastSearchLimit = limit
	out := make([]common.ScoredEntity, 0, limit)
	for _, hit := range col.hits {
		if len(filter.EntityTypes) > 0 && !slices.Contains(filter.EntityTypes, hit.Entity.EntityType) {
			continue
		}
		out = append(out, hit)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) GetImplementation(_ context.Context, collection, name string) (string, error) {
	col, ok := f.collections[collection]
	if !ok {
		return "", common.NotFoundf("collection %q", collection)
	}
	impl, ok := col.impls[name]
	if !ok {
		return "", common.NotFoundf("implementation for %q", name)
	}
	return impl, nil
}

func (f *fakeStore) DeleteCollection(_ context.Context, collection string) error {
	if _, ok := f.collections[collection]; !ok {
		return common.NotFoundf("collection %q", collection)
	}
	delete(f.collections, collection)
	f.order = slices.DeleteFunc(f.order, func(n string) bool { return n == collection })
	return nil
}

// callGraph builds the shared scenario: A→B (calls), B→C (calls),
// A→D (imports).
func callGraph() ([]common.Entity, []common.Relation) {
	entities := []common.Entity{
		{ID: "1", Name: "A", EntityType: common.EntityFunction, FilePath: "a.go"},
		{ID: "2", Name: "B", EntityType: common.EntityFunction, FilePath: "b.go"},
		{ID: "3", Name: "C", EntityType: common.EntityFunction, FilePath: "c.go"},
		{ID: "4", Name: "D", EntityType: common.EntityModule, FilePath: "d.go"},
	}
	relations := []common.Relation{
		{ID: "r1", FromEntity: "A", ToEntity: "B", RelationType: common.RelationCalls, Confidence: 0.9},
		{ID: "r2", FromEntity: "B", ToEntity: "C", RelationType: common.RelationCalls, Confidence: 0.8},
		{ID: "r3", FromEntity: "A", ToEntity: "D", RelationType: common.RelationImports, Confidence: 1.0},
	}
	return entities, relations
}
