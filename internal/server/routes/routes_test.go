package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/graph"
	"github.com/codelens-dev/codelens/pkg/store"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i any) error {
	return tv.v.Struct(i)
}

// stubStore serves a single "demo" collection with a call chain
// alpha -> beta -> gamma -> delta. It records the limit of the last
// similarity search so tests can observe over-fetching.
type stubStore struct {
	entities        []common.Entity
	relations       []common.Relation
	implementations map[string]string
	lastSearchLimit int
}

func newStubStore() *stubStore {
	names := []string{"alpha", "beta", "gamma", "delta"}
	entities := make([]common.Entity, 0, len(names))
	for _, n := range names {
		entities = append(entities, common.Entity{
			ID:         "id-" + n,
			Name:       n,
			EntityType: common.EntityFunction,
			FilePath:   "pkg/" + n + ".go",
		})
	}
	relations := []common.Relation{
		{ID: "r1", FromEntity: "alpha", ToEntity: "beta", RelationType: common.RelationCalls, Confidence: 1},
		{ID: "r2", FromEntity: "beta", ToEntity: "gamma", RelationType: common.RelationCalls, Confidence: 1},
		{ID: "r3", FromEntity: "gamma", ToEntity: "delta", RelationType: common.RelationCalls, Confidence: 1},
	}
	return &stubStore{
		entities:  entities,
		relations: relations,
		implementations: map[string]string{
			"alpha": strings.Repeat("configuration handling ", 400),
			"beta":  "func beta() {}",
		},
	}
}

func (s *stubStore) ResolveEntity(_ context.Context, collection, name string) (*common.Entity, error) {
	if collection != "demo" {
		return nil, common.NotFoundf("collection %q", collection)
	}
	for i := range s.entities {
		if s.entities[i].Name == name {
			return &s.entities[i], nil
		}
	}
	return nil, common.NotFoundf("entity %q", name)
}

func (s *stubStore) ListEntities(_ context.Context, collection string, types []common.EntityType, limit int) ([]common.Entity, error) {
	if collection != "demo" {
		return nil, common.NotFoundf("collection %q", collection)
	}
	out := make([]common.Entity, 0, len(s.entities))
	for _, ent := range s.entities {
		if len(types) > 0 {
			match := false
			for _, t := range types {
				if ent.EntityType == t {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, ent)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *stubStore) ListRelations(_ context.Context, collection, entityName string) ([]common.Relation, error) {
	if collection != "demo" {
		return nil, common.NotFoundf("collection %q", collection)
	}
	if entityName == "" {
		return s.relations, nil
	}
	out := make([]common.Relation, 0)
	for _, r := range s.relations {
		if r.Touches(entityName) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) CollectionInfo(_ context.Context, collection string) (common.CollectionInfo, error) {
	if collection != "demo" {
		return common.CollectionInfo{}, common.NotFoundf("collection %q", collection)
	}
	return common.CollectionInfo{Name: "demo", EntityCount: len(s.entities), Health: "green"}, nil
}

func (s *stubStore) ListCollections(context.Context) ([]string, error) {
	return []string{"demo"}, nil
}

func (s *stubStore) SimilaritySearch(_ context.Context, collection string, _ []float32, _ store.SearchFilter, limit int) ([]common.ScoredEntity, error) {
	if collection != "demo" {
		return nil, common.NotFoundf("collection %q", collection)
	}
	s.lastSearchLimit = limit
	hits := make([]common.ScoredEntity, 0, len(s.entities))
	for i, ent := range s.entities {
		if limit > 0 && len(hits) >= limit {
			break
		}
		hits = append(hits, common.ScoredEntity{Entity: ent, Score: 1.0 - float64(i)*0.1})
	}
	return hits, nil
}

func (s *stubStore) GetImplementation(_ context.Context, collection, name string) (string, error) {
	if collection != "demo" {
		return "", common.NotFoundf("collection %q", collection)
	}
	content, ok := s.implementations[name]
	if !ok {
		return "", common.NotFoundf("implementation for %q", name)
	}
	return content, nil
}

func (s *stubStore) DeleteCollection(context.Context, string) error {
	return nil
}

type stubEmbedder struct{}

func (stubEmbedder) GenerateEmbedding(context.Context, []byte) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func newTestApp(st *stubStore) *middleware.App {
	return &middleware.App{
		Store:    st,
		Engine:   graph.NewEngine(st),
		Embedder: stubEmbedder{},
	}
}

// newTestContext builds an echo context wrapped the way the app context
// middleware would hand it to a handler.
func newTestContext(app *middleware.App, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return &middleware.AppContext{Context: c, App: app}, rec
}

func TestSearchDefaultsToHybridMode(t *testing.T) {
	st := newStubStore()
	app := newTestApp(st)

	c, rec := newTestContext(app, http.MethodPost, "/api/search", `{"query":"alpha","limit":2}`)
	if err := PostSearchHandler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res common.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.Mode != common.SearchHybrid {
		t.Fatalf("expected default mode %q, got %q", common.SearchHybrid, res.Mode)
	}
	if st.lastSearchLimit != 4 {
		t.Fatalf("expected hybrid over-fetch of 4, store saw limit %d", st.lastSearchLimit)
	}
}

func TestSearchKeepsExplicitMode(t *testing.T) {
	st := newStubStore()
	app := newTestApp(st)

	c, rec := newTestContext(app, http.MethodPost, "/api/search", `{"query":"alpha","mode":"semantic","limit":2}`)
	if err := PostSearchHandler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res common.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.Mode != common.SearchSemantic {
		t.Fatalf("expected mode %q, got %q", common.SearchSemantic, res.Mode)
	}
}

func TestGraphLayoutFocusedWalkDefaultsTight(t *testing.T) {
	st := newStubStore()
	app := newTestApp(st)

	c, rec := newTestContext(app, http.MethodGet, "/api/graph/layout/demo?focus=alpha", "")
	c.SetParamNames("collection")
	c.SetParamValues("demo")

	if err := GetGraphLayoutHandler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var layout graph.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(layout.Nodes) > 2 {
		t.Fatalf("expected the default focused walk to visit at most 2 nodes, got %d", len(layout.Nodes))
	}
}

func TestGraphLayoutFocusedWalkHonorsDepthParam(t *testing.T) {
	st := newStubStore()
	app := newTestApp(st)

	c, rec := newTestContext(app, http.MethodGet, "/api/graph/layout/demo?focus=alpha&depth=10", "")
	c.SetParamNames("collection")
	c.SetParamValues("demo")

	if err := GetGraphLayoutHandler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var layout graph.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(layout.Nodes) != 4 {
		t.Fatalf("expected a deep walk to reach all 4 chained nodes, got %d", len(layout.Nodes))
	}
}

func TestImplementationSnippetRespectsTokenBudget(t *testing.T) {
	t.Setenv("MAX_SNIPPET_TOKENS", "10")

	st := newStubStore()
	app := newTestApp(st)

	c, rec := newTestContext(app, http.MethodGet, "/api/entities/alpha/implementation?collection=demo", "")
	c.SetParamNames("name")
	c.SetParamValues("alpha")

	if err := GetEntityImplementationHandler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Entity  string `json:"entity"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.Content == "" {
		t.Fatal("expected truncated content, got empty")
	}
	if got := util.CountTokens(res.Content); got > 10 {
		t.Fatalf("expected at most 10 tokens after truncation, got %d", got)
	}
	if len(res.Content) >= len(st.implementations["alpha"]) {
		t.Fatal("expected the oversized snippet to be shortened")
	}
}
