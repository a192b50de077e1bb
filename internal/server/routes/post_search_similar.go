package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/store"
)

// PostSearchSimilarHandler finds entities semantically close to an existing
// one. The reference entity's own textual identity is embedded and used as
// the query vector; the entity itself is excluded from the hits.
func PostSearchSimilarHandler(c echo.Context) error {
	type similarBody struct {
		Collection string `json:"collection" validate:"required"`
		Entity     string `json:"entity" validate:"required"`
		Limit      int    `json:"limit"`
	}

	type similarResponse struct {
		Entity  string                `json:"entity"`
		Results []common.ScoredEntity `json:"results"`
	}

	data := new(similarBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	limit := data.Limit
	if limit <= 0 {
		limit = 10
	}

	entity, err := app.Store.ResolveEntity(ctx, data.Collection, data.Entity)
	if err != nil {
		return jsonError(c, err)
	}

	parts := []string{entity.Name, string(entity.EntityType), entity.Signature, entity.Docstring}
	parts = append(parts, entity.Observations...)
	vector, err := app.Embedder.GenerateEmbedding(ctx, []byte(strings.Join(parts, "\n")))
	if err != nil {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "embedding provider unavailable"})
	}

	// Fetch one extra so dropping the reference entity still fills the page.
	hits, err := app.Store.SimilaritySearch(ctx, data.Collection, vector, store.SearchFilter{}, limit+1)
	if err != nil {
		return jsonError(c, err)
	}

	results := make([]common.ScoredEntity, 0, limit)
	for _, hit := range hits {
		if hit.Entity.Name == entity.Name {
			continue
		}
		if len(results) >= limit {
			break
		}
		results = append(results, hit)
	}

	return c.JSON(http.StatusOK, similarResponse{
		Entity:  entity.Name,
		Results: results,
	})
}
