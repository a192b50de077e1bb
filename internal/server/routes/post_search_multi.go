package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/logger"
)

// PostSearchMultiHandler runs the same query against several collections in
// parallel and returns one response per collection.
func PostSearchMultiHandler(c echo.Context) error {
	type searchMultiBody struct {
		searchBody
		Collections []string `json:"collections" validate:"required,min=1"`
	}

	type searchMultiResponse struct {
		Responses map[string]common.SearchResponse `json:"responses"`
	}

	data := new(searchMultiBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	types, err := parseEntityTypes(data.Types)
	if err != nil {
		return jsonError(c, err)
	}

	vector, err := app.Embedder.GenerateEmbedding(ctx, []byte(data.Query))
	if err != nil {
		logger.Error("Failed to embed query", "err", err)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "embedding provider unavailable"})
	}

	responses := make([]common.SearchResponse, len(data.Collections))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, collection := range data.Collections {
		g.Go(func() error {
			params := data.toParams(vector, types)
			params.Collection = collection
			res, err := app.Engine.Search(gCtx, params)
			if err != nil {
				return err
			}
			applyTokenBudget(&res)
			responses[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return jsonError(c, err)
	}

	byCollection := make(map[string]common.SearchResponse, len(data.Collections))
	for i, collection := range data.Collections {
		byCollection[collection] = responses[i]
	}

	return c.JSON(http.StatusOK, searchMultiResponse{Responses: byCollection})
}
