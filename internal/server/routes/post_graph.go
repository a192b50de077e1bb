package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/graph"
)

// PostGraphHandler extracts a subgraph and returns it in the node/edge
// shape the frontend renders directly.
func PostGraphHandler(c echo.Context) error {
	type graphBody struct {
		Collection string   `json:"collection" validate:"required"`
		Focus      string   `json:"focus"`
		Types      []string `json:"entity_types"`
		Depth      int      `json:"depth" validate:"min=0,max=500"`
		Limit      int      `json:"limit" validate:"min=0,max=500"`
	}

	data := new(graphBody)
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

	depth := data.Depth
	if depth <= 0 {
		depth = 50
	}
	limit := data.Limit
	if limit <= 0 {
		limit = 100
	}

	sub, err := app.Engine.ExtractSubgraph(ctx, data.Collection, graph.SubgraphParams{
		Focus: data.Focus,
		Types: types,
		Depth: depth,
		Limit: limit,
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, graph.BuildGraphData(sub))
}
