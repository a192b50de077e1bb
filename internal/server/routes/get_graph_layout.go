package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/graph"
)

// layoutDefaultDepth is the visited-node budget for a focused layout walk
// when the request does not pass one.
const layoutDefaultDepth = 2

// GetGraphLayoutHandler returns a precomputed node layout for a collection
// subgraph. Supported layout modes are hierarchical, radial and force.
func GetGraphLayoutHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.Param("collection")

	layoutType := c.QueryParam("layout")
	if layoutType == "" {
		layoutType = "force"
	}

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return jsonError(c, common.InvalidArgumentf("invalid limit %q", raw))
		}
		limit = parsed
	}

	// A focused walk defaults to a tight neighborhood around the focus
	// node; pass depth explicitly to widen it.
	depth := layoutDefaultDepth
	if raw := c.QueryParam("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			return jsonError(c, common.InvalidArgumentf("invalid depth %q", raw))
		}
		depth = parsed
	}

	sub, err := app.Engine.ExtractSubgraph(ctx, collection, graph.SubgraphParams{
		Focus: c.QueryParam("focus"),
		Depth: depth,
		Limit: limit,
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, graph.BuildLayout(sub, layoutType))
}
