package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
)

// GetGraphClustersHandler runs connected-component analysis over a
// collection's relation graph.
func GetGraphClustersHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.Param("collection")

	minSize := 3
	if raw := c.QueryParam("min_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2 || parsed > 20 {
			return jsonError(c, common.InvalidArgumentf("min_size must be between 2 and 20, got %q", raw))
		}
		minSize = parsed
	}

	report, err := app.Engine.FindClusters(ctx, collection, minSize)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}
