package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
)

// GetGraphPathsHandler discovers directed paths between two entities.
func GetGraphPathsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.Param("collection")

	source := c.QueryParam("source")
	target := c.QueryParam("target")
	if source == "" || target == "" {
		return jsonError(c, common.InvalidArgumentf("source and target query parameters are required"))
	}

	maxDepth := 5
	if raw := c.QueryParam("max_depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 10 {
			return jsonError(c, common.InvalidArgumentf("max_depth must be between 0 and 10, got %q", raw))
		}
		maxDepth = parsed
	}

	report, err := app.Engine.PathReport(ctx, collection, source, target, maxDepth)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}
