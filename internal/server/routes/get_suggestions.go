package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/graph"
)

// GetSuggestionsHandler returns entity name completions for a query prefix.
func GetSuggestionsHandler(c echo.Context) error {
	type suggestionsResponse struct {
		Suggestions []graph.Suggestion `json:"suggestions"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.QueryParam("collection")
	if collection == "" {
		return jsonError(c, common.InvalidArgumentf("collection query parameter is required"))
	}

	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return jsonError(c, common.InvalidArgumentf("invalid limit %q", raw))
		}
		limit = parsed
	}

	suggestions, err := app.Engine.Suggest(ctx, collection, c.QueryParam("q"), limit)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}
