package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
)

// GetEntitiesHandler pages metadata entities of a collection, optionally
// filtered by entity type.
func GetEntitiesHandler(c echo.Context) error {
	type entitiesResponse struct {
		Entities []common.Entity `json:"entities"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.QueryParam("collection")
	if collection == "" {
		return jsonError(c, common.InvalidArgumentf("collection query parameter is required"))
	}

	types, err := parseEntityTypes(c.QueryParams()["type"])
	if err != nil {
		return jsonError(c, err)
	}

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return jsonError(c, common.InvalidArgumentf("invalid limit %q", raw))
		}
		limit = parsed
	}

	entities, err := app.Store.ListEntities(ctx, collection, types, limit)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, entitiesResponse{Entities: entities})
}

// GetEntityHandler returns the metadata chunk of one entity.
func GetEntityHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.QueryParam("collection")
	if collection == "" {
		return jsonError(c, common.InvalidArgumentf("collection query parameter is required"))
	}

	entity, err := app.Store.ResolveEntity(ctx, collection, c.Param("name"))
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, entity)
}
