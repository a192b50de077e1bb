package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
)

// GetEntityUsageHandler summarizes how one entity is used across the
// collection: who calls it, what it calls, and its import fan-in/out.
func GetEntityUsageHandler(c echo.Context) error {
	type usageResponse struct {
		Entity        string   `json:"entity"`
		Callers       []string `json:"callers"`
		Callees       []string `json:"callees"`
		Imports       []string `json:"imports"`
		ImportedBy    []string `json:"imported_by"`
		UsageCount    int      `json:"usage_count"`
		RelationsSeen int      `json:"relations_seen"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.QueryParam("collection")
	if collection == "" {
		return jsonError(c, common.InvalidArgumentf("collection query parameter is required"))
	}
	name := c.Param("name")

	if _, err := app.Store.ResolveEntity(ctx, collection, name); err != nil {
		return jsonError(c, err)
	}

	relations, err := app.Store.ListRelations(ctx, collection, name)
	if err != nil {
		return jsonError(c, err)
	}

	res := usageResponse{
		Entity:     name,
		Callers:    make([]string, 0),
		Callees:    make([]string, 0),
		Imports:    make([]string, 0),
		ImportedBy: make([]string, 0),
	}
	for _, r := range relations {
		switch r.RelationType {
		case common.RelationCalls:
			if r.ToEntity == name {
				res.Callers = append(res.Callers, r.FromEntity)
			} else {
				res.Callees = append(res.Callees, r.ToEntity)
			}
		case common.RelationImports:
			if r.ToEntity == name {
				res.ImportedBy = append(res.ImportedBy, r.FromEntity)
			} else {
				res.Imports = append(res.Imports, r.ToEntity)
			}
		}
	}
	res.UsageCount = len(res.Callers) + len(res.ImportedBy)
	res.RelationsSeen = len(relations)

	return c.JSON(http.StatusOK, res)
}
