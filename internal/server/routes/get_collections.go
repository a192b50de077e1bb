package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/common"
)

// GetCollectionsHandler lists all collections with their statistics.
func GetCollectionsHandler(c echo.Context) error {
	type collectionsResponse struct {
		Collections []common.CollectionInfo `json:"collections"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	names, err := app.Store.ListCollections(ctx)
	if err != nil {
		return jsonError(c, err)
	}

	infos := make([]common.CollectionInfo, len(names))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			info, err := app.Store.CollectionInfo(gCtx, name)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, collectionsResponse{Collections: infos})
}

// GetCollectionHandler returns statistics for one collection.
func GetCollectionHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	info, err := app.Store.CollectionInfo(ctx, c.Param("name"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}
