package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/pkg/logger"
)

// DeleteCollectionHandler removes a collection and all of its chunks, then
// notifies connected clients.
func DeleteCollectionHandler(c echo.Context) error {
	type deleteCollectionResponse struct {
		Message string `json:"message"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	name := c.Param("name")

	if err := app.Store.DeleteCollection(ctx, name); err != nil {
		return jsonError(c, err)
	}

	logger.Info("Deleted collection", "collection", name)
	app.Hub.Broadcast("collection_deleted", map[string]string{"collection": name})

	return c.JSON(http.StatusOK, deleteCollectionResponse{
		Message: "Collection deleted",
	})
}
