package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/queue"
	"github.com/codelens-dev/codelens/internal/server/middleware"
)

// PostReindexHandler enqueues a reindex job for the worker. The actual
// indexing happens out of process; this only accepts the request.
func PostReindexHandler(c echo.Context) error {
	type reindexBody struct {
		Path        string `json:"path" validate:"required"`
		Incremental bool   `json:"incremental"`
	}

	type reindexResponse struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	data := new(reindexBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, reindexResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, reindexResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	collection := c.Param("name")

	correlationID, err := queue.EnqueueReindex(app.Queue, collection, data.Path, data.Incremental)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusAccepted, reindexResponse{
		Message:       "Reindex queued",
		CorrelationID: correlationID,
	})
}
