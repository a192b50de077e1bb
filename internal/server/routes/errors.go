package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// jsonError maps engine and store errors onto HTTP status codes. Unknown
// errors are logged and hidden behind a generic 500.
func jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrStoreUnavailable):
		logger.Error("Store unavailable", "err", err)
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
	default:
		logger.Error("Unhandled error", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func parseEntityTypes(raw []string) ([]common.EntityType, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	types := make([]common.EntityType, 0, len(raw))
	for _, t := range raw {
		et := common.EntityType(t)
		if !et.Valid() {
			return nil, common.InvalidArgumentf("unknown entity type %q", t)
		}
		types = append(types, et)
	}
	return types, nil
}
