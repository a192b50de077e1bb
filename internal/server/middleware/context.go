package middleware

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/codelens-dev/codelens/internal/ws"
	"github.com/codelens-dev/codelens/pkg/ai"
	"github.com/codelens-dev/codelens/pkg/graph"
	"github.com/codelens-dev/codelens/pkg/store"
)

// App bundles the shared services every handler needs.
type App struct {
	DBConn   *pgxpool.Pool
	Store    store.GraphStore
	Engine   *graph.Engine
	Embedder ai.Embedder
	Hub      *ws.Hub
	Queue    *amqp091.Channel
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{
				Context: c,
				App:     app,
			}
			return next(cc)
		}
	}
}
