package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"github.com/codelens-dev/codelens/internal/server/middleware"
)

// clientMessage is what connected clients may send: subscription changes
// and pings. Anything else is ignored.
type clientMessage struct {
	Type       string `json:"type"`
	Collection string `json:"collection,omitempty"`
}

// WebsocketHandler upgrades the connection and keeps it registered with the
// hub until the client goes away. Clients manage collection subscriptions
// over the socket itself.
func WebsocketHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	requestedID := c.Param("client_id")

	websocket.Handler(func(conn *websocket.Conn) {
		id := app.Hub.Register(conn, requestedID)
		defer app.Hub.Unregister(id)

		var raw string
		for {
			if err := websocket.Message.Receive(conn, &raw); err != nil {
				return
			}
			var msg clientMessage
			if err := json.Unmarshal([]byte(raw), &msg); err != nil {
				continue
			}
			switch msg.Type {
			case "subscribe":
				app.Hub.Subscribe(id, msg.Collection)
			case "unsubscribe":
				app.Hub.Unsubscribe(id, msg.Collection)
			case "ping":
				websocket.Message.Send(conn, `{"type":"pong"}`)
			}
		}
	}).ServeHTTP(c.Response(), c.Request())

	return nil
}

// PostBroadcastHandler pushes an event to a collection's subscribers. The
// reindex worker posts completion notices here; nothing authenticates the
// caller, so deployments keep this endpoint off the public network.
func PostBroadcastHandler(c echo.Context) error {
	type broadcastBody struct {
		Type string `json:"type" validate:"required"`
		Data any    `json:"data"`
	}

	data := new(broadcastBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	app.Hub.BroadcastToCollection(c.Param("collection"), data.Type, data.Data)

	return c.NoContent(http.StatusNoContent)
}

// GetWsStatusHandler reports the live connection registry, used by health
// dashboards.
func GetWsStatusHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Hub.Snapshot())
}
