package server

import (
	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Collection routes
	apiRoutes.GET("/collections", routes.GetCollectionsHandler)
	apiRoutes.GET("/collections/:name", routes.GetCollectionHandler)
	apiRoutes.GET("/collections/:name/stats", routes.GetCollectionHandler)
	apiRoutes.DELETE("/collections/:name", routes.DeleteCollectionHandler)
	apiRoutes.POST("/collections/:name/reindex", routes.PostReindexHandler)

	// Entity routes
	apiRoutes.GET("/entities", routes.GetEntitiesHandler)
	apiRoutes.GET("/entities/:name", routes.GetEntityHandler)
	apiRoutes.GET("/entities/:name/relations", routes.GetEntityRelationsHandler)
	apiRoutes.GET("/entities/:name/usage", routes.GetEntityUsageHandler)
	apiRoutes.GET("/entities/:name/implementation", routes.GetEntityImplementationHandler)

	// Search routes
	apiRoutes.POST("/search", routes.PostSearchHandler)
	apiRoutes.POST("/search/similar", routes.PostSearchSimilarHandler)
	apiRoutes.POST("/search/multi", routes.PostSearchMultiHandler)
	apiRoutes.GET("/search/suggestions", routes.GetSuggestionsHandler)

	// Graph routes
	apiRoutes.POST("/graph", routes.PostGraphHandler)
	apiRoutes.GET("/graph/layout/:collection", routes.GetGraphLayoutHandler)
	apiRoutes.GET("/graph/clusters/:collection", routes.GetGraphClustersHandler)
	apiRoutes.GET("/graph/paths/:collection", routes.GetGraphPathsHandler)

	// Live update routes. The broadcast endpoint is for the worker; keep it
	// off the public network.
	e.GET("/ws", routes.WebsocketHandler)
	e.GET("/ws/status", routes.GetWsStatusHandler)
	e.GET("/ws/:client_id", routes.WebsocketHandler)
	e.POST("/ws/broadcast/:collection", routes.PostBroadcastHandler)
}
