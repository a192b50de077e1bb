package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/graph"
	"github.com/codelens-dev/codelens/pkg/logger"
)

type searchBody struct {
	Query                 string   `json:"query" validate:"required"`
	Collection            string   `json:"collection"`
	Mode                  string   `json:"mode"`
	Types                 []string `json:"entity_types"`
	Limit                 int      `json:"limit" validate:"min=0,max=100"`
	Offset                int      `json:"offset" validate:"min=0"`
	IncludeImplementation bool     `json:"include_implementation"`
}

func (b *searchBody) toParams(vector []float32, types []common.EntityType) graph.SearchParams {
	mode := common.SearchMode(b.Mode)
	if b.Mode == "" {
		mode = common.SearchHybrid
	}
	limit := b.Limit
	if limit <= 0 {
		limit = 10
	}
	return graph.SearchParams{
		Collection:            b.Collection,
		Query:                 b.Query,
		Vector:                vector,
		Mode:                  mode,
		Types:                 types,
		Limit:                 limit,
		Offset:                b.Offset,
		IncludeImplementation: b.IncludeImplementation,
	}
}

// PostSearchHandler runs a ranked search over one collection. The response
// is trimmed to the configured token budget so downstream LLM consumers
// never receive an oversized context.
func PostSearchHandler(c echo.Context) error {
	data := new(searchBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	types, err := parseEntityTypes(data.Types)
	if err != nil {
		return jsonError(c, err)
	}

	vector, err := app.Embedder.GenerateEmbedding(ctx, []byte(data.Query))
	if err != nil {
		logger.Error("Failed to embed query", "err", err)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "embedding provider unavailable"})
	}

	res, err := app.Engine.Search(ctx, data.toParams(vector, types))
	if err != nil {
		return jsonError(c, err)
	}

	applyTokenBudget(&res)

	return c.JSON(http.StatusOK, res)
}

// applyTokenBudget drops trailing results once the serialized response
// would exceed MAX_RESPONSE_TOKENS and marks the response truncated.
func applyTokenBudget(res *common.SearchResponse) {
	budget := int(util.GetEnvNumeric("MAX_RESPONSE_TOKENS", 23000))
	if budget <= 0 || len(res.Results) == 0 {
		return
	}

	used := 0
	for i := range res.Results {
		payload, err := json.Marshal(res.Results[i])
		if err != nil {
			continue
		}
		used += util.CountTokens(string(payload))
		if used > budget && i > 0 {
			res.Results = res.Results[:i]
			res.Truncated = true
			return
		}
	}
}
