package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codelens-dev/codelens/internal/server/middleware"
	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/common"
)

// GetEntityRelationsHandler returns all relations touching one entity,
// split into outgoing and incoming edges.
func GetEntityRelationsHandler(c echo.Context) error {
	type relationsResponse struct {
		Entity   string            `json:"entity"`
		Outgoing []common.Relation `json:"outgoing"`
		Incoming []common.Relation `json:"incoming"`
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

	res := relationsResponse{
		Entity:   name,
		Outgoing: make([]common.Relation, 0),
		Incoming: make([]common.Relation, 0),
	}
	for _, r := range relations {
		if r.FromEntity == name {
			res.Outgoing = append(res.Outgoing, r)
		}
		if r.ToEntity == name {
			res.Incoming = append(res.Incoming, r)
		}
	}

	return c.JSON(http.StatusOK, res)
}

// dependencyImplementationCap bounds how many related implementations the
// dependencies scope pulls in.
const dependencyImplementationCap = 5

// snippetBudget caps one implementation snippet at MAX_SNIPPET_TOKENS so a
// single oversized body cannot dominate the response.
func snippetBudget(content string) string {
	budget := int(util.GetEnvNumeric("MAX_SNIPPET_TOKENS", 4000))
	if budget <= 0 {
		return content
	}
	return util.TruncateToTokens(content, budget)
}

// GetEntityImplementationHandler returns the indexed implementation chunk
// of one entity. Scope widens the response: "minimal" (default) is the
// chunk alone, "logical" adds signature and docstring context, and
// "dependencies" adds the implementations of directly called or imported
// entities.
func GetEntityImplementationHandler(c echo.Context) error {
	type dependencyImplementation struct {
		Entity  string `json:"entity"`
		Content string `json:"content"`
	}

	type implementationResponse struct {
		Entity       string                     `json:"entity"`
		Content      string                     `json:"content"`
		Language     string                     `json:"language,omitempty"`
		Signature    string                     `json:"signature,omitempty"`
		Docstring    string                     `json:"docstring,omitempty"`
		FilePath     string                     `json:"file_path,omitempty"`
		Dependencies []dependencyImplementation `json:"dependencies,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	collection := c.QueryParam("collection")
	if collection == "" {
		return jsonError(c, common.InvalidArgumentf("collection query parameter is required"))
	}
	name := c.Param("name")

	scope := c.QueryParam("scope")
	switch scope {
	case "", "minimal", "logical", "dependencies":
	default:
		return jsonError(c, common.InvalidArgumentf("unknown scope %q", scope))
	}

	content, err := app.Store.GetImplementation(ctx, collection, name)
	if err != nil {
		return jsonError(c, err)
	}

	res := implementationResponse{
		Entity:  name,
		Content: snippetBudget(content),
	}

	if scope == "logical" || scope == "dependencies" {
		entity, err := app.Store.ResolveEntity(ctx, collection, name)
		if err != nil {
			return jsonError(c, err)
		}
		res.Signature = entity.Signature
		res.Docstring = entity.Docstring
		res.FilePath = entity.FilePath
		res.Language = languageForPath(entity.FilePath)
	}

	if scope == "dependencies" {
		relations, err := app.Store.ListRelations(ctx, collection, name)
		if err != nil {
			return jsonError(c, err)
		}
		seen := map[string]bool{name: true}
		for _, r := range relations {
			if len(res.Dependencies) >= dependencyImplementationCap {
				break
			}
			if r.FromEntity != name {
				continue
			}
			if r.RelationType != common.RelationCalls && r.RelationType != common.RelationImports {
				continue
			}
			if seen[r.ToEntity] {
				continue
			}
			seen[r.ToEntity] = true

			depContent, err := app.Store.GetImplementation(ctx, collection, r.ToEntity)
			if err != nil {
				// dependencies without an indexed body are skipped
				continue
			}
			res.Dependencies = append(res.Dependencies, dependencyImplementation{
				Entity:  r.ToEntity,
				Content: snippetBudget(depContent),
			})
		}
	}

	return c.JSON(http.StatusOK, res)
}

func languageForPath(path string) string {
	ext := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = path[i:]
	}
	switch ext {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".ts", ".tsx":
		return "typescript"
	case ".js", ".jsx":
		return "javascript"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".rb":
		return "ruby"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	default:
		return ""
	}
}
