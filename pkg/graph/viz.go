package graph

import (
	"math"
	"math/rand"
	"strings"

	"github.com/codelens-dev/codelens/pkg/common"
)

// GraphNode is an entity shaped for visualization: sized by connectivity
// and grouped for coloring.
type GraphNode struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	EntityType common.EntityType `json:"entity_type"`
	Size       int               `json:"size"`
	Group      int               `json:"group"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
}

// GraphEdge is a relation shaped for visualization. Weight carries the
// relation confidence.
type GraphEdge struct {
	Source       string              `json:"source"`
	Target       string              `json:"target"`
	RelationType common.RelationType `json:"relation_type"`
	Weight       float64             `json:"weight"`
}

// GraphData is a complete visualization payload.
type GraphData struct {
	Nodes    []GraphNode    `json:"nodes"`
	Edges    []GraphEdge    `json:"edges"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// LayoutNode is a positioned node for pre-computed layouts.
type LayoutNode struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	EntityType common.EntityType `json:"type"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Size       int               `json:"size"`
	Group      int               `json:"group"`
}

// LayoutEdge is an edge in a positioned layout.
type LayoutEdge struct {
	Source       string              `json:"source"`
	Target       string              `json:"target"`
	RelationType common.RelationType `json:"type"`
}

// LayoutBounds is the bounding box of a positioned layout.
type LayoutBounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Layout is a positioned graph for one visualization mode.
type Layout struct {
	LayoutType string       `json:"layout_type"`
	Nodes      []LayoutNode `json:"nodes"`
	Edges      []LayoutEdge `json:"edges"`
	Bounds     LayoutBounds `json:"bounds"`
}

// BuildGraphData shapes a subgraph for visualization. Node size grows
// with the entity's degree in the subgraph; edge weight is the relation
// confidence. The subgraph is already consistent, so no endpoint checks
// happen here.
func BuildGraphData(sub common.Subgraph) GraphData {
	nodes := make([]GraphNode, 0, len(sub.Entities))
	for _, ent := range sub.Entities {
		metadata := map[string]any{
			"file_path":   ent.FilePath,
			"line_number": ent.LineNumber,
		}
		if len(ent.Observations) > 0 {
			obs := ent.Observations
			if len(obs) > 2 {
				obs = obs[:2]
			}
			metadata["observations"] = obs
		}
		if ent.Docstring != "" {
			metadata["docstring"] = truncateRunes(ent.Docstring, 100)
		}
		nodes = append(nodes, GraphNode{
			ID:         ent.Name,
			Name:       ent.Name,
			EntityType: ent.EntityType,
			Size:       nodeSize(ent.Name, sub.Relations),
			Group:      entityGroup(ent.EntityType),
			Metadata:   metadata,
		})
	}

	edges := make([]GraphEdge, 0, len(sub.Relations))
	for _, rel := range sub.Relations {
		edges = append(edges, GraphEdge{
			Source:       rel.FromEntity,
			Target:       rel.ToEntity,
			RelationType: rel.RelationType,
			Weight:       rel.Confidence,
		})
	}

	return GraphData{
		Nodes: nodes,
		Edges: edges,
		Metadata: map[string]any{
			"total_nodes": len(nodes),
			"total_edges": len(edges),
		},
	}
}

// BuildLayout positions a subgraph for one of the supported layout modes:
// "hierarchical" (rows by file path depth), "radial" (rings), or the
// default "force" (seeded random starting positions for a client-side
// force simulation).
func BuildLayout(sub common.Subgraph, layoutType string) Layout {
	nodes := make([]LayoutNode, 0, len(sub.Entities))
	for i, ent := range sub.Entities {
		var x, y float64
		switch layoutType {
		case "hierarchical":
			depth := strings.Count(ent.FilePath, "/")
			x = float64(i%10) * 100
			y = float64(depth) * 150
		case "radial":
			angle := 2 * math.Pi * float64(i) / math.Max(float64(len(sub.Entities)), 1)
			radius := 200 + float64(i%3)*100
			x = radius * math.Cos(angle)
			y = radius * math.Sin(angle)
		default:
			rng := rand.New(rand.NewSource(int64(i)))
			x = rng.Float64()*600 - 300
			y = rng.Float64()*600 - 300
		}
		nodes = append(nodes, LayoutNode{
			ID:         ent.Name,
			Name:       ent.Name,
			EntityType: ent.EntityType,
			X:          x,
			Y:          y,
			Size:       nodeSize(ent.Name, sub.Relations),
			Group:      entityGroup(ent.EntityType),
		})
	}

	edges := make([]LayoutEdge, 0, len(sub.Relations))
	for _, rel := range sub.Relations {
		edges = append(edges, LayoutEdge{
			Source:       rel.FromEntity,
			Target:       rel.ToEntity,
			RelationType: rel.RelationType,
		})
	}

	return Layout{
		LayoutType: layoutType,
		Nodes:      nodes,
		Edges:      edges,
		Bounds:     layoutBounds(nodes),
	}
}

// nodeSize scales a node by its degree: base 10, +2 per incident
// relation, capped at 50.
func nodeSize(name string, relations []common.Relation) int {
	degree := 0
	for _, rel := range relations {
		if rel.Touches(name) {
			degree++
		}
	}
	size := 10 + degree*2
	if size > 50 {
		size = 50
	}
	return size
}

// entityGroup maps an entity type to a color group.
func entityGroup(t common.EntityType) int {
	switch t {
	case common.EntityFile:
		return 0
	case common.EntityClass:
		return 1
	case common.EntityFunction, common.EntityMethod:
		return 2
	case common.EntityVariable, common.EntityConstant:
		return 3
	case common.EntityImport:
		return 4
	case common.EntityModule:
		return 5
	case common.EntityDocumentation:
		return 6
	case common.EntityTest:
		return 7
	default:
		return 8
	}
}

func layoutBounds(nodes []LayoutNode) LayoutBounds {
	if len(nodes) == 0 {
		return LayoutBounds{}
	}
	b := LayoutBounds{
		MinX: nodes[0].X, MaxX: nodes[0].X,
		MinY: nodes[0].Y, MaxY: nodes[0].Y,
	}
	for _, n := range nodes[1:] {
		b.MinX = math.Min(b.MinX, n.X)
		b.MaxX = math.Max(b.MaxX, n.X)
		b.MinY = math.Min(b.MinY, n.Y)
		b.MaxY = math.Max(b.MaxY, n.Y)
	}
	return b
}
