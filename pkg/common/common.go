package common

// EntityType classifies a node in the code knowledge graph. The set is
// closed: the indexing pipeline only ever emits these values, and switch
// statements over EntityType are expected to be exhaustive.
type EntityType string

const (
	EntityProject       EntityType = "project"
	EntityDirectory     EntityType = "directory"
	EntityFile          EntityType = "file"
	EntityClass         EntityType = "class"
	EntityInterface     EntityType = "interface"
	EntityFunction      EntityType = "function"
	EntityMethod        EntityType = "method"
	EntityVariable      EntityType = "variable"
	EntityConstant      EntityType = "constant"
	EntityImport        EntityType = "import"
	EntityModule        EntityType = "module"
	EntityDocumentation EntityType = "documentation"
	EntityTest          EntityType = "test"
	EntityChatHistory   EntityType = "chat_history"

	EntityDebuggingPattern      EntityType = "debugging_pattern"
	EntityImplementationPattern EntityType = "implementation_pattern"
	EntityIntegrationPattern    EntityType = "integration_pattern"
	EntityConfigurationPattern  EntityType = "configuration_pattern"
	EntityArchitecturePattern   EntityType = "architecture_pattern"
	EntityPerformancePattern    EntityType = "performance_pattern"
)

// EntityTypes lists every valid EntityType. Used for boundary validation;
// new types must be appended here as well as to the constant block.
var EntityTypes = []EntityType{
	EntityProject, EntityDirectory, EntityFile, EntityClass, EntityInterface,
	EntityFunction, EntityMethod, EntityVariable, EntityConstant, EntityImport,
	EntityModule, EntityDocumentation, EntityTest, EntityChatHistory,
	EntityDebuggingPattern, EntityImplementationPattern, EntityIntegrationPattern,
	EntityConfigurationPattern, EntityArchitecturePattern, EntityPerformancePattern,
}

// Valid reports whether t is a member of the closed entity type set.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RelationType classifies a directed edge between two entities.
type RelationType string

const (
	RelationContains   RelationType = "contains"
	RelationImports    RelationType = "imports"
	RelationInherits   RelationType = "inherits"
	RelationCalls      RelationType = "calls"
	RelationUses       RelationType = "uses"
	RelationImplements RelationType = "implements"
	RelationExtends    RelationType = "extends"
	RelationDocuments  RelationType = "documents"
	RelationTests      RelationType = "tests"
	RelationReferences RelationType = "references"
)

// SearchMode selects the retrieval channel for Search.
type SearchMode string

const (
	SearchSemantic SearchMode = "semantic"
	SearchKeyword  SearchMode = "keyword"
	SearchHybrid   SearchMode = "hybrid"
)

// Valid reports whether m is a known search mode.
func (m SearchMode) Valid() bool {
	switch m {
	case SearchSemantic, SearchKeyword, SearchHybrid:
		return true
	}
	return false
}

// ChunkType distinguishes the two stored record flavors per entity:
// a compact metadata chunk used for browsing, and the full implementation
// chunk holding source text.
type ChunkType string

const (
	ChunkMetadata       ChunkType = "metadata"
	ChunkImplementation ChunkType = "implementation"
)

// Entity represents a node in the code knowledge graph: a file, class,
// function, or any other artifact the indexer extracted. Entities are
// created by the external indexing pipeline and are read-only here.
//
// Name is unique within a collection and serves as the join key for all
// graph operations; relations reference entities by name, never by ID.
type Entity struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	EntityType      EntityType     `json:"entity_type"`
	Observations    []string       `json:"observations"`
	FilePath        string         `json:"file_path,omitempty"`
	LineNumber      int            `json:"line_number,omitempty"`
	EndLineNumber   int            `json:"end_line_number,omitempty"`
	Docstring       string         `json:"docstring,omitempty"`
	Signature       string         `json:"signature,omitempty"`
	ComplexityScore int            `json:"complexity_score,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Relation represents a directed, typed edge between two entities.
// Endpoints are entity names and are not guaranteed to resolve at read
// time; consumers that require consistent views drop edges with missing
// endpoints rather than erroring.
type Relation struct {
	ID           string         `json:"id"`
	FromEntity   string         `json:"from_entity"`
	ToEntity     string         `json:"to_entity"`
	RelationType RelationType   `json:"relation_type"`
	Context      string         `json:"context,omitempty"`
	Confidence   float64        `json:"confidence"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Touches reports whether the relation has name as either endpoint.
func (r Relation) Touches(name string) bool {
	return r.FromEntity == name || r.ToEntity == name
}

// Other returns the opposite endpoint of the relation relative to name.
// Returns name itself for a self-loop.
func (r Relation) Other(name string) string {
	if r.FromEntity == name {
		return r.ToEntity
	}
	return r.FromEntity
}

// ScoredEntity pairs an entity with a similarity score in [0,1].
type ScoredEntity struct {
	Entity Entity  `json:"entity"`
	Score  float64 `json:"score"`
}

// CollectionInfo describes one indexed codebase.
type CollectionInfo struct {
	Name          string         `json:"name"`
	EntityCount   int            `json:"entity_count"`
	RelationCount int            `json:"relation_count"`
	FileCount     int            `json:"file_count"`
	LastIndexed   string         `json:"last_indexed,omitempty"`
	SizeMB        float64        `json:"size_mb"`
	Health        string         `json:"health"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Subgraph is a consistent node and edge subset: every relation in
// Relations has both endpoints present in Entities.
type Subgraph struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// Cluster is one connected component of the undirected relation graph,
// annotated for visualization.
type Cluster struct {
	ID           string     `json:"id"`
	Size         int        `json:"size"`
	DominantType EntityType `json:"dominant_type"`
	Nodes        []string   `json:"nodes"`
	SampleFiles  []string   `json:"sample_files"`
}

// ClusterReport is the result of a cluster analysis pass over a collection.
// IsolatedNodes counts fetched entities that are not part of any reported
// cluster; components below the size threshold count the same as true
// singletons.
type ClusterReport struct {
	Collection    string    `json:"collection"`
	TotalClusters int       `json:"total_clusters"`
	Clusters      []Cluster `json:"clusters"`
	IsolatedNodes int       `json:"isolated_nodes"`
}

// Path is one route between two entities: the visited entity names in
// order and the relation type traversed at each step. Length is the edge
// count, len(Nodes)-1.
type Path struct {
	Nodes     []string       `json:"path"`
	EdgeTypes []RelationType `json:"edge_types"`
	Length    int            `json:"length"`
}

// PathReport is the result of a path discovery between two entities.
type PathReport struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	PathsFound int    `json:"paths_found"`
	Paths      []Path `json:"paths"`
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	Entity     Entity    `json:"entity"`
	Score      float64   `json:"score"`
	ChunkType  ChunkType `json:"chunk_type"`
	Highlights []string  `json:"highlights"`
}

// SearchResponse is a scored, paginated result page. Total is the
// pre-pagination hit count; TookMs is wall-clock time for the whole
// search operation.
type SearchResponse struct {
	Results   []SearchResult `json:"results"`
	Total     int            `json:"total"`
	Query     string         `json:"query"`
	Mode      SearchMode     `json:"mode"`
	TookMs    float64        `json:"took_ms"`
	Truncated bool           `json:"truncated,omitempty"`
}
