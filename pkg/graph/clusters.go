package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/codelens-dev/codelens/pkg/common"
)

// FindClusters partitions the collection into connected components of the
// undirected relation graph and reports the largest ones.
//
// Up to 500 entities and their relations are analyzed. Components smaller
// than minSize are discarded; the rest are sorted by descending size and
// at most the top 10 are returned. IsolatedNodes counts every fetched
// entity that ended up outside the reported clusters, whether it had no
// edges at all or sat in an under-sized component.
func (e *Engine) FindClusters(ctx context.Context, collection string, minSize int) (common.ClusterReport, error) {
	entities, err := e.store.ListEntities(ctx, collection, nil, clusterFetchCap)
	if err != nil {
		return common.ClusterReport{}, err
	}

	relations, err := e.store.ListRelations(ctx, collection, "")
	if err != nil {
		return common.ClusterReport{}, err
	}

	byName := make(map[string]common.Entity, len(entities))
	adjacency := make(map[string]map[string]bool, len(entities))
	for _, ent := range entities {
		byName[ent.Name] = ent
		adjacency[ent.Name] = make(map[string]bool)
	}

	// Direction is irrelevant for clustering; add both ends. Endpoints
	// outside the fetched entity set are ignored entirely.
	for _, rel := range relations {
		if _, ok := adjacency[rel.FromEntity]; ok {
			adjacency[rel.FromEntity][rel.ToEntity] = true
		}
		if _, ok := adjacency[rel.ToEntity]; ok {
			adjacency[rel.ToEntity][rel.FromEntity] = true
		}
	}

	visited := make(map[string]bool, len(entities))
	var components [][]string

	for _, ent := range entities {
		if visited[ent.Name] {
			continue
		}
		component := collectComponent(ent.Name, adjacency, visited)
		if len(component) >= minSize {
			components = append(components, component)
		}
	}

	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})

	reported := components
	if len(reported) > maxClusters {
		reported = reported[:maxClusters]
	}

	clusters := make([]common.Cluster, 0, len(reported))
	clustered := 0
	for i, members := range reported {
		clustered += len(members)
		clusters = append(clusters, annotateCluster(fmt.Sprintf("cluster_%d", i), members, byName))
	}

	return common.ClusterReport{
		Collection:    collection,
		TotalClusters: len(components),
		Clusters:      clusters,
		IsolatedNodes: len(entities) - clustered,
	}, nil
}

// collectComponent walks one connected component with an explicit stack.
// Recursion would overflow on large flat components.
func collectComponent(start string, adjacency map[string]map[string]bool, visited map[string]bool) []string {
	var component []string
	stack := []string{start}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		component = append(component, node)
		for neighbor := range adjacency[node] {
			if _, known := adjacency[neighbor]; known && !visited[neighbor] {
				stack = append(stack, neighbor)
			}
		}
	}
	return component
}

// annotateCluster computes the plurality entity type (ties broken by the
// type encountered first in member order) and collects member and file
// path samples.
func annotateCluster(id string, members []string, byName map[string]common.Entity) common.Cluster {
	counts := make(map[common.EntityType]int)
	var order []common.EntityType
	var sampleFiles []string
	seenFiles := make(map[string]bool)

	for _, name := range members {
		ent, ok := byName[name]
		if !ok {
			continue
		}
		if counts[ent.EntityType] == 0 {
			order = append(order, ent.EntityType)
		}
		counts[ent.EntityType]++
		if ent.FilePath != "" && !seenFiles[ent.FilePath] && len(sampleFiles) < clusterSampleFiles {
			seenFiles[ent.FilePath] = true
			sampleFiles = append(sampleFiles, ent.FilePath)
		}
	}

	var dominant common.EntityType
	best := 0
	for _, t := range order {
		if counts[t] > best {
			best = counts[t]
			dominant = t
		}
	}

	nodes := members
	if len(nodes) > clusterSampleNodes {
		nodes = nodes[:clusterSampleNodes]
	}

	if sampleFiles == nil {
		sampleFiles = []string{}
	}

	return common.Cluster{
		ID:           id,
		Size:         len(members),
		DominantType: dominant,
		Nodes:        nodes,
		SampleFiles:  sampleFiles,
	}
}
