package graph

import (
	"context"
	"testing"

	"github.com/codelens-dev/codelens/pkg/common"
)

func TestFindClusters_SingleComponent(t *testing.T) {
	fs := newFakeStore()
	entities, relations := callGraph()
	fs.addCollection("proj", entities, relations)
	eng := NewEngine(fs)

	// A-D bridges D into the A-B-C chain, so all four form one component.
	report, err := eng.FindClusters(context.Background(), "proj", 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if report.TotalClusters != 1 {
		t.Fatalf("expected 1 cluster, got %d", report.TotalClusters)
	}
	if report.Clusters[0].Size != 4 {
		t.Fatalf("expected cluster size 4, got %d", report.Clusters[0].Size)
	}
	if report.IsolatedNodes != 0 {
		t.Fatalf("expected 0 isolated nodes, got %d", report.IsolatedNodes)
	}
}

func TestFindClusters_EveryEntityInExactlyOneComponent(t *testing.T) {
	fs := newFakeStore()
	entities, relations := callGraph()
	entities = append(entities,
		common.Entity{ID: "5", Name: "E", EntityType: common.EntityFile},
		common.Entity{ID: "6", Name: "F", EntityType: common.EntityFile},
		common.Entity{ID: "7", Name: "G", EntityType: common.EntityFile},
	)
	relations = append(relations, common.Relation{
		ID: "r4", FromEntity: "F", ToEntity: "G", RelationType: common.RelationReferences,
	})
	fs.addCollection("proj", entities, relations)
	eng := NewEngine(fs)

	report, err := eng.FindClusters(context.Background(), "proj", 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	seen := make(map[string]int)
	clustered := 0
	for _, cluster := range report.Clusters {
		clustered += cluster.Size
		for _, name := range cluster.Nodes {
			seen[name]++
		}
	}
	for name, n := range seen {
		if n != 1 {
			t.Fatalf("entity %s reported in %d clusters", name, n)
		}
	}
	if clustered+report.IsolatedNodes != len(entities) {
		t.Fatalf("membership mismatch: %d clustered + %d isolated != %d fetched",
			clustered, report.IsolatedNodes, len(entities))
	}
}

func TestFindClusters_MinSizeCountsAsIsolated(t *testing.T) {
	fs := newFakeStore()
	entities, relations := callGraph()
	// E is a true singleton; F-G is a pair below the threshold of 3.
	entities = append(entities,
		common.Entity{ID: "5", Name: "E", EntityType: common.EntityFile},
		common.Entity{ID: "6", Name: "F", EntityType: common.EntityFile},
		common.Entity{ID: "7", Name: "G", EntityType: common.EntityFile},
	)
	relations = append(relations, common.Relation{
		ID: "r4", FromEntity: "F", ToEntity: "G", RelationType: common.RelationReferences,
	})
	fs.addCollection("proj", entities, relations)
	eng := NewEngine(fs)

	report, err := eng.FindClusters(context.Background(), "proj", 3)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if report.TotalClusters != 1 {
		t.Fatalf("expected 1 reported cluster, got %d", report.TotalClusters)
	}
	if report.IsolatedNodes != 3 {
		t.Fatalf("expected 3 isolated nodes (singleton E plus pair F-G), got %d", report.IsolatedNodes)
	}
}

func TestFindClusters_SortedBySizeDescending(t *testing.T) {
	fs := newFakeStore()
	entities := []common.Entity{
		{ID: "1", Name: "A", EntityType: common.EntityClass},
		{ID: "2", Name: "B", EntityType: common.EntityClass},
		{ID: "3", Name: "X", EntityType: common.EntityFunction},
		{ID: "4", Name: "Y", EntityType: common.EntityFunction},
		{ID: "5", Name: "Z", EntityType: common.EntityFunction},
	}
	relations := []common.Relation{
		{ID: "r1", FromEntity: "A", ToEntity: "B", RelationType: common.RelationUses},
		{ID: "r2", FromEntity: "X", ToEntity: "Y", RelationType: common.RelationCalls},
		{ID: "r3", FromEntity: "Y", ToEntity: "Z", RelationType: common.RelationCalls},
	}
	fs.addCollection("proj", entities, relations)
	eng := NewEngine(fs)

	report, err := eng.FindClusters(context.Background(), "proj", 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(report.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(report.Clusters))
	}
	if report.Clusters[0].Size < report.Clusters[1].Size {
		t.Fatalf("clusters not sorted descending: %d before %d",
			report.Clusters[0].Size, report.Clusters[1].Size)
	}
	if report.Clusters[0].Size != 3 {
		t.Fatalf("expected largest cluster of size 3 first, got %d", report.Clusters[0].Size)
	}
}

func TestFindClusters_DominantTypePluralityAndTie(t *testing.T) {
	fs := newFakeStore()
	entities := []common.Entity{
		{ID: "1", Name: "A", EntityType: common.EntityClass, FilePath: "a.go"},
		{ID: "2", Name: "B", EntityType: common.EntityFunction, FilePath: "a.go"},
		{ID: "3", Name: "C", EntityType: common.EntityFunction, FilePath: "b.go"},
	}
	relations := []common.Relation{
		{ID: "r1", FromEntity: "A", ToEntity: "B", RelationType: common.RelationContains},
		{ID: "r2", FromEntity: "A", ToEntity: "C", RelationType: common.RelationContains},
	}
	fs.addCollection("proj", entities, relations)
	eng := NewEngine(fs)

	report, err := eng.FindClusters(context.Background(), "proj", 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := report.Clusters[0].DominantType; got != common.EntityFunction {
		t.Fatalf("expected dominant type function, got %s", got)
	}
	if files := report.Clusters[0].SampleFiles; len(files) != 2 {
		t.Fatalf("expected 2 distinct sample files, got %v", files)
	}

	// An exact tie goes to the type encountered first in member order.
	tieStore := newFakeStore()
	tieStore.addCollection("proj", []common.Entity{
		{ID: "1", Name: "A", EntityType: common.EntityClass},
		{ID: "2", Name: "B", EntityType: common.EntityFunction},
	}, []common.Relation{
		{ID: "r1", FromEntity: "A", ToEntity: "B", RelationType: common.RelationContains},
	})
	tieReport, err := NewEngine(tieStore).FindClusters(context.Background(), "proj", 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := tieReport.Clusters[0].DominantType; got != common.EntityClass {
		t.Fatalf("expected tie broken by first-encountered type class, got %s", got)
	}
}

func TestFindClusters_SampleNodeCap(t *testing.T) {
	fs := newFakeStore()
	var entities []common.Entity
	var relations []common.Relation
	hub := common.Entity{ID: "hub", Name: "hub", EntityType: common.EntityModule}
	entities = append(entities, hub)
	for i := 0; i < 30; i++ {
		name := string(rune('a'+i%26)) + string(rune('0'+i/26))
		entities = append(entities, common.Entity{ID: name, Name: name, EntityType: common.EntityFunction})
		relations = append(relations, common.Relation{
			ID: "r" + name, FromEntity: "hub", ToEntity: name, RelationType: common.RelationContains,
		})
	}
	fs.addCollection("proj", entities, relations)
	eng := NewEngine(fs)

	report, err := eng.FindClusters(context.Background(), "proj", 2)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := report.Clusters[0].Size; got != 31 {
		t.Fatalf("expected component of 31, got %d", got)
	}
	if got := len(report.Clusters[0].Nodes); got != 20 {
		t.Fatalf("expected node sample capped at 20, got %d", got)
	}
}
