package explorer

import (
	"testing"

	"github.com/paperpulse/pulse/internal/graph"
)

func filterNodes() []graph.Node {
	return []graph.Node{
		{ID: "p1", Label: "Attention Is All You Need", Type: graph.TypePaper},
		{ID: "p2", Label: "BERT", Type: graph.TypePaper},
		{ID: "a1", Label: "Ada Lovelace", Type: graph.TypeAuthor},
		{ID: "c1", Label: "attention", Type: graph.TypeConcept},
	}
}

func filterEdges() []graph.Edge {
	return []graph.Edge{
		{Source: "a1", Target: "p1", Type: graph.EdgeAuthored},
		{Source: "p1", Target: "c1", Type: graph.EdgeInvolves},
		{Source: "p2", Target: "p1", Type: graph.EdgeCites},
	}
}

func filterSnapshot() *graph.Snapshot {
	return graph.NewSnapshot(filterNodes(), filterEdges())
}

func nodeIDs(v View) map[string]bool {
	ids := make(map[string]bool, len(v.Nodes))
	for _, n := range v.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// Every edge in a filtered view must have both endpoints in the view's
// node set, whatever the exclusion configuration.
func TestVisibleSubgraph_NoDanglingEdges(t *testing.T) {
	snap := filterSnapshot()

	configs := []func(*Exclusions){
		func(x *Exclusions) {},
		func(x *Exclusions) { x.ToggleNodeType(graph.TypeAuthor) },
		func(x *Exclusions) { x.ToggleNodeType(graph.TypePaper) },
		func(x *Exclusions) { x.HideNode("p1") },
		func(x *Exclusions) { x.HideNode("c1"); x.ToggleNodeType(graph.TypeAuthor) },
		func(x *Exclusions) { x.ToggleEdgeType(graph.EdgeCites) },
		func(x *Exclusions) {
			x.ToggleNodeType(graph.TypeConcept)
			x.ToggleEdgeType(graph.EdgeAuthored)
			x.HideNode("p2")
		},
	}

	for i, configure := range configs {
		x := NewExclusions()
		configure(&x)
		view := VisibleSubgraph(snap, x)
		ids := nodeIDs(view)
		for _, e := range view.Edges {
			if !ids[e.SourceID()] || !ids[e.TargetID()] {
				t.Errorf("config %d: dangling edge %s->%s", i, e.SourceID(), e.TargetID())
			}
		}
	}
}

func TestVisibleSubgraph_HideAuthorType(t *testing.T) {
	snap := graph.NewSnapshot(
		[]graph.Node{
			{ID: "p1", Label: "Paper One", Type: graph.TypePaper},
			{ID: "a1", Label: "Ada Lovelace", Type: graph.TypeAuthor},
		},
		[]graph.Edge{{Source: "a1", Target: "p1", Type: graph.EdgeAuthored}},
	)

	x := NewExclusions()
	x.ToggleNodeType(graph.TypeAuthor)
	view := VisibleSubgraph(snap, x)

	if len(view.Nodes) != 1 || view.Nodes[0].ID != "p1" {
		t.Errorf("nodes = %+v, want [p1]", view.Nodes)
	}
	if len(view.Edges) != 0 {
		t.Errorf("edges = %+v, want none", view.Edges)
	}
}

func TestVisibleSubgraph_HideNodeID(t *testing.T) {
	snap := graph.NewSnapshot(
		[]graph.Node{
			{ID: "p1", Label: "Paper One", Type: graph.TypePaper},
			{ID: "a1", Label: "Ada Lovelace", Type: graph.TypeAuthor},
		},
		[]graph.Edge{{Source: "a1", Target: "p1", Type: graph.EdgeAuthored}},
	)

	x := NewExclusions()
	x.HideNode("p1")
	view := VisibleSubgraph(snap, x)

	if len(view.Nodes) != 1 || view.Nodes[0].ID != "a1" {
		t.Errorf("nodes = %+v, want [a1]", view.Nodes)
	}
	if len(view.Edges) != 0 {
		t.Errorf("edges = %+v, want none", view.Edges)
	}
}

// Id-level hiding dominates: incident edges disappear even when no
// node type is hidden.
func TestVisibleSubgraph_IDHideDropsIncidentEdges(t *testing.T) {
	snap := filterSnapshot()

	x := NewExclusions()
	x.HideNode("p1")
	view := VisibleSubgraph(snap, x)

	for _, e := range view.Edges {
		if e.Touches("p1") {
			t.Errorf("edge %s->%s touches hidden node", e.SourceID(), e.TargetID())
		}
	}
	if len(view.Edges) != 0 {
		t.Errorf("edges = %+v, want none (all touch p1)", view.Edges)
	}
}

func TestVisibleSubgraph_HiddenEdgeType(t *testing.T) {
	snap := filterSnapshot()

	x := NewExclusions()
	x.ToggleEdgeType(graph.EdgeCites)
	view := VisibleSubgraph(snap, x)

	if len(view.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4 (edge-type hiding leaves nodes alone)", len(view.Nodes))
	}
	for _, e := range view.Edges {
		if e.Type == graph.EdgeCites {
			t.Errorf("cites edge survived: %s->%s", e.SourceID(), e.TargetID())
		}
	}
	if len(view.Edges) != 2 {
		t.Errorf("got %d edges, want 2", len(view.Edges))
	}
}

// Hiding a type and re-showing it restores exactly the prior
// node/edge sets.
func TestVisibleSubgraph_TypeHideRoundTrip(t *testing.T) {
	snap := filterSnapshot()
	x := NewExclusions()

	before := VisibleSubgraph(snap, x)
	beforeSig := before.Fingerprint()

	x.ToggleNodeType(graph.TypeAuthor)
	hidden := VisibleSubgraph(snap, x)
	if hidden.Fingerprint() == beforeSig {
		t.Fatal("hiding a type should change the view")
	}
	if len(hidden.Nodes) != 3 {
		t.Errorf("got %d nodes while hidden, want 3", len(hidden.Nodes))
	}

	x.ToggleNodeType(graph.TypeAuthor)
	after := VisibleSubgraph(snap, x)
	if after.Fingerprint() != beforeSig {
		t.Error("round trip did not restore the original view")
	}
	if len(after.Nodes) != len(before.Nodes) || len(after.Edges) != len(before.Edges) {
		t.Errorf("after = %d/%d, want %d/%d",
			len(after.Nodes), len(after.Edges), len(before.Nodes), len(before.Edges))
	}
}

func TestExclusions_ShowNodeSelfHeals(t *testing.T) {
	x := NewExclusions()
	x.HideNode("p1")
	if len(x.NodeIDs) != 1 {
		t.Fatalf("NodeIDs = %v", x.NodeIDs)
	}
	x.ShowNode("p1")
	if len(x.NodeIDs) != 0 {
		t.Errorf("entry not removed on re-show: %v", x.NodeIDs)
	}
	if !x.Empty() {
		t.Error("expected empty exclusions")
	}
}

func TestExclusions_Reset(t *testing.T) {
	x := NewExclusions()
	x.ToggleNodeType(graph.TypeAuthor)
	x.ToggleEdgeType(graph.EdgeCites)
	x.HideNode("p1")

	x.Reset()
	if !x.Empty() {
		t.Errorf("exclusions not empty after reset: %+v", x)
	}
}

func TestSearchSubgraph_OneHopExpansion(t *testing.T) {
	// p2 -> p1 -> c1, a1 -> p1. Matching "attention" hits p1 and c1;
	// expansion adds a1 and p2 (one hop from p1), no further.
	snap := graph.NewSnapshot(
		append(filterNodes(), graph.Node{ID: "p3", Label: "Far Away", Type: graph.TypePaper}),
		append(filterEdges(), graph.Edge{Source: "p3", Target: "p2", Type: graph.EdgeCites}),
	)

	view := SearchSubgraph(snap, "attention")
	ids := nodeIDs(view)

	for _, want := range []string{"p1", "c1", "a1", "p2"} {
		if !ids[want] {
			t.Errorf("expected %s in search view", want)
		}
	}
	if ids["p3"] {
		t.Error("p3 is two hops from a match and must not appear")
	}
	for _, e := range view.Edges {
		if !ids[e.SourceID()] || !ids[e.TargetID()] {
			t.Errorf("edge %s->%s leaves the expanded set", e.SourceID(), e.TargetID())
		}
	}
}

func TestSearchSubgraph_CaseInsensitive(t *testing.T) {
	view := SearchSubgraph(filterSnapshot(), "BERT")
	ids := nodeIDs(view)
	if !ids["p2"] {
		t.Error("expected case-insensitive match for p2")
	}

	view = SearchSubgraph(filterSnapshot(), "bert")
	if !nodeIDs(view)["p2"] {
		t.Error("expected lowercase query to match")
	}
}

func TestSearchSubgraph_NoMatches(t *testing.T) {
	view := SearchSubgraph(filterSnapshot(), "zebrafish")
	if len(view.Nodes) != 0 || len(view.Edges) != 0 {
		t.Errorf("view = %d nodes/%d edges, want empty", len(view.Nodes), len(view.Edges))
	}
}

func TestView_Fingerprint(t *testing.T) {
	snap := filterSnapshot()
	x := NewExclusions()

	a := VisibleSubgraph(snap, x).Fingerprint()
	b := VisibleSubgraph(snap, x).Fingerprint()
	if a != b {
		t.Error("identical inputs produced different fingerprints")
	}

	x.HideNode("p1")
	c := VisibleSubgraph(snap, x).Fingerprint()
	if c == a {
		t.Error("different membership produced the same fingerprint")
	}
}
