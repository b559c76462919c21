package graph

import "testing"

func testNodes() []Node {
	return []Node{
		{ID: "p1", Label: "Paper One", Type: TypePaper, Source: "arxiv"},
		{ID: "p2", Label: "Paper Two", Type: TypePaper, Source: "arxiv"},
		{ID: "a1", Label: "Ada Lovelace", Type: TypeAuthor},
		{ID: "c1", Label: "transformers", Type: TypeConcept, Category: "method"},
	}
}

func testEdges() []Edge {
	return []Edge{
		{Source: "a1", Target: "p1", Type: EdgeAuthored},
		{Source: "p1", Target: "c1", Type: EdgeInvolves},
		{Source: "p1", Target: "p2", Type: EdgeCites},
	}
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot(testNodes(), testEdges())

	if s.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", s.NodeCount())
	}
	if s.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", s.EdgeCount())
	}

	n, ok := s.Node("a1")
	if !ok {
		t.Fatal("expected to find a1")
	}
	if n.Label != "Ada Lovelace" {
		t.Errorf("Label = %q, want %q", n.Label, "Ada Lovelace")
	}

	if _, ok := s.Node("nope"); ok {
		t.Error("expected lookup miss for unknown id")
	}
}

func TestSnapshot_Insert(t *testing.T) {
	s := NewSnapshot(testNodes(), testEdges())

	placeholder := Node{ID: "p9", Label: "Found Via Search", Type: TypePaper}
	if !s.Insert(placeholder) {
		t.Fatal("expected insert of new node to succeed")
	}
	if s.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", s.NodeCount())
	}

	// Inserting an existing id is a no-op.
	if s.Insert(Node{ID: "p1", Label: "Other", Type: TypePaper}) {
		t.Error("expected insert of duplicate id to fail")
	}
	n, _ := s.Node("p1")
	if n.Label != "Paper One" {
		t.Errorf("duplicate insert mutated node: Label = %q", n.Label)
	}
}

func TestSnapshot_Merge(t *testing.T) {
	s := NewSnapshot(testNodes(), testEdges())
	s.Insert(Node{ID: "p9", Label: "Found Via Search", Type: TypePaper})

	stats := s.Merge(
		[]Node{
			{ID: "p9", Label: "Found Via Search", Type: TypePaper, Source: "arxiv", Date: "2024-01-15"},
			{ID: "p10", Label: "Brand New", Type: TypePaper, Source: "pubmed"},
			{ID: "p1", Label: "Paper One", Type: TypePaper, Source: "arxiv"},
		},
		[]Edge{
			{Source: "p9", Target: "p1", Type: EdgeCites},
			{Source: "p1", Target: "p2", Type: EdgeCites}, // duplicate
			{Source: "p1", Target: "p1", Type: EdgeCites}, // invalid self edge
		},
	)

	if stats.NodesAdded != 1 {
		t.Errorf("NodesAdded = %d, want 1", stats.NodesAdded)
	}
	if stats.NodesUpdated != 1 {
		t.Errorf("NodesUpdated = %d, want 1", stats.NodesUpdated)
	}
	if stats.EdgesAdded != 1 {
		t.Errorf("EdgesAdded = %d, want 1", stats.EdgesAdded)
	}
	if stats.EdgesSkipped != 2 {
		t.Errorf("EdgesSkipped = %d, want 2", stats.EdgesSkipped)
	}

	// Placeholder upgraded in place, no duplicate id.
	n, ok := s.Node("p9")
	if !ok {
		t.Fatal("expected p9 to remain present")
	}
	if n.Source != "arxiv" || n.Date != "2024-01-15" {
		t.Errorf("placeholder not upgraded: %+v", n)
	}
	seen := 0
	for _, node := range s.Nodes() {
		if node.ID == "p9" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("p9 appears %d times, want 1", seen)
	}
}

func TestSnapshot_Degrees(t *testing.T) {
	s := NewSnapshot(testNodes(), testEdges())
	degrees := s.Degrees()

	if degrees["p1"] != 3 {
		t.Errorf("degree of p1 = %d, want 3", degrees["p1"])
	}
	if degrees["a1"] != 1 {
		t.Errorf("degree of a1 = %d, want 1", degrees["a1"])
	}
	if degrees["p9"] != 0 {
		t.Errorf("degree of absent node = %d, want 0", degrees["p9"])
	}
}

func TestSnapshot_Orphans(t *testing.T) {
	nodes := testNodes()
	edges := append(testEdges(), Edge{Source: "p2", Target: "ghost", Type: EdgeCites})
	s := NewSnapshot(nodes, edges)

	orphans := s.Orphans()
	if len(orphans) != 1 {
		t.Fatalf("expected 1 orphan, got %d", len(orphans))
	}
	if orphans[0].Reason != "missing_target" {
		t.Errorf("Reason = %q, want missing_target", orphans[0].Reason)
	}
}
