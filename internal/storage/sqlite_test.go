package storage

import (
	"path/filepath"
	"testing"

	"github.com/paperpulse/pulse/internal/graph"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testNodes() []graph.Node {
	return []graph.Node{
		{ID: "2401.00001", Label: "Attention Is Not Enough", Type: graph.TypePaper, Source: "arxiv", Date: "2024-01-01"},
		{ID: "author:jane doe", Label: "Jane Doe", Type: graph.TypeAuthor},
		{ID: "concept:transformers", Label: "transformers", Type: graph.TypeConcept, Category: "architecture"},
	}
}

func testEdges() []graph.Edge {
	return []graph.Edge{
		{Source: "author:jane doe", Target: "2401.00001", Type: graph.EdgeAuthored},
		{Source: "2401.00001", Target: "concept:transformers", Type: graph.EdgeInvolves},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveSnapshot(testNodes(), testEdges()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	nodes, edges, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("loaded %d nodes, want 3", len(nodes))
	}
	if len(edges) != 2 {
		t.Errorf("loaded %d edges, want 2", len(edges))
	}

	// Order and metadata survive the round trip.
	if nodes[0].ID != "2401.00001" || nodes[0].Source != "arxiv" || nodes[0].Date != "2024-01-01" {
		t.Errorf("first node = %+v", nodes[0])
	}
	if nodes[2].Category != "architecture" {
		t.Errorf("concept category = %q", nodes[2].Category)
	}
	if edges[0].SourceID() != "author:jane doe" || edges[0].Type != graph.EdgeAuthored {
		t.Errorf("first edge = %+v", edges[0])
	}

	savedAt, err := db.SavedAt()
	if err != nil {
		t.Fatalf("SavedAt() error = %v", err)
	}
	if savedAt.IsZero() {
		t.Error("SavedAt() is zero after save")
	}
}

func TestSaveReplacesWholesale(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveSnapshot(testNodes(), testEdges()); err != nil {
		t.Fatal(err)
	}

	replacement := []graph.Node{
		{ID: "2402.99999", Label: "A Different Paper", Type: graph.TypePaper},
	}
	if err := db.SaveSnapshot(replacement, nil); err != nil {
		t.Fatal(err)
	}

	nodes, edges, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].ID != "2402.99999" {
		t.Errorf("nodes after replace = %+v, want only the new snapshot", nodes)
	}
	if len(edges) != 0 {
		t.Errorf("edges after replace = %d, want 0", len(edges))
	}

	// The old snapshot must not linger in the FTS index either.
	hits, err := db.Find("Attention", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("Find() after replace = %+v, want none", hits)
	}
}

func TestLoadEmpty(t *testing.T) {
	db := openTestDB(t)

	nodes, edges, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(nodes) != 0 || len(edges) != 0 {
		t.Errorf("empty cache loaded %d nodes, %d edges", len(nodes), len(edges))
	}

	savedAt, err := db.SavedAt()
	if err != nil {
		t.Fatal(err)
	}
	if !savedAt.IsZero() {
		t.Errorf("SavedAt() = %v for empty cache, want zero", savedAt)
	}
}

func TestFind(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveSnapshot(testNodes(), testEdges()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"label word", "attention", []string{"2401.00001"}},
		{"author name", "jane", []string{"author:jane doe"}},
		{"no match", "quantum", nil},
		// Operator characters quote the query wholesale, so it becomes
		// an FTS5 phrase: "jane-doe:*" tokenizes to jane doe and
		// phrase-matches the author instead of erroring.
		{"operator chars become a phrase", "jane-doe:*", []string{"author:jane doe"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := db.Find(tt.query, 10)
			if err != nil {
				t.Fatalf("Find(%q) error = %v", tt.query, err)
			}
			if len(hits) != len(tt.wantIDs) {
				t.Fatalf("Find(%q) returned %d hits, want %d", tt.query, len(hits), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if hits[i].ID != id {
					t.Errorf("hit[%d].ID = %q, want %q", i, hits[i].ID, id)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveSnapshot(testNodes(), testEdges()); err != nil {
		t.Fatal(err)
	}

	counts, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if counts.Nodes[graph.TypePaper] != 1 || counts.Nodes[graph.TypeAuthor] != 1 || counts.Nodes[graph.TypeConcept] != 1 {
		t.Errorf("node counts = %+v", counts.Nodes)
	}
	if counts.Edges[graph.EdgeAuthored] != 1 || counts.Edges[graph.EdgeInvolves] != 1 {
		t.Errorf("edge counts = %+v", counts.Edges)
	}
}
