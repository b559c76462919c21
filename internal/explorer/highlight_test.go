package explorer

import (
	"testing"

	"github.com/paperpulse/pulse/internal/graph"
)

func TestNeighborhood(t *testing.T) {
	edges := []graph.Edge{
		{Source: "a1", Target: "p1", Type: graph.EdgeAuthored},
		{Source: "p1", Target: "c1", Type: graph.EdgeInvolves},
		{Source: "p2", Target: "p1", Type: graph.EdgeCites},
		{Source: "p2", Target: "c2", Type: graph.EdgeInvolves},
	}

	tests := []struct {
		name    string
		hovered string
		want    []string
	}{
		{"hub node", "p1", []string{"a1", "c1", "p1", "p2"}},
		{"leaf node", "c1", []string{"c1", "p1"}},
		{"both directions", "p2", []string{"c2", "p1", "p2"}},
		{"isolated id", "ghost", []string{"ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Neighborhood(tt.hovered, edges)
			if len(got) != len(tt.want) {
				t.Fatalf("Neighborhood(%q) = %v, want ids %v", tt.hovered, got, tt.want)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("Neighborhood(%q) missing %q", tt.hovered, id)
				}
			}
		})
	}
}

func TestNeighborhood_EmptyID(t *testing.T) {
	if got := Neighborhood("", filterEdges()); got != nil {
		t.Errorf("Neighborhood(\"\") = %v, want nil", got)
	}
}

// The neighborhood is computed over the full edge list, never the
// filtered view, so a hover reveals neighbors even when they are
// filtered out of the canvas.
func TestNeighborhood_IgnoresFilters(t *testing.T) {
	snap := filterSnapshot()

	x := NewExclusions()
	x.ToggleNodeType(graph.TypeAuthor)

	got := Neighborhood("p1", snap.Edges())
	if !got["a1"] {
		t.Error("hidden author missing from hover neighborhood")
	}
}
