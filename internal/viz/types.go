// Package viz exports a visible subgraph as a standalone HTML page for
// sharing. The interactive explorer lives in internal/server; this is
// the static snapshot of whatever filter state the user exported.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a paper, author, or concept in the export.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "paper", "author", or "concept"
	Label string `json:"label"`

	// Tooltip metadata
	Source   string `json:"source,omitempty"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`

	// Sizing: edge count in the full snapshot
	Degree int `json:"degree"`
}

// Edge represents a typed relationship in the export.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
