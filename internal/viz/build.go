package viz

import "github.com/paperpulse/pulse/internal/graph"

// Build converts a visible subgraph into export form. Degrees come
// from the full snapshot so node sizing reflects true connectivity,
// not the filtered view.
func Build(nodes []graph.Node, edges []graph.Edge, degrees map[string]int) *GraphData {
	g := &GraphData{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
	}

	for i := range nodes {
		n := &nodes[i]
		g.Nodes = append(g.Nodes, Node{
			ID:       n.ID,
			Type:     n.Type,
			Label:    n.Label,
			Source:   n.Source,
			Category: n.Category,
			Date:     n.Date,
			Degree:   degrees[n.ID],
		})
	}

	for i := range edges {
		e := &edges[i]
		g.Edges = append(g.Edges, Edge{
			Source: e.SourceID(),
			Target: e.TargetID(),
			Type:   e.Type,
		})
	}

	return g
}
