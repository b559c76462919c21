package explorer

import "github.com/paperpulse/pulse/internal/graph"

// Neighborhood returns the hovered id plus every id exactly one
// edge-hop away. It always works over the complete, unfiltered edge
// list so a hover shows the true neighborhood regardless of active
// filters; whether a filtered-out neighbor is actually drawn is the
// renderer's call.
func Neighborhood(hoveredID string, edges []graph.Edge) map[string]bool {
	if hoveredID == "" {
		return nil
	}
	ids := map[string]bool{hoveredID: true}
	for i := range edges {
		if src := edges[i].SourceID(); src == hoveredID {
			ids[edges[i].TargetID()] = true
		} else if edges[i].TargetID() == hoveredID {
			ids[src] = true
		}
	}
	return ids
}
