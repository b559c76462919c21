// Package explorer implements the interactive knowledge-graph explorer:
// visible-subgraph filtering, node selection and synthesis, hover
// highlighting, and the pointer-event routing that ties them together.
// All state for one session lives on a single goroutine; rendering is a
// collaborator that consumes view/paint updates and feeds pointer
// events back in.
package explorer

import (
	"hash/fnv"
	"strings"

	"github.com/paperpulse/pulse/internal/graph"
)

// Filter strategies. A non-empty text query selects the search
// strategy; clearing it returns to exclusion filtering. The two never
// compose in one pass.
const (
	StrategyExclusion = "exclusion"
	StrategySearch    = "search"
)

// Exclusions holds the three independent hide sets: node types, edge
// types, and individual node ids. Entries exist only while hidden;
// re-showing removes them.
type Exclusions struct {
	NodeTypes map[string]bool
	EdgeTypes map[string]bool
	NodeIDs   map[string]bool
}

// NewExclusions returns an empty exclusion state.
func NewExclusions() Exclusions {
	return Exclusions{
		NodeTypes: make(map[string]bool),
		EdgeTypes: make(map[string]bool),
		NodeIDs:   make(map[string]bool),
	}
}

// ToggleNodeType flips the hidden state of a node type and reports the
// new state.
func (x *Exclusions) ToggleNodeType(t string) bool {
	if x.NodeTypes[t] {
		delete(x.NodeTypes, t)
		return false
	}
	x.NodeTypes[t] = true
	return true
}

// ToggleEdgeType flips the hidden state of an edge type and reports the
// new state.
func (x *Exclusions) ToggleEdgeType(t string) bool {
	if x.EdgeTypes[t] {
		delete(x.EdgeTypes, t)
		return false
	}
	x.EdgeTypes[t] = true
	return true
}

// HideNode hides a single node by id.
func (x *Exclusions) HideNode(id string) {
	x.NodeIDs[id] = true
}

// ShowNode re-shows a hidden node, removing its entry.
func (x *Exclusions) ShowNode(id string) {
	delete(x.NodeIDs, id)
}

// Reset clears all three sets wholesale.
func (x *Exclusions) Reset() {
	clear(x.NodeTypes)
	clear(x.EdgeTypes)
	clear(x.NodeIDs)
}

// Empty reports whether nothing is hidden.
func (x *Exclusions) Empty() bool {
	return len(x.NodeTypes) == 0 && len(x.EdgeTypes) == 0 && len(x.NodeIDs) == 0
}

// NodeVisible evaluates node visibility: type not hidden AND id not
// hidden. The two predicates are independent; order is immaterial.
func (x *Exclusions) NodeVisible(n graph.Node) bool {
	return !x.NodeTypes[n.Type] && !x.NodeIDs[n.ID]
}

// View is a visible subgraph. Node and edge order follows the snapshot,
// so identical membership yields an identical view.
type View struct {
	Nodes []graph.Node
	Edges []graph.Edge
}

// Fingerprint hashes view membership. Unchanged inputs produce the same
// fingerprint, letting callers skip redundant re-layouts.
func (v View) Fingerprint() uint64 {
	h := fnv.New64a()
	for i := range v.Nodes {
		h.Write([]byte(v.Nodes[i].ID))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for i := range v.Edges {
		h.Write([]byte(v.Edges[i].SourceID()))
		h.Write([]byte{0})
		h.Write([]byte(v.Edges[i].TargetID()))
		h.Write([]byte{0})
		h.Write([]byte(v.Edges[i].Type))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// VisibleSubgraph derives the visible subgraph under the exclusion
// strategy: drop hidden nodes, keep edges with both surviving
// endpoints, then drop hidden edge types. Hiding a node id removes all
// its incident edges even when no type is hidden.
func VisibleSubgraph(s *graph.Snapshot, x Exclusions) View {
	all := s.Nodes()
	nodes := make([]graph.Node, 0, len(all))
	visible := make(map[string]bool, len(all))
	for i := range all {
		if x.NodeVisible(all[i]) {
			nodes = append(nodes, all[i])
			visible[all[i].ID] = true
		}
	}

	allEdges := s.Edges()
	edges := make([]graph.Edge, 0, len(allEdges))
	for i := range allEdges {
		e := allEdges[i]
		if !visible[e.SourceID()] || !visible[e.TargetID()] {
			continue
		}
		if x.EdgeTypes[e.Type] {
			continue
		}
		edges = append(edges, e)
	}
	return View{Nodes: nodes, Edges: edges}
}

// SearchSubgraph derives the visible subgraph under the search
// strategy: nodes whose label contains the query (case-insensitive),
// expanded by exactly one hop along any edge, with edges restricted to
// pairs fully inside the expanded set.
func SearchSubgraph(s *graph.Snapshot, query string) View {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return View{Nodes: s.Nodes(), Edges: s.Edges()}
	}

	all := s.Nodes()
	matched := make(map[string]bool)
	for i := range all {
		if strings.Contains(strings.ToLower(all[i].Label), q) {
			matched[all[i].ID] = true
		}
	}

	keep := make(map[string]bool, len(matched))
	for id := range matched {
		keep[id] = true
	}
	allEdges := s.Edges()
	for i := range allEdges {
		e := allEdges[i]
		if matched[e.SourceID()] {
			keep[e.TargetID()] = true
		}
		if matched[e.TargetID()] {
			keep[e.SourceID()] = true
		}
	}

	nodes := make([]graph.Node, 0, len(keep))
	for i := range all {
		if keep[all[i].ID] {
			nodes = append(nodes, all[i])
		}
	}
	edges := make([]graph.Edge, 0, len(allEdges))
	for i := range allEdges {
		if keep[allEdges[i].SourceID()] && keep[allEdges[i].TargetID()] {
			edges = append(edges, allEdges[i])
		}
	}
	return View{Nodes: nodes, Edges: edges}
}
