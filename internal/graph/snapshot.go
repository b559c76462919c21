package graph

// Snapshot holds the raw node/edge set for one explorer session. It is
// populated once from the backend and afterwards only appended to: a
// search hit absent from the initial load inserts a placeholder node, a
// later explore response merges over it. A single goroutine owns each
// snapshot, so there is no locking here.
type Snapshot struct {
	nodes []Node
	edges []Edge

	byID     map[string]int // node id -> index into nodes
	edgeKeys map[EdgeKey]bool
}

// NewSnapshot builds a snapshot from a fetched node/edge set. Duplicate
// node ids keep the first occurrence; duplicate edges are dropped.
func NewSnapshot(nodes []Node, edges []Edge) *Snapshot {
	s := &Snapshot{
		byID:     make(map[string]int, len(nodes)),
		edgeKeys: make(map[EdgeKey]bool, len(edges)),
	}
	s.Merge(nodes, edges)
	return s
}

// Node looks up a node by id.
func (s *Snapshot) Node(id string) (Node, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Contains reports whether a node with the given id exists.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Nodes returns the node list in insertion order. Callers must not
// modify the returned slice.
func (s *Snapshot) Nodes() []Node { return s.nodes }

// Edges returns the edge list in insertion order. Callers must not
// modify the returned slice.
func (s *Snapshot) Edges() []Edge { return s.edges }

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Insert appends a single node, typically a placeholder synthesized
// from a search result. Returns false if the id is already present.
func (s *Snapshot) Insert(n Node) bool {
	if _, exists := s.byID[n.ID]; exists {
		return false
	}
	s.byID[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return true
}

// MergeStats summarizes what a Merge changed.
type MergeStats struct {
	NodesAdded   int `json:"nodes_added"`
	NodesUpdated int `json:"nodes_updated"`
	EdgesAdded   int `json:"edges_added"`
	EdgesSkipped int `json:"edges_skipped"`
}

// Merge folds a fetched node/edge set into the snapshot. Known nodes
// are upgraded in place (empty metadata filled from the incoming
// record, so placeholders gain their real label/source/category);
// unknown nodes are appended. Edges are deduplicated by identity tuple
// and dropped when invalid.
func (s *Snapshot) Merge(nodes []Node, edges []Edge) MergeStats {
	var stats MergeStats
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		i, exists := s.byID[n.ID]
		if !exists {
			s.byID[n.ID] = len(s.nodes)
			s.nodes = append(s.nodes, n)
			stats.NodesAdded++
			continue
		}
		if s.upgrade(i, n) {
			stats.NodesUpdated++
		}
	}
	for _, e := range edges {
		if e.ValidateForCreate() != nil {
			stats.EdgesSkipped++
			continue
		}
		key := e.Key()
		if s.edgeKeys[key] {
			stats.EdgesSkipped++
			continue
		}
		s.edgeKeys[key] = true
		s.edges = append(s.edges, e)
		stats.EdgesAdded++
	}
	return stats
}

// upgrade fills empty fields of the stored node from an incoming
// record. Reports whether anything changed.
func (s *Snapshot) upgrade(i int, in Node) bool {
	n := &s.nodes[i]
	changed := false
	if n.Label == "" && in.Label != "" {
		n.Label = in.Label
		changed = true
	}
	if n.Source == "" && in.Source != "" {
		n.Source = in.Source
		changed = true
	}
	if n.Category == "" && in.Category != "" {
		n.Category = in.Category
		changed = true
	}
	if n.Date == "" && in.Date != "" {
		n.Date = in.Date
		changed = true
	}
	return changed
}

// Degrees returns the edge count per node id over the full edge list.
// Endpoints that reference missing nodes still count; orphan detection
// is a separate concern.
func (s *Snapshot) Degrees() map[string]int {
	degrees := make(map[string]int, len(s.nodes))
	for i := range s.edges {
		degrees[s.edges[i].SourceID()]++
		degrees[s.edges[i].TargetID()]++
	}
	return degrees
}

// Orphans reports edges whose endpoints are missing from the node set.
func (s *Snapshot) Orphans() []OrphanedEdgeInfo {
	valid := make(map[string]bool, len(s.nodes))
	for i := range s.nodes {
		valid[s.nodes[i].ID] = true
	}
	orphaned, _ := DetectOrphanedEdges(s.edges, valid)
	return orphaned
}
