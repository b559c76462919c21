package graph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Edge types known to the graph.
const (
	EdgeAuthored = "authored" // author -> paper
	EdgeInvolves = "involves" // paper -> concept
	EdgeCites    = "cites"    // paper -> paper
)

// EdgeTypes lists all valid edge types.
var EdgeTypes = []string{EdgeAuthored, EdgeInvolves, EdgeCites}

// Edge represents a directed, typed relationship between two nodes.
type Edge struct {
	Source EndpointRef `json:"source"`
	Target EndpointRef `json:"target"`
	Type   string      `json:"type"` // "authored", "involves", or "cites"
}

// EndpointRef is an edge endpoint as it appears on the wire: either a
// bare node id or an embedded object carrying an "id" field (rendering
// layers rewrite endpoints in place after layout). Both forms decode to
// the bare id, so every membership test downstream sees plain ids.
type EndpointRef string

// UnmarshalJSON accepts "id" and {"id": "..."} endpoint forms.
func (r *EndpointRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = EndpointRef(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("edge endpoint: %w", err)
	}
	if obj.ID == "" {
		return ErrEmptyEndpoint
	}
	*r = EndpointRef(obj.ID)
	return nil
}

// MarshalJSON always emits the normalized bare-id form.
func (r EndpointRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// SourceID returns the normalized source node id.
func (e *Edge) SourceID() string { return string(e.Source) }

// TargetID returns the normalized target node id.
func (e *Edge) TargetID() string { return string(e.Target) }

// Touches reports whether the edge has id as either endpoint.
func (e *Edge) Touches(id string) bool {
	return string(e.Source) == id || string(e.Target) == id
}

// Validation errors.
var (
	ErrEmptyEndpoint   = errors.New("edge endpoint id is required")
	ErrInvalidEdgeType = errors.New("edge type must be authored, involves, or cites")
	ErrSelfEdge        = errors.New("edge source and target cannot be the same")
)

// ValidateForCreate validates an edge for insertion into a snapshot.
func (e *Edge) ValidateForCreate() error {
	if e.Source == "" || e.Target == "" {
		return ErrEmptyEndpoint
	}
	if !ValidEdgeType(e.Type) {
		return ErrInvalidEdgeType
	}
	if e.Source == e.Target {
		return ErrSelfEdge
	}
	return nil
}

// ValidEdgeType reports whether t is a known edge type.
func ValidEdgeType(t string) bool {
	switch t {
	case EdgeAuthored, EdgeInvolves, EdgeCites:
		return true
	}
	return false
}

// Key returns the unique identity tuple for this edge.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{
		Source: string(e.Source),
		Target: string(e.Target),
		Type:   e.Type,
	}
}

// EdgeKey represents the unique identity of an edge.
type EdgeKey struct {
	Source string
	Target string
	Type   string
}

// OrphanedEdgeInfo describes an edge that references a missing node.
type OrphanedEdgeInfo struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Reason string `json:"reason"` // "missing_source", "missing_target", or "missing_both"
}

// DetectOrphanedEdges finds edges that reference nodes not in the valid
// ID set. Returns orphaned edges with their reasons and the list of
// valid edges.
func DetectOrphanedEdges(edges []Edge, validIDs map[string]bool) (orphaned []OrphanedEdgeInfo, valid []Edge) {
	for _, e := range edges {
		sourceOK := validIDs[e.SourceID()]
		targetOK := validIDs[e.TargetID()]

		if !sourceOK || !targetOK {
			info := OrphanedEdgeInfo{
				Source: e.SourceID(),
				Target: e.TargetID(),
				Type:   e.Type,
			}
			if !sourceOK && !targetOK {
				info.Reason = "missing_both"
			} else if !sourceOK {
				info.Reason = "missing_source"
			} else {
				info.Reason = "missing_target"
			}
			orphaned = append(orphaned, info)
		} else {
			valid = append(valid, e)
		}
	}
	return orphaned, valid
}
