package explorer

import (
	"sort"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/graph"
)

// Click-routing modes.
const (
	ModeInspect    = "inspect"
	ModeSynthesize = "synthesize"
)

// State is the explorer's complete UI state for one session: exclusion
// filters, the active query, the inspected node, the synthesis
// selection, and the hover highlight. Transitions are plain methods so
// every invariant lives in one place; the session goroutine is the only
// caller.
type State struct {
	Exclusions Exclusions
	Query      string

	Mode          string
	InspectedID   string
	InspectedType string
	Detail        *api.NodeDetail // nil while loading or after a failure
	DetailError   string          // inline loading-failed message

	Synthesis        map[string]bool
	SynthesisPending bool
	Report           string
	SynthesisError   string

	HoveredID string
	Neighbors map[string]bool
}

// NewState returns the initial explorer state: nothing hidden, nothing
// selected, inspect mode.
func NewState() *State {
	return &State{
		Exclusions: NewExclusions(),
		Mode:       ModeInspect,
		Synthesis:  make(map[string]bool),
	}
}

// Inspect selects a node for the detail panel and clears any previous
// detail payload. The caller owns the async fetch.
func (st *State) Inspect(n graph.Node) {
	st.InspectedID = n.ID
	st.InspectedType = n.Type
	st.Detail = nil
	st.DetailError = ""
}

// ClearInspection nulls out the inspected node and any detail state.
func (st *State) ClearInspection() {
	st.InspectedID = ""
	st.InspectedType = ""
	st.Detail = nil
	st.DetailError = ""
}

// SetMode switches click routing. Leaving synthesize mode always clears
// the synthesis set: selection does not survive a mode exit.
func (st *State) SetMode(mode string) {
	if mode != ModeInspect && mode != ModeSynthesize {
		return
	}
	if st.Mode == ModeSynthesize && mode != ModeSynthesize {
		clear(st.Synthesis)
	}
	st.Mode = mode
}

// EnterSynthesisMode switches clicks to synthesis selection.
func (st *State) EnterSynthesisMode() { st.SetMode(ModeSynthesize) }

// ExitSynthesisMode returns to inspect mode, clearing the selection.
func (st *State) ExitSynthesisMode() { st.SetMode(ModeInspect) }

// ToggleSynthesisMember adds id to the synthesis set if absent and
// removes it if present. Only valid in synthesize mode; reports the
// resulting membership.
func (st *State) ToggleSynthesisMember(id string) bool {
	if st.Mode != ModeSynthesize {
		return st.Synthesis[id]
	}
	if st.Synthesis[id] {
		delete(st.Synthesis, id)
		return false
	}
	st.Synthesis[id] = true
	return true
}

// SynthesisIDs returns the selected ids in sorted order.
func (st *State) SynthesisIDs() []string {
	ids := make([]string, 0, len(st.Synthesis))
	for id := range st.Synthesis {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetHover recomputes the highlight neighborhood for a hover-enter.
func (st *State) SetHover(id string, edges []graph.Edge) {
	st.HoveredID = id
	st.Neighbors = Neighborhood(id, edges)
}

// ClearHighlight resets hover state, as on pointer-leave or background
// click.
func (st *State) ClearHighlight() {
	st.HoveredID = ""
	st.Neighbors = nil
}

// ReconcileExclusions enforces the cross-component contract that a
// hidden node cannot remain inspected: if the inspected node is no
// longer visible under the current exclusions, the inspection is
// cleared. Reports whether it was.
func (st *State) ReconcileExclusions(snap *graph.Snapshot) bool {
	if st.InspectedID == "" {
		return false
	}
	n, ok := snap.Node(st.InspectedID)
	if ok && st.Exclusions.NodeVisible(n) {
		return false
	}
	st.ClearInspection()
	return true
}

// NeighborIDs returns the current highlight set in sorted order.
func (st *State) NeighborIDs() []string {
	if len(st.Neighbors) == 0 {
		return nil
	}
	ids := make([]string, 0, len(st.Neighbors))
	for id := range st.Neighbors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
