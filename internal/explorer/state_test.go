package explorer

import (
	"reflect"
	"testing"

	"github.com/paperpulse/pulse/internal/graph"
)

func TestState_SetMode(t *testing.T) {
	st := NewState()
	if st.Mode != ModeInspect {
		t.Fatalf("initial mode = %q, want %q", st.Mode, ModeInspect)
	}

	st.SetMode(ModeSynthesize)
	if st.Mode != ModeSynthesize {
		t.Errorf("mode = %q, want %q", st.Mode, ModeSynthesize)
	}

	st.SetMode("teleport")
	if st.Mode != ModeSynthesize {
		t.Errorf("invalid mode changed state to %q", st.Mode)
	}
}

func TestState_ExitSynthesisClearsSelection(t *testing.T) {
	st := NewState()
	st.EnterSynthesisMode()
	st.ToggleSynthesisMember("p1")
	st.ToggleSynthesisMember("a1")
	if got := len(st.SynthesisIDs()); got != 2 {
		t.Fatalf("selection size = %d, want 2", got)
	}

	st.ExitSynthesisMode()
	if got := len(st.SynthesisIDs()); got != 0 {
		t.Errorf("selection survived mode exit: %v", st.SynthesisIDs())
	}

	// Re-entering starts from an empty set.
	st.EnterSynthesisMode()
	if got := len(st.SynthesisIDs()); got != 0 {
		t.Errorf("selection not empty after re-enter: %v", st.SynthesisIDs())
	}
}

func TestState_ToggleSynthesisMember(t *testing.T) {
	st := NewState()

	// Outside synthesize mode the toggle is inert.
	if st.ToggleSynthesisMember("p1") {
		t.Error("toggle outside synthesize mode added a member")
	}
	if len(st.Synthesis) != 0 {
		t.Fatalf("selection mutated outside synthesize mode: %v", st.Synthesis)
	}

	st.EnterSynthesisMode()
	if !st.ToggleSynthesisMember("p1") {
		t.Error("first toggle should add")
	}
	st.ToggleSynthesisMember("a1")
	if st.ToggleSynthesisMember("p1") {
		t.Error("second toggle should remove")
	}
	if got := st.SynthesisIDs(); !reflect.DeepEqual(got, []string{"a1"}) {
		t.Errorf("selection = %v, want [a1]", got)
	}
}

func TestState_SynthesisIDsSorted(t *testing.T) {
	st := NewState()
	st.EnterSynthesisMode()
	for _, id := range []string{"p9", "a1", "concept:zeta", "p1"} {
		st.ToggleSynthesisMember(id)
	}
	want := []string{"a1", "concept:zeta", "p1", "p9"}
	if got := st.SynthesisIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("SynthesisIDs() = %v, want %v", got, want)
	}
}

func TestState_InspectClearsStaleDetail(t *testing.T) {
	st := NewState()
	st.Inspect(graph.Node{ID: "p1", Type: graph.TypePaper})
	st.DetailError = "boom"

	st.Inspect(graph.Node{ID: "p2", Type: graph.TypePaper})
	if st.InspectedID != "p2" || st.InspectedType != graph.TypePaper {
		t.Errorf("inspected = %s/%s, want p2/paper", st.InspectedID, st.InspectedType)
	}
	if st.Detail != nil || st.DetailError != "" {
		t.Error("stale detail state survived a new inspection")
	}
}

func TestState_ReconcileExclusions(t *testing.T) {
	snap := filterSnapshot()

	st := NewState()
	st.Inspect(graph.Node{ID: "p1", Type: graph.TypePaper})

	// Visible node stays inspected.
	if st.ReconcileExclusions(snap) {
		t.Error("reconcile cleared a visible inspection")
	}

	// Hiding the node's type clears it.
	st.Exclusions.ToggleNodeType(graph.TypePaper)
	if !st.ReconcileExclusions(snap) {
		t.Error("reconcile kept an inspection whose type is hidden")
	}
	if st.InspectedID != "" {
		t.Errorf("inspected id = %q after clear", st.InspectedID)
	}

	// Idempotent with nothing inspected.
	if st.ReconcileExclusions(snap) {
		t.Error("reconcile reported a change with nothing inspected")
	}
}

func TestState_ReconcileExclusions_HiddenID(t *testing.T) {
	snap := filterSnapshot()
	st := NewState()
	st.Inspect(graph.Node{ID: "a1", Type: graph.TypeAuthor})
	st.Exclusions.HideNode("a1")

	if !st.ReconcileExclusions(snap) {
		t.Error("reconcile kept an individually hidden inspection")
	}
}

func TestState_HoverLifecycle(t *testing.T) {
	st := NewState()
	st.SetHover("p1", filterEdges())

	if st.HoveredID != "p1" {
		t.Errorf("hovered = %q, want p1", st.HoveredID)
	}
	want := []string{"a1", "c1", "p1", "p2"}
	if got := st.NeighborIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("NeighborIDs() = %v, want %v", got, want)
	}

	st.ClearHighlight()
	if st.HoveredID != "" || st.NeighborIDs() != nil {
		t.Error("highlight survived ClearHighlight")
	}
}
