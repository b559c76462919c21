package explorer

import "github.com/paperpulse/pulse/internal/api"

// Pointer-event routing. The renderer forwards raw pointer events here;
// what they mean depends on the current mode.

// ClickNode routes a node click: in inspect mode it opens the detail
// panel and recenters the camera, in synthesize mode it toggles the
// node's membership in the synthesis selection.
func (s *Session) ClickNode(id string) {
	s.do(func() { s.handleClickNode(id) })
}

func (s *Session) handleClickNode(id string) {
	n, ok := s.snap.Node(id)
	if !ok {
		return
	}
	switch s.state.Mode {
	case ModeSynthesize:
		s.state.ToggleSynthesisMember(n.ID)
		s.emitPaint()
	default:
		s.inspect(n)
	}
}

// HoverNode routes hover-enter (and hover-leave, with an empty id) to
// the highlight computation.
func (s *Session) HoverNode(id string) {
	s.do(func() {
		if id == "" {
			s.state.ClearHighlight()
		} else {
			s.state.SetHover(id, s.snap.Edges())
		}
		s.emitPaint()
	})
}

// ClickBackground clears the inspection and the hover highlight. The
// synthesis selection and the filters are untouched.
func (s *Session) ClickBackground() {
	s.do(func() {
		s.state.ClearInspection()
		s.state.ClearHighlight()
		s.emitPaint()
	})
}

// SelectResult routes a chosen search result: a locally known node goes
// straight to the inspect path; an unknown one becomes a minimal
// placeholder first. The detail fetch is keyed by id and type either
// way, so it works without full local metadata.
func (s *Session) SelectResult(r api.SearchResult) {
	s.do(func() { s.handleSelectResult(r) })
}

func (s *Session) handleSelectResult(r api.SearchResult) {
	n, ok := s.snap.Node(r.ID)
	if !ok {
		n = r.Node()
		if n.ID == "" {
			return
		}
		s.snap.Insert(n)
		s.refreshView(false)
	}
	s.inspect(n)
}
