package explorer

import (
	"context"
	"strings"
	"time"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/graph"
)

// Backend is the slice of the API client a session uses. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	SearchNodes(ctx context.Context, q string, limit int) ([]api.SearchResult, error)
	NodeDetail(ctx context.Context, id, nodeType string) (*api.NodeDetail, error)
	Synthesize(ctx context.Context, nodeIDs []string) (*api.SynthesisResult, error)
	Stats(ctx context.Context) (*api.GraphStats, error)
}

// Update types emitted to the rendering layer.
const (
	UpdateView           = "view"
	UpdatePaint          = "paint"
	UpdateDetail         = "detail"
	UpdateDetailError    = "detail_error"
	UpdateSearch         = "search_results"
	UpdateCamera         = "camera"
	UpdateSynthesis      = "synthesis"
	UpdateSynthesisError = "synthesis_error"
	UpdateStats          = "stats"
	UpdateError          = "error"
)

// Update is one state change pushed to the rendering layer. Type
// selects which fields are populated.
type Update struct {
	Type string `json:"type"`

	// UpdateView
	Nodes    []graph.Node `json:"nodes,omitempty"`
	Edges    []graph.Edge `json:"edges,omitempty"`
	Strategy string       `json:"strategy,omitempty"`

	// UpdateView, UpdatePaint
	Paint *Paint `json:"paint,omitempty"`

	// UpdateDetail, UpdateDetailError
	NodeID string          `json:"node_id,omitempty"`
	Detail *api.NodeDetail `json:"detail,omitempty"`

	// UpdateSearch
	Query   string             `json:"query,omitempty"`
	Results []api.SearchResult `json:"results,omitempty"`

	// UpdateCamera
	Camera *Camera `json:"camera,omitempty"`

	// UpdateSynthesis
	Markdown string `json:"markdown,omitempty"`

	// UpdateStats
	Stats *api.GraphStats `json:"stats,omitempty"`

	// UpdateDetailError, UpdateSynthesisError, UpdateError
	Message string `json:"message,omitempty"`
}

// Paint carries the emphasis state the renderer's per-node and per-edge
// paint callbacks read: ring the inspected node, mark synthesis
// members, spotlight a hover neighborhood.
type Paint struct {
	Mode             string   `json:"mode"`
	InspectedID      string   `json:"inspected_id,omitempty"`
	Synthesis        []string `json:"synthesis,omitempty"`
	SynthesisPending bool     `json:"synthesis_pending,omitempty"`
	HoveredID        string   `json:"hovered_id,omitempty"`
	Neighbors        []string `json:"neighbors,omitempty"`
}

// Camera asks the renderer to recenter on a node. The renderer owns
// node coordinates, so the request names the node rather than a point.
// Zoom and duration are UX tuning values, not contracts.
type Camera struct {
	NodeID     string  `json:"node_id"`
	Zoom       float64 `json:"zoom"`
	DurationMS int     `json:"duration_ms"`
}

const (
	cameraZoom       = 2.0
	cameraDurationMS = 800

	// searchDebounce is the quiet period between the last keystroke and
	// the server search dispatch.
	searchDebounce = 300 * time.Millisecond

	updateBufferSize = 64
)

// Session runs one explorer's event loop. A single goroutine (Run) owns
// the snapshot and state; public methods enqueue work onto it, and
// async fetch completions re-enter the same way, so every transition is
// a single-threaded step. Suspension points are exactly the network
// calls.
type Session struct {
	snap    *graph.Snapshot
	state   *State
	backend Backend

	calls   chan func()
	updates chan Update
	done    chan struct{}
	ctx     context.Context

	detailSeq   uint64
	searchTimer *time.Timer
	debounce    time.Duration
	afterFunc   func(time.Duration, func()) *time.Timer

	lastViewSig uint64
	haveViewSig bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce overrides the search quiet period.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithAfterFunc injects the timer scheduler, letting tests fire the
// search debounce deterministically.
func WithAfterFunc(f func(time.Duration, func()) *time.Timer) SessionOption {
	return func(s *Session) {
		s.afterFunc = f
	}
}

// NewSession creates a session over an already-loaded snapshot.
func NewSession(snap *graph.Snapshot, backend Backend, opts ...SessionOption) *Session {
	s := &Session{
		snap:      snap,
		state:     NewState(),
		backend:   backend,
		calls:     make(chan func(), 32),
		updates:   make(chan Update, updateBufferSize),
		done:      make(chan struct{}),
		debounce:  searchDebounce,
		afterFunc: time.AfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Updates returns the stream of state changes for the rendering layer.
// The channel closes when Run returns.
func (s *Session) Updates() <-chan Update { return s.updates }

// State returns the session state. Only safe to touch from inside the
// loop; exposed for the pure-function paths and tests.
func (s *Session) State() *State { return s.state }

// Run processes queued work until ctx is canceled, then closes the
// update stream. After it returns no state changes or emissions occur:
// late fetch completions and method calls are dropped at the queue.
func (s *Session) Run(ctx context.Context) {
	s.ctx = ctx
	defer close(s.updates)
	defer close(s.done)
	defer func() {
		if s.searchTimer != nil {
			s.searchTimer.Stop()
		}
	}()

	s.refreshView(true)

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-s.calls:
			fn()
		}
	}
}

// do enqueues fn onto the session goroutine, dropping it if the loop
// has exited.
func (s *Session) do(fn func()) {
	select {
	case s.calls <- fn:
	case <-s.done:
	}
}

// emit pushes an update without ever stalling the loop; a consumer that
// has fallen updateBufferSize behind loses intermediate frames.
func (s *Session) emit(u Update) {
	select {
	case s.updates <- u:
	default:
	}
}

// currentView derives the visible subgraph under the active strategy.
func (s *Session) currentView() (View, string) {
	if strings.TrimSpace(s.state.Query) != "" {
		return SearchSubgraph(s.snap, s.state.Query), StrategySearch
	}
	return VisibleSubgraph(s.snap, s.state.Exclusions), StrategyExclusion
}

// refreshView recomputes the view and emits it when membership changed.
// Identical membership is skipped so unchanged filters never force a
// re-layout.
func (s *Session) refreshView(force bool) {
	view, strategy := s.currentView()
	sig := view.Fingerprint()
	if !force && s.haveViewSig && sig == s.lastViewSig {
		return
	}
	s.lastViewSig, s.haveViewSig = sig, true
	s.emit(Update{
		Type:     UpdateView,
		Nodes:    view.Nodes,
		Edges:    view.Edges,
		Strategy: strategy,
		Paint:    s.paint(),
	})
}

func (s *Session) paint() *Paint {
	st := s.state
	return &Paint{
		Mode:             st.Mode,
		InspectedID:      st.InspectedID,
		Synthesis:        st.SynthesisIDs(),
		SynthesisPending: st.SynthesisPending,
		HoveredID:        st.HoveredID,
		Neighbors:        st.NeighborIDs(),
	}
}

func (s *Session) emitPaint() {
	s.emit(Update{Type: UpdatePaint, Paint: s.paint()})
}

// inspect selects a node, launches its detail fetch, and requests a
// camera recenter. Each fetch gets a fresh sequence number; only the
// newest may apply its result.
func (s *Session) inspect(n graph.Node) {
	s.state.Inspect(n)
	s.detailSeq++
	seq := s.detailSeq
	s.emitPaint()
	s.emit(Update{Type: UpdateCamera, Camera: &Camera{
		NodeID:     n.ID,
		Zoom:       cameraZoom,
		DurationMS: cameraDurationMS,
	}})

	go func() {
		detail, err := s.backend.NodeDetail(s.ctx, n.ID, n.Type)
		s.do(func() { s.finishDetail(seq, n.ID, detail, err) })
	}()
}

// finishDetail applies a detail response only when it matches both the
// newest fetch and the still-inspected node; superseded responses are
// discarded, not applied.
func (s *Session) finishDetail(seq uint64, id string, detail *api.NodeDetail, err error) {
	if seq != s.detailSeq || id != s.state.InspectedID {
		return
	}
	if err != nil {
		s.state.Detail = nil
		s.state.DetailError = err.Error()
		s.emit(Update{Type: UpdateDetailError, NodeID: id, Message: "could not load details"})
		return
	}
	s.state.Detail = detail
	s.state.DetailError = ""
	s.emit(Update{Type: UpdateDetail, NodeID: id, Detail: detail})
}

// SetQuery updates the text query: the canvas strategy switches
// immediately, the server search waits out the debounce.
func (s *Session) SetQuery(q string) {
	s.do(func() { s.handleSetQuery(q) })
}

func (s *Session) handleSetQuery(q string) {
	s.state.Query = q
	s.refreshView(false)

	if s.searchTimer != nil {
		s.searchTimer.Stop()
	}
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		s.emit(Update{Type: UpdateSearch, Query: "", Results: nil})
		return
	}
	s.searchTimer = s.afterFunc(s.debounce, func() {
		s.do(func() { s.fireSearch(trimmed) })
	})
}

// fireSearch dispatches the debounced server search, unless the query
// moved on during the quiet period.
func (s *Session) fireSearch(q string) {
	if strings.TrimSpace(s.state.Query) != q {
		return
	}
	go func() {
		results, err := s.backend.SearchNodes(s.ctx, q, api.DefaultSearchLimit)
		s.do(func() { s.finishSearch(q, results, err) })
	}()
}

// finishSearch applies results only while the query they answer is
// still current; an in-flight response for an edited query is dropped.
func (s *Session) finishSearch(q string, results []api.SearchResult, err error) {
	if strings.TrimSpace(s.state.Query) != q {
		return
	}
	if err != nil {
		s.emit(Update{Type: UpdateError, Message: "search failed"})
		return
	}
	s.emit(Update{Type: UpdateSearch, Query: q, Results: results})
}

// ToggleNodeType hides or re-shows every node of a type.
func (s *Session) ToggleNodeType(t string) {
	s.do(func() {
		s.state.Exclusions.ToggleNodeType(t)
		s.applyExclusionChange()
	})
}

// ToggleEdgeType hides or re-shows every edge of a type.
func (s *Session) ToggleEdgeType(t string) {
	s.do(func() {
		s.state.Exclusions.ToggleEdgeType(t)
		s.applyExclusionChange()
	})
}

// HideNode hides a single node.
func (s *Session) HideNode(id string) {
	s.do(func() {
		s.state.Exclusions.HideNode(id)
		s.applyExclusionChange()
	})
}

// ShowNode re-shows a hidden node.
func (s *Session) ShowNode(id string) {
	s.do(func() {
		s.state.Exclusions.ShowNode(id)
		s.applyExclusionChange()
	})
}

// ResetFilters clears all exclusion sets wholesale.
func (s *Session) ResetFilters() {
	s.do(func() {
		s.state.Exclusions.Reset()
		s.applyExclusionChange()
	})
}

// applyExclusionChange re-derives the view after any exclusion
// mutation, clearing the inspection when its node went hidden.
func (s *Session) applyExclusionChange() {
	if s.state.ReconcileExclusions(s.snap) {
		s.emitPaint()
	}
	s.refreshView(false)
}

// SetMode switches click routing between inspect and synthesize.
func (s *Session) SetMode(mode string) {
	s.do(func() {
		s.state.SetMode(mode)
		s.emitPaint()
	})
}

// RequestSynthesis asks the backend for a literature review over the
// selected nodes. A second request while one is pending is ignored; a
// failure keeps the selection so the user can retry.
func (s *Session) RequestSynthesis() {
	s.do(func() { s.handleSynthesize() })
}

func (s *Session) handleSynthesize() {
	ids := s.state.SynthesisIDs()
	if len(ids) == 0 {
		s.emit(Update{Type: UpdateSynthesisError, Message: "select at least one node"})
		return
	}
	if s.state.SynthesisPending {
		return
	}
	s.state.SynthesisPending = true
	s.emitPaint()

	go func() {
		result, err := s.backend.Synthesize(s.ctx, ids)
		s.do(func() { s.finishSynthesis(result, err) })
	}()
}

func (s *Session) finishSynthesis(result *api.SynthesisResult, err error) {
	s.state.SynthesisPending = false
	if err != nil {
		s.state.SynthesisError = err.Error()
		s.emit(Update{Type: UpdateSynthesisError, Message: "synthesis failed"})
		s.emitPaint()
		return
	}
	s.state.Report = result.Markdown
	s.state.SynthesisError = ""
	s.emit(Update{Type: UpdateSynthesis, Markdown: result.Markdown})
	s.emitPaint()
}

// RequestStats fetches graph statistics for the header widget.
func (s *Session) RequestStats() {
	s.do(func() {
		go func() {
			stats, err := s.backend.Stats(s.ctx)
			s.do(func() {
				if err != nil {
					s.emit(Update{Type: UpdateError, Message: "could not load stats"})
					return
				}
				s.emit(Update{Type: UpdateStats, Stats: stats})
			})
		}()
	})
}
