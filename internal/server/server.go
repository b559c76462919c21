// Package server hosts the interactive graph explorer: an embedded
// browser page running the force-directed renderer connects over a
// websocket, streams pointer events in, and receives view/paint/detail
// updates out. Each connection owns an explorer session; all graph
// state transitions happen on that session's goroutine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/graph"
)

// Server serves the explorer page and its websocket endpoint.
type Server struct {
	backend  *api.Client
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader

	// Snapshot fetched once at startup; every connection copies it so
	// per-session placeholder inserts stay isolated.
	nodes []graph.Node
	edges []graph.Edge

	clients    map[*client]bool
	register   chan *client
	unregister chan *client

	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures a Server.
type Options struct {
	Addr         string
	ExploreLimit int
}

// New creates a server and performs the one-time snapshot load.
func New(ctx context.Context, backend *api.Client, logger *zap.SugaredLogger, opts Options) (*Server, error) {
	snapshot, err := backend.Explore(ctx, opts.ExploreLimit)
	if err != nil {
		return nil, fmt.Errorf("loading graph snapshot: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	s := &Server{
		backend: backend,
		logger:  logger.Named("explorer"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		nodes:      snapshot.Nodes,
		edges:      snapshot.Edges,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		ctx:        serverCtx,
		cancel:     cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Run serves until ctx is canceled or the listener fails, then tears
// down all live connections.
func (s *Server) Run() error {
	s.wg.Add(1)
	go s.trackClients()

	s.logger.Infow("Explorer listening",
		"addr", s.httpServer.Addr,
		"nodes", len(s.nodes),
		"edges", len(s.edges),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-s.ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.shutdown()
			return fmt.Errorf("explorer server: %w", err)
		}
	}

	s.shutdown()
	return nil
}

func (s *Server) shutdown() {
	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.httpServer.Shutdown(shutdownCtx)

	s.wg.Wait()
	s.logger.Infow("Explorer stopped")
}

// trackClients owns the client set: registrations, disconnects, and
// the final sweep at shutdown.
func (s *Server) trackClients() {
	defer s.wg.Done()
	for {
		select {
		case c := <-s.register:
			s.clients[c] = true
			s.logger.Infow("Client connected",
				"client_id", c.id,
				"clients", len(s.clients),
			)
		case c := <-s.unregister:
			if s.clients[c] {
				delete(s.clients, c)
				c.close()
				s.logger.Infow("Client disconnected",
					"client_id", c.id,
					"clients", len(s.clients),
				)
			}
		case <-s.ctx.Done():
			for c := range s.clients {
				c.close()
			}
			return
		}
	}
}

// snapshotCopy builds a fresh per-session snapshot from the shared
// load.
func (s *Server) snapshotCopy() *graph.Snapshot {
	nodes := make([]graph.Node, len(s.nodes))
	copy(nodes, s.nodes)
	edges := make([]graph.Edge, len(s.edges))
	copy(edges, s.edges)
	return graph.NewSnapshot(nodes, edges)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(explorerPage))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("Websocket upgrade failed", "error", err)
		return
	}

	c := newClient(s, conn)

	select {
	case s.register <- c:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
