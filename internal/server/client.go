package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/explorer"
)

// Websocket timeouts per the standard gorilla discipline.
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum inbound message size; pointer events are tiny
	maxMessageSize = 16 * 1024
)

// inbound is a pointer event or control message from the page.
type inbound struct {
	Type     string            `json:"type"`
	NodeID   string            `json:"node_id,omitempty"`
	NodeType string            `json:"node_type,omitempty"`
	EdgeType string            `json:"edge_type,omitempty"`
	Query    string            `json:"query,omitempty"`
	Mode     string            `json:"mode,omitempty"`
	Result   *api.SearchResult `json:"result,omitempty"`
}

// client is one websocket connection and its explorer session.
type client struct {
	server  *Server
	conn    *websocket.Conn
	session *explorer.Session
	id      string

	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newClient(s *Server, conn *websocket.Conn) *client {
	ctx, cancel := context.WithCancel(s.ctx)
	c := &client{
		server: s,
		conn:   conn,
		id:     uuid.NewString(),
		cancel: cancel,
	}
	c.session = explorer.NewSession(s.snapshotCopy(), s.backend)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		c.session.Run(ctx)
	}()
	c.session.RequestStats()

	return c
}

// close tears down the session; after the cancel no session state
// changes or emissions occur.
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.conn.Close()
	})
}

// readPump reads pointer events from the websocket and routes them to
// the session.
func (c *client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
			c.close()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				c.server.logger.Warnw("Websocket read error",
					"client_id", c.id,
					"error", err,
				)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.logger.Warnw("Bad client message",
				"client_id", c.id,
				"error", err,
			)
			continue
		}

		c.route(&msg)
	}
}

// route dispatches one inbound message to the owning session method.
// Every transition runs on the session goroutine, never here.
func (c *client) route(msg *inbound) {
	switch msg.Type {
	case "node_click":
		c.session.ClickNode(msg.NodeID)
	case "node_hover":
		c.session.HoverNode(msg.NodeID)
	case "background_click":
		c.session.ClickBackground()
	case "toggle_node_type":
		c.session.ToggleNodeType(msg.NodeType)
	case "toggle_edge_type":
		c.session.ToggleEdgeType(msg.EdgeType)
	case "hide_node":
		c.session.HideNode(msg.NodeID)
	case "show_node":
		c.session.ShowNode(msg.NodeID)
	case "reset_filters":
		c.session.ResetFilters()
	case "set_query":
		c.session.SetQuery(msg.Query)
	case "select_result":
		if msg.Result != nil {
			c.session.SelectResult(*msg.Result)
		}
	case "set_mode":
		c.session.SetMode(msg.Mode)
	case "synthesize":
		c.session.RequestSynthesis()
	case "ping":
		// Deadline already extended by the pong handler.
	default:
		c.server.logger.Debugw("Unknown message type",
			"type", msg.Type,
			"client_id", c.id,
		)
	}
}

// writePump streams session updates out and keeps the connection alive
// with pings. It exits when the session's update stream closes, which
// happens exactly once per session teardown.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case u, ok := <-c.session.Updates():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(u); err != nil {
				c.server.logger.Warnw("Websocket write error",
					"client_id", c.id,
					"error", err,
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
