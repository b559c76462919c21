package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestClient_Explore(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph/explore" {
			t.Errorf("path = %q, want /graph/explore", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		// One edge endpoint arrives as an embedded object, as the
		// rendering layer would have left it.
		w.Write([]byte(`{
			"nodes": [
				{"id": "p1", "label": "Paper One", "type": "paper", "source": "arxiv"},
				{"id": "a1", "label": "Ada Lovelace", "type": "author"}
			],
			"edges": [
				{"source": {"id": "a1", "x": 4.2}, "target": "p1", "type": "authored"}
			]
		}`))
	})

	resp, err := c.Explore(context.Background(), 50)
	if err != nil {
		t.Fatalf("Explore() error = %v", err)
	}
	if len(resp.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(resp.Nodes))
	}
	if len(resp.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(resp.Edges))
	}
	if resp.Edges[0].SourceID() != "a1" {
		t.Errorf("edge source = %q, want a1", resp.Edges[0].SourceID())
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", 401, `{"detail":"missing key"}`, IsAuthError},
		{"forbidden", 403, ``, IsAuthError},
		{"not found", 404, `{"detail":"Paper not found."}`, IsNotFound},
		{"rate limited", 429, ``, IsRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Stats(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("error %v did not match expected class", err)
			}
		})
	}
}

func TestClient_ServerErrorDetail(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`{"detail":"Failed to fetch feed."}`))
	})

	_, err := c.Stats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "Failed to fetch feed." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_NodeDetail(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graph/node/author:ada lovelace" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("node_type"); got != "author" {
			t.Errorf("node_type = %q, want author", got)
		}
		w.Write([]byte(`{
			"type": "author",
			"name": "Ada Lovelace",
			"institutions": ["Analytical Engine Society"],
			"papers": [{"arxiv_id": "p1", "title": "Paper One"}]
		}`))
	})

	detail, err := c.NodeDetail(context.Background(), "author:ada lovelace", "author")
	if err != nil {
		t.Fatalf("NodeDetail() error = %v", err)
	}
	if detail.Name != "Ada Lovelace" {
		t.Errorf("Name = %q", detail.Name)
	}
	if len(detail.Papers) != 1 {
		t.Errorf("got %d papers, want 1", len(detail.Papers))
	}
}

func TestClient_Synthesize(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var body struct {
			NodeIDs []string `json:"node_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if len(body.NodeIDs) != 2 || body.NodeIDs[0] != "p1" {
			t.Errorf("node_ids = %v", body.NodeIDs)
		}
		w.Write([]byte(`{"markdown": "# Review\n\nTwo papers."}`))
	})

	result, err := c.Synthesize(context.Background(), []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result.Markdown == "" {
		t.Error("expected non-empty markdown")
	}
}

func TestClient_FeedRequiresUser(t *testing.T) {
	t.Setenv("PULSE_USER_ID", "")
	c := NewClient(WithBaseURL("http://127.0.0.1:0"))

	_, err := c.Feed(context.Background(), "")
	if !errors.Is(err, ErrNoUser) {
		t.Errorf("error = %v, want ErrNoUser", err)
	}
}

func TestClient_FeedDefaultUser(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed/u-123" {
			t.Errorf("path = %q, want /feed/u-123", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "f1", "user_id": "u-123", "paper_id": "p1", "relevance_score": 0.92, "is_saved": false,
			 "paper": {"arxiv_id": "p1", "title": "Paper One", "authors": ["Ada Lovelace"], "published_date": "2024-01-15"}}
		]`))
	})
	// Rebuild with a default user id on top of the test base URL.
	c = NewClient(WithBaseURL(c.baseURL), WithUserID("u-123"))

	items, err := c.Feed(context.Background(), "")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Paper == nil || items[0].Paper.Title != "Paper One" {
		t.Errorf("embedded paper not decoded: %+v", items[0].Paper)
	}
}

func TestClient_PostMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chats/c-1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		// Sources and attachments must be arrays even when empty.
		if string(body["sources"]) != "[]" {
			t.Errorf("sources = %s, want []", body["sources"])
		}
		if string(body["attachments"]) != "[]" {
			t.Errorf("attachments = %s, want []", body["attachments"])
		}
		w.Write([]byte(`{
			"message": {"id": "m1", "chat_id": "c-1", "role": "user", "content": "hi"},
			"generated_title": "Greetings"
		}`))
	})

	result, err := c.PostMessage(context.Background(), "c-1", OutgoingMessage{
		Role:    RoleUser,
		Content: "hi",
	})
	if err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	if result.GeneratedTitle != "Greetings" {
		t.Errorf("GeneratedTitle = %q", result.GeneratedTitle)
	}
}
