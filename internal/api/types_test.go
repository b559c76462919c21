package api

import (
	"encoding/json"
	"testing"

	"github.com/paperpulse/pulse/internal/graph"
)

func TestChatMessage_DecodeEncodedLists(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "arrays",
			json: `{"id":"m1","chat_id":"c1","role":"ai","content":"answer",
				"sources":[{"arxiv_id":"p1","title":"Paper One"}],
				"attachments":[{"type":"pdf","name":"paper.pdf","text":"body"}]}`,
		},
		{
			name: "json-encoded strings",
			json: `{"id":"m1","chat_id":"c1","role":"ai","content":"answer",
				"sources":"[{\"arxiv_id\":\"p1\",\"title\":\"Paper One\"}]",
				"attachments":"[{\"type\":\"pdf\",\"name\":\"paper.pdf\",\"text\":\"body\"}]"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ChatMessage
			if err := json.Unmarshal([]byte(tt.json), &msg); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(msg.Sources) != 1 || msg.Sources[0].ArxivID != "p1" {
				t.Errorf("Sources = %+v", msg.Sources)
			}
			if len(msg.Attachments) != 1 || msg.Attachments[0].Name != "paper.pdf" {
				t.Errorf("Attachments = %+v", msg.Attachments)
			}
		})
	}
}

func TestChatMessage_DecodeEmptyEncodedList(t *testing.T) {
	var msg ChatMessage
	data := `{"id":"m1","chat_id":"c1","role":"user","content":"q","sources":"","attachments":"[]"}`
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(msg.Sources) != 0 {
		t.Errorf("Sources = %+v, want empty", msg.Sources)
	}
	if len(msg.Attachments) != 0 {
		t.Errorf("Attachments = %+v, want empty", msg.Attachments)
	}
}

func TestSearchResult_Node(t *testing.T) {
	tests := []struct {
		name   string
		result SearchResult
		want   graph.Node
	}{
		{
			name:   "full result",
			result: SearchResult{ID: "p1", Label: "Paper One", Type: "paper", Source: "arxiv"},
			want:   graph.Node{ID: "p1", Label: "Paper One", Type: "paper", Source: "arxiv"},
		},
		{
			name:   "type inferred from prefix",
			result: SearchResult{ID: "concept:attention", Label: "attention"},
			want:   graph.Node{ID: "concept:attention", Label: "attention", Type: "concept"},
		},
		{
			name:   "label falls back to embedded name",
			result: SearchResult{ID: "author:ada lovelace"},
			want:   graph.Node{ID: "author:ada lovelace", Label: "ada lovelace", Type: "author"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Node(); got != tt.want {
				t.Errorf("Node() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
