package graph

import (
	"encoding/json"
	"testing"
)

func TestEdge_ValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{
			name:    "valid authored edge",
			edge:    Edge{Source: "author:ada lovelace", Target: "2401.00001", Type: EdgeAuthored},
			wantErr: nil,
		},
		{
			name:    "valid cites edge",
			edge:    Edge{Source: "2401.00001", Target: "1706.03762", Type: EdgeCites},
			wantErr: nil,
		},
		{
			name:    "empty source",
			edge:    Edge{Source: "", Target: "2401.00001", Type: EdgeAuthored},
			wantErr: ErrEmptyEndpoint,
		},
		{
			name:    "empty target",
			edge:    Edge{Source: "2401.00001", Target: "", Type: EdgeCites},
			wantErr: ErrEmptyEndpoint,
		},
		{
			name:    "unknown type",
			edge:    Edge{Source: "a", Target: "b", Type: "mentions"},
			wantErr: ErrInvalidEdgeType,
		},
		{
			name:    "self edge",
			edge:    Edge{Source: "2401.00001", Target: "2401.00001", Type: EdgeCites},
			wantErr: ErrSelfEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edge.ValidateForCreate()
			if err != tt.wantErr {
				t.Errorf("ValidateForCreate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEndpointRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    string
		wantErr bool
	}{
		{
			name: "bare id string",
			json: `{"source":"a1","target":"p1","type":"authored"}`,
			want: "a1",
		},
		{
			name: "embedded node object",
			json: `{"source":{"id":"a1","label":"Ada Lovelace","x":12.5},"target":"p1","type":"authored"}`,
			want: "a1",
		},
		{
			name:    "object without id",
			json:    `{"source":{"label":"Ada"},"target":"p1","type":"authored"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Edge
			err := json.Unmarshal([]byte(tt.json), &e)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if e.SourceID() != tt.want {
				t.Errorf("SourceID() = %q, want %q", e.SourceID(), tt.want)
			}
		})
	}
}

func TestEndpointRef_MarshalJSON(t *testing.T) {
	e := Edge{Source: "a1", Target: "p1", Type: EdgeAuthored}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"source":"a1","target":"p1","type":"authored"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestEdge_Key(t *testing.T) {
	e := Edge{Source: "a1", Target: "p1", Type: EdgeAuthored}
	key := e.Key()
	if key.Source != "a1" {
		t.Errorf("Source = %q, want %q", key.Source, "a1")
	}
	if key.Target != "p1" {
		t.Errorf("Target = %q, want %q", key.Target, "p1")
	}
	if key.Type != EdgeAuthored {
		t.Errorf("Type = %q, want %q", key.Type, EdgeAuthored)
	}
}

func TestEdge_Touches(t *testing.T) {
	e := Edge{Source: "a1", Target: "p1", Type: EdgeAuthored}
	if !e.Touches("a1") || !e.Touches("p1") {
		t.Error("expected edge to touch both endpoints")
	}
	if e.Touches("c1") {
		t.Error("expected edge not to touch c1")
	}
}

func TestDetectOrphanedEdges(t *testing.T) {
	edges := []Edge{
		{Source: "a1", Target: "p1", Type: EdgeAuthored},
		{Source: "p1", Target: "missing", Type: EdgeCites},
		{Source: "gone", Target: "p1", Type: EdgeAuthored},
		{Source: "gone", Target: "missing", Type: EdgeCites},
	}
	validIDs := map[string]bool{"a1": true, "p1": true}

	orphaned, valid := DetectOrphanedEdges(edges, validIDs)

	if len(valid) != 1 {
		t.Fatalf("expected 1 valid edge, got %d", len(valid))
	}
	if valid[0].SourceID() != "a1" {
		t.Errorf("valid edge source = %q, want %q", valid[0].SourceID(), "a1")
	}

	if len(orphaned) != 3 {
		t.Fatalf("expected 3 orphaned edges, got %d", len(orphaned))
	}
	wantReasons := map[string]string{
		"p1":   "missing_target",
		"gone": "missing_source",
	}
	for _, o := range orphaned {
		if o.Source == "gone" && o.Target == "missing" {
			if o.Reason != "missing_both" {
				t.Errorf("reason = %q, want missing_both", o.Reason)
			}
			continue
		}
		if want := wantReasons[o.Source]; o.Reason != want {
			t.Errorf("edge %s->%s reason = %q, want %q", o.Source, o.Target, o.Reason, want)
		}
	}
}
