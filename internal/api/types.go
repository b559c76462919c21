// Package api provides a rate-limited client for the PaperPulse backend.
package api

import (
	"encoding/json"

	"github.com/paperpulse/pulse/internal/graph"
)

// Message roles used by the chat endpoints.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ExploreResponse is the initial graph snapshot.
type ExploreResponse struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// GraphStats holds knowledge-graph entity counts.
type GraphStats struct {
	Papers       int `json:"papers"`
	Authors      int `json:"authors"`
	Concepts     int `json:"concepts"`
	Institutions int `json:"institutions"`
	Citations    int `json:"citations"`
	Authorships  int `json:"authorships"`
}

// SearchResult is one hit from the server-side node search.
type SearchResult struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Source   string `json:"source,omitempty"`
	Category string `json:"category,omitempty"`
}

// Node converts a search result into a minimal stand-in node for hits
// absent from the loaded snapshot: id, label, type, and source only.
func (r SearchResult) Node() graph.Node {
	typ := r.Type
	if typ == "" {
		typ = graph.InferType(r.ID)
	}
	label := r.Label
	if label == "" {
		label = graph.DisplayName(r.ID)
	}
	return graph.Node{
		ID:       r.ID,
		Label:    label,
		Type:     typ,
		Source:   r.Source,
		Category: r.Category,
	}
}

// SearchResponse wraps the node-search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// DetailAuthor is an author entry inside a paper detail.
type DetailAuthor struct {
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
}

// DetailConcept is a concept entry inside a paper detail.
type DetailConcept struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// PaperSummary is the compact paper shape used in lists.
type PaperSummary struct {
	ArxivID       string `json:"arxiv_id"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date,omitempty"`
	Source        string `json:"source,omitempty"`
	URL           string `json:"url,omitempty"`
}

// NodeDetail is the type-specific detail payload for a graph node.
// Papers carry authors/concepts/cites/cited_by, authors carry
// institutions and papers, concepts carry a category and papers; the
// unused sections stay empty.
type NodeDetail struct {
	Type string `json:"type"`

	// Paper fields
	ArxivID       string          `json:"arxiv_id,omitempty"`
	Title         string          `json:"title,omitempty"`
	PublishedDate string          `json:"published_date,omitempty"`
	Source        string          `json:"source,omitempty"`
	URL           string          `json:"url,omitempty"`
	Authors       []DetailAuthor  `json:"authors,omitempty"`
	Concepts      []DetailConcept `json:"concepts,omitempty"`
	Cites         []string        `json:"cites,omitempty"`
	CitedBy       []string        `json:"cited_by,omitempty"`

	// Author fields
	Name         string         `json:"name,omitempty"`
	Institutions []string       `json:"institutions,omitempty"`
	Papers       []PaperSummary `json:"papers,omitempty"`

	// Concept fields
	Category string `json:"category,omitempty"`
}

// SynthesisResult is the literature-review report for a node selection.
type SynthesisResult struct {
	Markdown string `json:"markdown"`
}

// RelatedPaper is a scored entry from the related-papers traversal.
// Relevance sums shared-concept (3), citation-neighbor (2), and
// shared-author (1) signals.
type RelatedPaper struct {
	ArxivID       string `json:"arxiv_id"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date,omitempty"`
	Source        string `json:"source,omitempty"`
	URL           string `json:"url,omitempty"`
	Relevance     int    `json:"relevance"`
}

// RelatedResponse wraps the related papers for one paper.
type RelatedResponse struct {
	PaperID string         `json:"paper_id"`
	Related []RelatedPaper `json:"related"`
}

// CitationNode is one paper in a citation network.
type CitationNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
}

// CitationLink is one citation in a citation network.
type CitationLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// CitationNetwork is the N-hop citation neighborhood of a paper.
type CitationNetwork struct {
	Nodes []CitationNode `json:"nodes"`
	Edges []CitationLink `json:"edges"`
}

// Coauthor is one entry in a co-author network.
type Coauthor struct {
	Name         string   `json:"name"`
	SharedPapers []string `json:"shared_papers"`
	PaperCount   int      `json:"paper_count"`
}

// AuthorNetwork is the co-author neighborhood of one author.
type AuthorNetwork struct {
	Author    string     `json:"author"`
	Coauthors []Coauthor `json:"coauthors"`
}

// ConceptPapersResponse lists the papers involving a concept.
type ConceptPapersResponse struct {
	Concept string         `json:"concept"`
	Papers  []PaperSummary `json:"papers"`
}

// Paper is the full paper row from the papers endpoint.
type Paper struct {
	ArxivID       string   `json:"arxiv_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"published_date"`
	Abstract      string   `json:"abstract,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	URL           string   `json:"url,omitempty"`
	Source        string   `json:"source,omitempty"`
	DOI           string   `json:"doi,omitempty"`
	FullText      string   `json:"full_text,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
}

// FeedItem is one entry in a user's daily feed, with the paper embedded.
type FeedItem struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	PaperID   string  `json:"paper_id"`
	Relevance float64 `json:"relevance_score"`
	IsSaved   bool    `json:"is_saved"`
	CreatedAt string  `json:"created_at,omitempty"`
	Paper     *Paper  `json:"paper,omitempty"`
}

// SaveResult acknowledges a feed save/unsave.
type SaveResult struct {
	Status  string `json:"status"`
	IsSaved bool   `json:"is_saved"`
}

// Source is a paper reference attached to an answer or chat message.
type Source struct {
	ArxivID string `json:"arxiv_id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
}

// Attachment is a file attached to a chat message. PDFs carry their
// extracted text so the backend never re-parses the file.
type Attachment struct {
	Type string `json:"type"` // "pdf"
	Name string `json:"name"`
	Text string `json:"text,omitempty"`
}

// SourceList and AttachmentList tolerate both wire forms the backend
// produces: a JSON array, or the same array JSON-encoded into a string
// (how the rows are stored). Both decode through one path.
type SourceList []Source

// UnmarshalJSON accepts an array or a JSON-encoded string of one.
func (l *SourceList) UnmarshalJSON(data []byte) error {
	return unmarshalMaybeEncoded(data, (*[]Source)(l))
}

// AttachmentList is a list of attachments; see SourceList.
type AttachmentList []Attachment

// UnmarshalJSON accepts an array or a JSON-encoded string of one.
func (l *AttachmentList) UnmarshalJSON(data []byte) error {
	return unmarshalMaybeEncoded(data, (*[]Attachment)(l))
}

// unmarshalMaybeEncoded decodes data into out, unwrapping one level of
// string encoding when present. Empty strings decode to nothing.
func unmarshalMaybeEncoded(data []byte, out any) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), out)
	}
	return json.Unmarshal(data, out)
}

// Chat is a persisted conversation. Messages are present only on the
// single-chat endpoint.
type Chat struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title"`
	Starred   bool          `json:"starred"`
	CreatedAt string        `json:"created_at,omitempty"`
	UpdatedAt string        `json:"updated_at,omitempty"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

// ChatMessage is one message in a chat, in chronological order.
type ChatMessage struct {
	ID          string         `json:"id"`
	ChatID      string         `json:"chat_id"`
	Role        string         `json:"role"` // RoleUser or RoleAI
	Content     string         `json:"content"`
	Sources     SourceList     `json:"sources,omitempty"`
	Attachments AttachmentList `json:"attachments,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"`
}

// OutgoingMessage is the body for posting a message to a chat.
type OutgoingMessage struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Sources     []Source     `json:"sources"`
	Attachments []Attachment `json:"attachments"`
}

// PostMessageResult is the response to a posted message. The backend
// auto-titles the chat after the first user message and echoes the
// generated title back.
type PostMessageResult struct {
	Message        ChatMessage `json:"message"`
	GeneratedTitle string      `json:"generated_title,omitempty"`
}

// ChatUpdate carries partial chat updates; nil fields are untouched.
type ChatUpdate struct {
	Title   *string `json:"title,omitempty"`
	Starred *bool   `json:"starred,omitempty"`
}

// Answer is the response to a corpus question.
type Answer struct {
	Answer  string     `json:"answer"`
	Sources SourceList `json:"sources,omitempty"`
}

// User is an onboarded profile.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Domains      []string `json:"domains"`
	InterestText string   `json:"interest_text,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// UserProfile is the onboarding request body.
type UserProfile struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Domains      []string `json:"domains"`
	InterestText string   `json:"interest_text,omitempty"`
}

// PopulateAck acknowledges a graph population trigger.
type PopulateAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PopulateStatus reports whether a population run is in progress.
type PopulateStatus struct {
	Running    bool            `json:"running"`
	LastResult json.RawMessage `json:"last_result,omitempty"`
}
