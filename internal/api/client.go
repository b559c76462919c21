package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the PaperPulse backend base URL.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is 10 requests per second; the backend shares one
	// database pool across all clients.
	RateLimit = 10.0

	// Default limits for the various endpoints. The server clamps
	// explore at 500, search at 50, and related at 50.
	DefaultExploreLimit = 200
	DefaultSearchLimit  = 20
	DefaultRelatedLimit = 10
	DefaultCitationHops = 2
)

// Client is a rate-limited HTTP client for the PaperPulse backend API.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	userID     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithUserID sets the default user id for user-scoped endpoints.
func WithUserID(id string) ClientOption {
	return func(c *Client) {
		c.userID = id
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new PaperPulse API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
	}

	// Check the environment before applying options, so options win.
	if u := os.Getenv("PULSE_API_URL"); u != "" {
		c.baseURL = u
	}
	if key := os.Getenv("PULSE_API_KEY"); key != "" {
		c.apiKey = key
	}
	if id := os.Getenv("PULSE_USER_ID"); id != "" {
		c.userID = id
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UserID returns the configured default user id, which may be empty.
func (c *Client) UserID() string { return c.userID }

// resolveUser picks the explicit user id, falling back to the
// configured default.
func (c *Client) resolveUser(userID string) (string, error) {
	if userID != "" {
		return userID, nil
	}
	if c.userID != "" {
		return c.userID, nil
	}
	return "", ErrNoUser
}

// errorDetail extracts the FastAPI {"detail": "..."} message from an
// error response body, if there is one.
func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 8*1024))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, path string) error {
	if resp.StatusCode < 400 {
		return nil
	}
	detail := errorDetail(resp.Body)
	switch resp.StatusCode {
	case 401, 403:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case 404:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, detail)
		}
		return ErrNotFound
	case 429:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Path:       path,
		Message:    detail,
	}
}

// do executes one request against the backend and decodes the JSON
// response into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, path); err != nil {
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Explore fetches the initial graph snapshot.
func (c *Client) Explore(ctx context.Context, limit int) (*ExploreResponse, error) {
	if limit <= 0 {
		limit = DefaultExploreLimit
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var resp ExploreResponse
	if err := c.get(ctx, "/graph/explore", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches knowledge-graph entity counts.
func (c *Client) Stats(ctx context.Context) (*GraphStats, error) {
	var stats GraphStats
	if err := c.get(ctx, "/graph/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SearchNodes searches graph nodes by label.
func (c *Client) SearchNodes(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query := url.Values{
		"q":     {q},
		"limit": {strconv.Itoa(limit)},
	}

	var resp SearchResponse
	if err := c.get(ctx, "/graph/search", query, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// NodeDetail fetches the type-specific detail payload for a node. The
// node type is part of the fetch key; when empty it is inferred from
// the id prefix server-side.
func (c *Client) NodeDetail(ctx context.Context, id, nodeType string) (*NodeDetail, error) {
	query := url.Values{}
	if nodeType != "" {
		query.Set("node_type", nodeType)
	}

	var detail NodeDetail
	if err := c.get(ctx, "/graph/node/"+url.PathEscape(id), query, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Synthesize requests a literature-review report over the selected nodes.
func (c *Client) Synthesize(ctx context.Context, nodeIDs []string) (*SynthesisResult, error) {
	body := struct {
		NodeIDs []string `json:"node_ids"`
	}{NodeIDs: nodeIDs}

	var result SynthesisResult
	if err := c.do(ctx, http.MethodPost, "/graph/synthesize", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RelatedPapers fetches papers related via shared concepts, citations,
// or co-authors.
func (c *Client) RelatedPapers(ctx context.Context, arxivID string, limit int) (*RelatedResponse, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var resp RelatedResponse
	if err := c.get(ctx, "/graph/paper/"+url.PathEscape(arxivID)+"/related", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CitationNetwork fetches the citation neighborhood up to depth hops.
func (c *Client) CitationNetwork(ctx context.Context, arxivID string, depth int) (*CitationNetwork, error) {
	if depth <= 0 {
		depth = DefaultCitationHops
	}
	query := url.Values{"depth": {strconv.Itoa(depth)}}

	var network CitationNetwork
	if err := c.get(ctx, "/graph/paper/"+url.PathEscape(arxivID)+"/citations", query, &network); err != nil {
		return nil, err
	}
	return &network, nil
}

// AuthorNetwork fetches the co-author neighborhood of an author.
func (c *Client) AuthorNetwork(ctx context.Context, name string, limit int) (*AuthorNetwork, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var network AuthorNetwork
	if err := c.get(ctx, "/graph/author/"+url.PathEscape(name), query, &network); err != nil {
		return nil, err
	}
	return &network, nil
}

// ConceptPapers fetches the papers involving a concept.
func (c *Client) ConceptPapers(ctx context.Context, name string, limit int) (*ConceptPapersResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp ConceptPapersResponse
	if err := c.get(ctx, "/graph/concept/"+url.PathEscape(name), query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Feed fetches a user's daily feed, relevance-ordered, papers embedded.
func (c *Client) Feed(ctx context.Context, userID string) ([]FeedItem, error) {
	uid, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}

	var items []FeedItem
	if err := c.get(ctx, "/feed/"+url.PathEscape(uid), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetSaved bookmarks or unbookmarks a feed item.
func (c *Client) SetSaved(ctx context.Context, feedItemID string, saved bool) (*SaveResult, error) {
	body := struct {
		IsSaved bool `json:"is_saved"`
	}{IsSaved: saved}

	var result SaveResult
	if err := c.do(ctx, http.MethodPatch, "/feed/"+url.PathEscape(feedItemID), nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Paper fetches the full paper row, including abstract and summary.
func (c *Client) Paper(ctx context.Context, arxivID string) (*Paper, error) {
	var paper Paper
	if err := c.get(ctx, "/papers/"+url.PathEscape(arxivID), nil, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// Chats lists a user's chats, starred first then most recent.
func (c *Client) Chats(ctx context.Context, userID string) ([]Chat, error) {
	uid, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}
	query := url.Values{"user_id": {uid}}

	var chats []Chat
	if err := c.get(ctx, "/chats/", query, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat creates a new empty chat for a user.
func (c *Client) CreateChat(ctx context.Context, userID string) (*Chat, error) {
	uid, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}
	body := struct {
		UserID string `json:"user_id"`
	}{UserID: uid}

	var chat Chat
	if err := c.do(ctx, http.MethodPost, "/chats/", nil, body, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// Chat fetches one chat with its messages in chronological order.
func (c *Client) Chat(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	if err := c.get(ctx, "/chats/"+url.PathEscape(chatID), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// UpdateChat updates a chat's title and/or starred flag.
func (c *Client) UpdateChat(ctx context.Context, chatID string, update ChatUpdate) (*Chat, error) {
	var chat Chat
	if err := c.do(ctx, http.MethodPatch, "/chats/"+url.PathEscape(chatID), nil, update, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat deletes a chat and all its messages.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil, nil)
}

// PostMessage appends a message to a chat. Sources and attachments are
// always sent as arrays, never as encoded strings.
func (c *Client) PostMessage(ctx context.Context, chatID string, msg OutgoingMessage) (*PostMessageResult, error) {
	if msg.Sources == nil {
		msg.Sources = []Source{}
	}
	if msg.Attachments == nil {
		msg.Attachments = []Attachment{}
	}

	var result PostMessageResult
	if err := c.do(ctx, http.MethodPost, "/chats/"+url.PathEscape(chatID)+"/messages", nil, msg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ask asks a one-shot question against the user's paper corpus.
func (c *Client) Ask(ctx context.Context, userID, question string) (*Answer, error) {
	uid, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}
	body := struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
	}{UserID: uid, Question: question}

	var answer Answer
	if err := c.do(ctx, http.MethodPost, "/ask/", nil, body, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

// CreateUser registers an onboarding profile.
func (c *Client) CreateUser(ctx context.Context, profile UserProfile) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/", nil, profile, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User fetches a user's profile.
func (c *Client) User(ctx context.Context, userID string) (*User, error) {
	uid, err := c.resolveUser(userID)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.get(ctx, "/users/"+url.PathEscape(uid), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PopulateGraph triggers backend graph population for the given papers,
// or for recent papers when ids is empty.
func (c *Client) PopulateGraph(ctx context.Context, paperIDs []string) (*PopulateAck, error) {
	var body any
	if len(paperIDs) > 0 {
		body = paperIDs
	}

	var ack PopulateAck
	if err := c.do(ctx, http.MethodPost, "/graph/populate", nil, body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// PopulateStatus reports whether a population run is in progress.
func (c *Client) PopulateStatus(ctx context.Context) (*PopulateStatus, error) {
	var status PopulateStatus
	if err := c.get(ctx, "/graph/populate/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
