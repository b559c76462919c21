// Package graph defines the core domain types for the knowledge graph:
// nodes (papers, authors, concepts), typed edges between them, and the
// in-memory snapshot the explorer works against.
package graph

import (
	"errors"
	"strings"
)

// Node types known to the graph.
const (
	TypePaper   = "paper"
	TypeAuthor  = "author"
	TypeConcept = "concept"
)

// NodeTypes lists all valid node types.
var NodeTypes = []string{TypePaper, TypeAuthor, TypeConcept}

// Node represents a paper, author, or concept in the knowledge graph.
// ID is the sole join key across edges, selection sets, and hidden sets.
// Screen coordinates belong to the rendering layer and never appear here.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // "paper", "author", or "concept"

	// Optional metadata
	Source   string `json:"source,omitempty"`   // paper origin: arxiv, pubmed, ...
	Category string `json:"category,omitempty"` // concept category
	Date     string `json:"date,omitempty"`     // paper publication date
}

// Validation errors.
var (
	ErrEmptyNodeID   = errors.New("node id is required")
	ErrEmptyLabel    = errors.New("node label is required")
	ErrInvalidType   = errors.New("node type must be paper, author, or concept")
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("node with this id already exists")
)

// ValidateForCreate validates a node for insertion into a snapshot.
func (n *Node) ValidateForCreate() error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if n.Label == "" {
		return ErrEmptyLabel
	}
	if !ValidType(n.Type) {
		return ErrInvalidType
	}
	return nil
}

// ValidType reports whether t is a known node type.
func ValidType(t string) bool {
	switch t {
	case TypePaper, TypeAuthor, TypeConcept:
		return true
	}
	return false
}

// Backend id conventions: papers use the arxiv id verbatim; author and
// concept ids are the lowercased name behind a type prefix.
const (
	authorIDPrefix  = "author:"
	conceptIDPrefix = "concept:"
)

// AuthorID returns the canonical node id for an author name.
func AuthorID(name string) string {
	return authorIDPrefix + normalizeName(name)
}

// ConceptID returns the canonical node id for a concept name.
func ConceptID(name string) string {
	return conceptIDPrefix + normalizeName(name)
}

// normalizeName lowercases, trims, and collapses interior whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// InferType guesses a node's type from its id prefix. Ids without a
// recognized prefix are paper ids (arxiv ids carry no prefix).
func InferType(id string) string {
	switch {
	case strings.HasPrefix(id, authorIDPrefix):
		return TypeAuthor
	case strings.HasPrefix(id, conceptIDPrefix):
		return TypeConcept
	default:
		return TypePaper
	}
}

// DisplayName strips the type prefix from an author or concept id,
// returning the embedded name. Paper ids are returned unchanged.
func DisplayName(id string) string {
	if name, ok := strings.CutPrefix(id, authorIDPrefix); ok {
		return name
	}
	if name, ok := strings.CutPrefix(id, conceptIDPrefix); ok {
		return name
	}
	return id
}
