// Package chat holds the client-side pieces of the chat assistant:
// title preview derivation, PDF attachment assembly, and transcript
// rendering. Answer generation and persistence are the backend's job.
package chat

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/pdf"
)

// TitleMaxLen caps the derived chat title, matching the backend's
// auto-title truncation.
const TitleMaxLen = 50

// DeriveTitle previews the title the backend derives from the first
// user message: the message text, whitespace-collapsed and truncated.
func DeriveTitle(firstMessage string) string {
	title := strings.Join(strings.Fields(firstMessage), " ")
	if title == "" {
		return "New chat"
	}
	// Truncate on runes, never mid-character.
	if runes := []rune(title); len(runes) > TitleMaxLen {
		title = strings.TrimSpace(string(runes[:TitleMaxLen-3])) + "..."
	}
	return title
}

// AttachFile builds a message attachment from a PDF file, extracting
// its text client-side so the backend never re-parses the file.
func AttachFile(path string) (api.Attachment, error) {
	text, err := pdf.ExtractText(path, pdf.DefaultMaxPages)
	if err != nil {
		return api.Attachment{}, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	return api.Attachment{
		Type: "pdf",
		Name: filepath.Base(path),
		Text: text,
	}, nil
}

// LinkedArxivID sniffs the arXiv id out of an attached PDF so the
// paper can be tied back to its graph node. Empty when none found.
func LinkedArxivID(path string) string {
	id, err := pdf.ExtractArxivID(path)
	if err != nil {
		return ""
	}
	return id
}

// Transcript renders a chat's messages as plain text, chronological
// order, with sources and attachment names inline.
func Transcript(c *api.Chat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", c.Title)
	if c.Starred {
		b.WriteString("(starred)\n")
	}
	b.WriteString("\n")

	for _, m := range c.Messages {
		speaker := "you"
		if m.Role == api.RoleAI {
			speaker = "pulse"
		}
		fmt.Fprintf(&b, "[%s] %s\n", speaker, m.Content)
		for _, a := range m.Attachments {
			fmt.Fprintf(&b, "  attached: %s\n", a.Name)
		}
		for _, s := range m.Sources {
			fmt.Fprintf(&b, "  source: %s (%s)\n", s.Title, s.ArxivID)
		}
		b.WriteString("\n")
	}
	return b.String()
}
