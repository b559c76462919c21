// Package pdf extracts text from PDF attachments and sniffs paper
// identifiers out of it, so an attached paper can be linked back to its
// graph node.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPages bounds extraction for chat attachments; the backend
// truncates long attachment text anyway.
const DefaultMaxPages = 20

// arXiv identifiers: new-style YYMM.NNNNN with an optional version, and
// old-style archive/YYMMNNN. Usually printed in the margin of page one.
var (
	arxivNewPattern  = regexp.MustCompile(`(?i)arXiv:\s*(\d{4}\.\d{4,5})(v\d+)?`)
	arxivBarePattern = regexp.MustCompile(`\b(\d{4}\.\d{4,5})(v\d+)?\b`)
	arxivOldPattern  = regexp.MustCompile(`(?i)arXiv:\s*([a-z-]+(?:\.[A-Z]{2})?/\d{7})(v\d+)?`)
)

// ExtractText extracts plain text from the first maxPages pages of a
// PDF file. Pages that fail to parse are skipped, not fatal.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// ExtractArxivID extracts an arXiv id from a PDF file. It searches the
// first few pages, where the margin stamp lives. An absent id is not
// an error.
func ExtractArxivID(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if id := FindArxivID(text); id != "" {
			return id, nil
		}
	}

	return "", nil
}

// FindArxivID finds an arXiv id in text. Explicitly stamped ids
// ("arXiv:2401.12345") win over bare YYMM.NNNNN tokens, which are only
// accepted when the month part parses as one.
func FindArxivID(text string) string {
	if m := arxivNewPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := arxivOldPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	for _, m := range arxivBarePattern.FindAllStringSubmatch(text, -1) {
		if plausibleArxivID(m[1]) {
			return m[1]
		}
	}
	return ""
}

// plausibleArxivID filters bare numeric tokens: the YYMM prefix must
// name a real month.
func plausibleArxivID(id string) bool {
	if len(id) < 9 {
		return false
	}
	month := id[2:4]
	return month >= "01" && month <= "12"
}
