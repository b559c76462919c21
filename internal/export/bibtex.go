// Package export renders papers and synthesis sources as BibTeX.
package export

import (
	"fmt"
	"strings"

	"github.com/paperpulse/pulse/internal/api"
)

// PaperToBibTeX converts a paper to a BibTeX entry keyed by arxiv id.
func PaperToBibTeX(p *api.Paper) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@article{%s,\n", citeKey(p.ArxivID)))

	if len(p.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", strings.Join(escapeAll(p.Authors), " and ")))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	if year := yearOf(p.PublishedDate); year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", year))
	}
	if p.Source == "arxiv" || p.Source == "" {
		b.WriteString(fmt.Sprintf("  journal = {arXiv preprint arXiv:%s},\n", p.ArxivID))
	} else {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", escapeLatex(p.Source)))
	}
	if p.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", p.DOI))
	}
	if p.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", p.URL))
	}
	if p.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(p.Abstract)))
	}

	b.WriteString("}\n")

	return b.String()
}

// SourcesToBibTeX renders the source list of an answer or synthesis
// report as a bibliography, one minimal entry per source.
func SourcesToBibTeX(sources []api.Source) string {
	var entries []string
	for _, s := range sources {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("@article{%s,\n", citeKey(s.ArxivID)))
		b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(s.Title)))
		b.WriteString(fmt.Sprintf("  journal = {arXiv preprint arXiv:%s},\n", s.ArxivID))
		if s.URL != "" {
			b.WriteString(fmt.Sprintf("  url = {%s},\n", s.URL))
		}
		b.WriteString("}\n")
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n")
}

// citeKey sanitizes an arxiv id into a BibTeX cite key. Slashes in
// old-style ids would break the key syntax.
func citeKey(arxivID string) string {
	key := strings.NewReplacer("/", ":", " ", "").Replace(arxivID)
	if key == "" {
		return "unknown"
	}
	return "arxiv" + key
}

// yearOf extracts the year from an ISO date string.
func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}

func escapeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = escapeLatex(s)
	}
	return out
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
