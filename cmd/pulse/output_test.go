package main

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short", "BERT", 60, "BERT"},
		{"exact", "abcdefghij", 10, "abcdefghij"},
		{"truncated", "abcdefghijk", 10, "abcdefg..."},
		{"multibyte", "ééééééééééé", 10, "ééééééé..."},
		{"cjk", "注意力机制は全てを変えた論文", 10, "注意力机制は全..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateString(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Error("truncation split a rune")
			}
		})
	}
}

func TestFormatAuthors(t *testing.T) {
	authors := []string{"Ada", "Grace", "Edsger", "Barbara"}

	if got := formatAuthors(authors, 4); got != "Ada, Grace, Edsger, Barbara" {
		t.Errorf("under cutoff: %q", got)
	}
	if got := formatAuthors(authors, 2); got != "Ada, Grace, et al." {
		t.Errorf("over cutoff: %q", got)
	}
}
