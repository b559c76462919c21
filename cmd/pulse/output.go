package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paperpulse/pulse/internal/api"
)

// Title truncation lengths by context.
const (
	ListTitleMaxLen   = 60 // list rows
	DetailTitleMaxLen = 78 // detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitAPIError maps a backend error onto the exit-code contract.
func exitAPIError(err error) {
	switch {
	case api.IsAuthError(err):
		exitWithError(ExitAuthError, "authentication failed: set PULSE_API_KEY or api_key in config")
	case api.IsNotFound(err):
		exitWithError(ExitDataError, "%v", err)
	case errors.Is(err, api.ErrNoUser):
		exitWithError(ExitConfigError, "no user id: set PULSE_USER_ID, run 'pulse user init', or pass --user")
	default:
		exitWithError(ExitError, "%v", err)
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// truncateString truncates a string to maxLen runes, adding "..." if
// truncated. Rune-based so multibyte titles never split mid-character.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatAuthors joins up to maxCount names, then "et al."
func formatAuthors(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + ", et al."
}
