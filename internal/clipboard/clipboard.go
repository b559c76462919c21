// Package clipboard copies text to the system clipboard via the
// platform's paste-buffer command.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command exists
// on this system.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// command returns the copy command for this platform, or nil when none
// is available. Linux prefers xclip and falls back to xsel.
func command() *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy")
		}
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard")
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input")
		}
	}
	return nil
}

// IsAvailable reports whether clipboard access works on this system.
func IsAvailable() bool {
	return command() != nil
}

// Copy places text on the system clipboard. Returns
// ErrClipboardUnavailable when no clipboard command exists.
func Copy(text string) error {
	cmd := command()
	if cmd == nil {
		return ErrClipboardUnavailable
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
