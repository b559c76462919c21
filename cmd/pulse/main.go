// Package main provides the pulse CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// userFlag overrides the configured user id for one invocation
var userFlag string

func main() {
	// A missing .env is the normal case, not an error.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Research-paper digest client",
	Long: `pulse is the command-line client for the PaperPulse research-paper
digest backend.

Core features:
  - Daily personalized paper feed with bookmarking
  - Knowledge-graph exploration (papers, authors, concepts) with an
    interactive browser explorer and HTML export
  - Literature-review synthesis over selected graph nodes
  - LLM chat assistant with PDF attachments and persisted history

All ranking, retrieval, and persistence is server-side; pulse is
presentation and interaction. Commands output JSON by default for
agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User id (overrides config and PULSE_USER_ID)")
	rootCmd.Version = Version
}

// newClient builds the backend client from resolved configuration.
func newClient() *api.Client {
	r := config.Resolve()

	var opts []api.ClientOption
	if r.APIURL != "" {
		opts = append(opts, api.WithBaseURL(r.APIURL))
	}
	if r.APIKey != "" {
		opts = append(opts, api.WithAPIKey(r.APIKey))
	}
	userID := r.UserID
	if userFlag != "" {
		userID = userFlag
	}
	if userID != "" {
		opts = append(opts, api.WithUserID(userID))
	}
	return api.NewClient(opts...)
}

// resolvedExploreLimit applies the configured default when the flag was
// left at zero.
func resolvedExploreLimit(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if limit := config.Resolve().ExploreLimit; limit > 0 {
		return limit
	}
	return api.DefaultExploreLimit
}
