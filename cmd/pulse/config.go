package main

import (
	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Local configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCmd.RunE(cmd, args)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging the config file with
environment overrides (PULSE_API_URL, PULSE_API_KEY, PULSE_USER_ID).
The API key is redacted in human output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := config.Resolve()
		if humanOutput {
			outputHuman("api_url:        %s\n", r.APIURL)
			outputHuman("api_key:        %s\n", redactKey(r.APIKey))
			outputHuman("user_id:        %s\n", r.UserID)
			if r.ExploreLimit > 0 {
				outputHuman("explore_limit:  %d\n", r.ExploreLimit)
			}
			outputHuman("config file:    %s\n", r.ConfigPath)
			outputHuman("snapshot cache: %s\n", r.CachePath)
			return nil
		}
		return outputJSON(r)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if humanOutput {
			outputHuman("%s\n", config.Path())
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: config.Path()})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// redactKey keeps enough of a key to identify it without leaking it.
func redactKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
