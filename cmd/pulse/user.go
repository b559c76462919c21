package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/config"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User onboarding and profile",
}

func init() {
	rootCmd.AddCommand(userCmd)
}

// --- init ---

var (
	userEmail     string
	userDomains   []string
	userInterests string
	userInitID    string
)

var userInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Onboard a user and store the id in config",
	Long: `Create a user profile on the backend and store the resulting user id
in the local config file, so later commands pick it up automatically.

Examples:
  pulse user init --email me@lab.edu --domain cs.LG --domain cs.CL \
      --interests "efficient attention, sparse training"`,
	Args: cobra.NoArgs,
	RunE: runUserInit,
}

func init() {
	userInitCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	userInitCmd.Flags().StringSliceVar(&userDomains, "domain", nil, "Research domains of interest (repeatable, required)")
	userInitCmd.Flags().StringVar(&userInterests, "interests", "", "Free-text interest description")
	userInitCmd.Flags().StringVar(&userInitID, "id", "", "User id (generated when omitted)")
	userInitCmd.MarkFlagRequired("email")
	userInitCmd.MarkFlagRequired("domain")
	userCmd.AddCommand(userInitCmd)
}

func runUserInit(cmd *cobra.Command, args []string) error {
	id := userInitID
	if id == "" {
		id = uuid.NewString()
	}

	user, err := newClient().CreateUser(cmd.Context(), api.UserProfile{
		ID:           id,
		Email:        userEmail,
		Domains:      userDomains,
		InterestText: userInterests,
	})
	if err != nil {
		exitAPIError(err)
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg.UserID = user.ID
	if err := cfg.Save(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		outputHuman("Created user %s (%s)\n", user.ID, user.Email)
		outputHuman("Saved to %s\n", config.Path())
		return nil
	}
	return outputJSON(user)
}

// --- show ---

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured user's profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().User(cmd.Context(), "")
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("%s  %s\n", user.ID, user.Email)
			if len(user.Domains) > 0 {
				outputHuman("  Domains: %s\n", formatAuthors(user.Domains, 10))
			}
			if user.InterestText != "" {
				outputHuman("  Interests: %s\n", user.InterestText)
			}
			return nil
		}
		return outputJSON(user)
	},
}

func init() {
	userCmd.AddCommand(userShowCmd)
}
