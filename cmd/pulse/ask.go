package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/clipboard"
	"github.com/paperpulse/pulse/internal/export"
)

var (
	askBibtex bool
	askCopy   bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "One-shot question over the paper corpus",
	Long: `Ask a one-shot question answered from the paper corpus, with cited
sources. Nothing is persisted; use 'pulse chat' for a conversation.

Examples:
  pulse ask "What are the main approaches to efficient attention?"
  pulse ask "Who works on protein folding?" --human
  pulse ask "Key diffusion papers?" --bibtex`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askBibtex, "bibtex", false, "Also output the sources as BibTeX")
	askCmd.Flags().BoolVar(&askCopy, "copy", false, "Copy the answer to the clipboard")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	answer, err := newClient().Ask(cmd.Context(), "", args[0])
	if err != nil {
		exitAPIError(err)
	}

	if askCopy {
		if err := clipboard.Copy(answer.Answer); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n", answer.Answer)
		if len(answer.Sources) > 0 {
			outputHuman("\nSources:\n")
			for _, s := range answer.Sources {
				outputHuman("  %s  %s\n", s.ArxivID, truncateString(s.Title, ListTitleMaxLen))
			}
		}
		if askBibtex {
			outputHuman("\n%s", export.SourcesToBibTeX(answer.Sources))
		}
		return nil
	}

	if askBibtex {
		return outputJSON(map[string]any{
			"answer":  answer.Answer,
			"sources": answer.Sources,
			"bibtex":  export.SourcesToBibTeX(answer.Sources),
		})
	}
	return outputJSON(answer)
}
