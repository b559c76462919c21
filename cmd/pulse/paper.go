package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/clipboard"
	"github.com/paperpulse/pulse/internal/export"
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Paper lookup and export",
}

func init() {
	rootCmd.AddCommand(paperCmd)
}

var (
	paperBibtex   bool
	paperAbstract bool
	paperCopy     bool
)

var paperShowCmd = &cobra.Command{
	Use:   "show <arxiv-id>",
	Short: "Show a paper",
	Long: `Show a paper's metadata and summary by arXiv id.

Examples:
  pulse paper show 2401.12345 --human
  pulse paper show 2401.12345 --bibtex --copy
  pulse paper show hep-th/9901001 --abstract`,
	Args: cobra.ExactArgs(1),
	RunE: runPaperShow,
}

func init() {
	paperShowCmd.Flags().BoolVar(&paperBibtex, "bibtex", false, "Output a BibTeX entry instead of metadata")
	paperShowCmd.Flags().BoolVar(&paperAbstract, "abstract", false, "Include the full abstract in human output")
	paperShowCmd.Flags().BoolVar(&paperCopy, "copy", false, "Copy the output to the clipboard")
	paperCmd.AddCommand(paperShowCmd)
}

func runPaperShow(cmd *cobra.Command, args []string) error {
	paper, err := newClient().Paper(cmd.Context(), args[0])
	if err != nil {
		exitAPIError(err)
	}

	if paperBibtex {
		entry := export.PaperToBibTeX(paper)
		if paperCopy {
			if err := clipboard.Copy(entry); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
		}
		fmt.Print(entry)
		return nil
	}

	if paperCopy {
		if err := clipboard.Copy(paper.Title + "\n" + paper.URL); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n", paper.Title)
		outputHuman("  %s  %s\n", paper.ArxivID, paper.PublishedDate)
		if len(paper.Authors) > 0 {
			outputHuman("  %s\n", formatAuthors(paper.Authors, 5))
		}
		if paper.URL != "" {
			outputHuman("  %s\n", paper.URL)
		}
		if paper.Summary != "" {
			outputHuman("\n%s\n", paper.Summary)
		}
		if paperAbstract && paper.Abstract != "" {
			outputHuman("\nAbstract:\n%s\n", paper.Abstract)
		}
		return nil
	}
	if !paperAbstract {
		paper.Abstract = ""
	}
	paper.FullText = ""
	return outputJSON(paper)
}
