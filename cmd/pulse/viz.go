package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/explorer"
	"github.com/paperpulse/pulse/internal/graph"
	"github.com/paperpulse/pulse/internal/viz"
)

var (
	vizOutput        string
	vizLayout        string
	vizOffline       bool
	vizCached        bool
	vizLimit         int
	vizQuery         string
	vizHideTypes     []string
	vizHideEdgeTypes []string
	vizHideNodes     []string
)

var graphVizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Render the graph to an interactive HTML file",
	Long: `Render a filtered view of the knowledge graph as a self-contained
HTML visualization.

Two filtering strategies, mutually exclusive:
  exclusion  --hide-type/--hide-edge-type/--hide-node subtract from
             the full graph (the default)
  search     --query keeps matching nodes plus their one-hop
             neighbors

Examples:
  pulse graph viz --out graph.html
  pulse graph viz --hide-type concept --hide-edge-type cites
  pulse graph viz --query "diffusion" --layout circle
  pulse graph viz --cached --offline --out /tmp/pulse.html`,
	Args: cobra.NoArgs,
	RunE: runGraphViz,
}

func init() {
	graphVizCmd.Flags().StringVarP(&vizOutput, "out", "o", "pulse-graph.html", "Output HTML file path")
	graphVizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout: force, circle, or grid")
	graphVizCmd.Flags().BoolVar(&vizOffline, "offline", false, "Embed the rendering library for offline viewing")
	graphVizCmd.Flags().BoolVar(&vizCached, "cached", false, "Use the local snapshot cache instead of the backend")
	graphVizCmd.Flags().IntVar(&vizLimit, "limit", 0, "Maximum nodes to fetch (default from config)")
	graphVizCmd.Flags().StringVar(&vizQuery, "query", "", "Search-strategy filter: label substring plus one-hop neighbors")
	graphVizCmd.Flags().StringSliceVar(&vizHideTypes, "hide-type", nil, "Node types to hide (paper, author, concept)")
	graphVizCmd.Flags().StringSliceVar(&vizHideEdgeTypes, "hide-edge-type", nil, "Edge types to hide (authored, involves, cites)")
	graphVizCmd.Flags().StringSliceVar(&vizHideNodes, "hide-node", nil, "Individual node ids to hide")
	graphCmd.AddCommand(graphVizCmd)
}

// VizResponse reports what was written.
type VizResponse struct {
	Output   string `json:"output"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	Layout   string `json:"layout"`
	Strategy string `json:"strategy"`
}

// vizView derives the exported subgraph: a non-blank query selects the
// search strategy, otherwise the hide lists build an exclusion view. A
// whitespace-only query counts as no query.
func vizView(snap *graph.Snapshot, query string, hideTypes, hideEdgeTypes, hideNodes []string) (explorer.View, string) {
	if q := strings.TrimSpace(query); q != "" {
		return explorer.SearchSubgraph(snap, q), explorer.StrategySearch
	}
	x := explorer.NewExclusions()
	for _, t := range hideTypes {
		x.NodeTypes[strings.ToLower(t)] = true
	}
	for _, t := range hideEdgeTypes {
		x.EdgeTypes[strings.ToLower(t)] = true
	}
	for _, id := range hideNodes {
		x.HideNode(id)
	}
	return explorer.VisibleSubgraph(snap, x), explorer.StrategyExclusion
}

func runGraphViz(cmd *cobra.Command, args []string) error {
	hasExclusions := len(vizHideTypes) > 0 || len(vizHideEdgeTypes) > 0 || len(vizHideNodes) > 0
	if strings.TrimSpace(vizQuery) != "" && hasExclusions {
		exitWithError(ExitError, "--query cannot be combined with --hide-* flags")
	}

	snap := loadSnapshot(cmd.Context(), vizCached, vizLimit)

	view, strategy := vizView(snap, vizQuery, vizHideTypes, vizHideEdgeTypes, vizHideNodes)

	data := viz.Build(view.Nodes, view.Edges, snap.Degrees())
	html, err := viz.GenerateHTML(data, viz.HTMLOptions{
		Layout:  vizLayout,
		Offline: vizOffline,
	})
	if err != nil {
		exitWithError(ExitError, "rendering graph: %v", err)
	}

	out := vizOutput
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			exitWithError(ExitError, "creating output directory: %v", err)
		}
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		exitWithError(ExitError, "writing %s: %v", out, err)
	}

	resp := VizResponse{
		Output:   out,
		Nodes:    len(view.Nodes),
		Edges:    len(view.Edges),
		Layout:   vizLayout,
		Strategy: strategy,
	}
	if humanOutput {
		outputHuman("Wrote %s (%d nodes, %d edges, %s layout)\n", resp.Output, resp.Nodes, resp.Edges, resp.Layout)
		return nil
	}
	return outputJSON(resp)
}
