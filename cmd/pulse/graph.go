package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paperpulse/pulse/internal/api"
	"github.com/paperpulse/pulse/internal/clipboard"
	"github.com/paperpulse/pulse/internal/config"
	"github.com/paperpulse/pulse/internal/graph"
	"github.com/paperpulse/pulse/internal/storage"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Knowledge-graph exploration",
	Long: `Explore the PaperPulse knowledge graph: papers, authors, and
concepts connected by authorship, concept-involvement, and citation
edges.`,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

// --- pull ---

var graphPullLimit int

var graphPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the graph snapshot and cache it locally",
	Long: `Fetch the graph snapshot (and stats, concurrently) from the backend
and store it in the local cache for offline 'pulse graph find' and
'pulse graph viz --cached'.`,
	Args: cobra.NoArgs,
	RunE: runGraphPull,
}

func init() {
	graphPullCmd.Flags().IntVar(&graphPullLimit, "limit", 0, "Maximum nodes to fetch (default from config)")
	graphCmd.AddCommand(graphPullCmd)
}

// PullResponse summarizes a snapshot pull.
type PullResponse struct {
	Nodes   int             `json:"nodes"`
	Edges   int             `json:"edges"`
	Orphans int             `json:"orphans"`
	Stats   *api.GraphStats `json:"stats"`
	Cache   string          `json:"cache"`
}

func runGraphPull(cmd *cobra.Command, args []string) error {
	client := newClient()
	ctx := cmd.Context()

	var (
		snapshot *api.ExploreResponse
		stats    *api.GraphStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = client.Explore(gctx, resolvedExploreLimit(graphPullLimit))
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = client.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		exitAPIError(err)
	}

	snap := graph.NewSnapshot(snapshot.Nodes, snapshot.Edges)

	cachePath := config.CachePath()
	db := mustOpenCache(cachePath)
	defer db.Close()
	if err := db.SaveSnapshot(snap.Nodes(), snap.Edges()); err != nil {
		exitWithError(ExitError, "caching snapshot: %v", err)
	}

	resp := PullResponse{
		Nodes:   snap.NodeCount(),
		Edges:   snap.EdgeCount(),
		Orphans: len(snap.Orphans()),
		Stats:   stats,
		Cache:   cachePath,
	}
	if humanOutput {
		outputHuman("Pulled %d nodes, %d edges (%d orphaned edge refs)\n", resp.Nodes, resp.Edges, resp.Orphans)
		outputHuman("Backend: %d papers, %d authors, %d concepts, %d citations\n",
			stats.Papers, stats.Authors, stats.Concepts, stats.Citations)
		outputHuman("Cached at %s\n", cachePath)
		return nil
	}
	return outputJSON(resp)
}

// mustOpenCache opens the snapshot cache, exits on error. The caller
// is responsible for Close.
func mustOpenCache(path string) *storage.DB {
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine cache path")
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return db
}

// --- stats ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Graph statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().Stats(cmd.Context())
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("papers:        %d\n", stats.Papers)
			outputHuman("authors:       %d\n", stats.Authors)
			outputHuman("concepts:      %d\n", stats.Concepts)
			outputHuman("institutions:  %d\n", stats.Institutions)
			outputHuman("citations:     %d\n", stats.Citations)
			outputHuman("authorships:   %d\n", stats.Authorships)
			return nil
		}
		return outputJSON(stats)
	},
}

func init() {
	graphCmd.AddCommand(graphStatsCmd)
}

// --- search (server-side) ---

var graphSearchLimit int

var graphSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search graph nodes by label",
	Long: `Search papers, authors, and concepts by label on the server.

Examples:
  pulse graph search "attention"
  pulse graph search "jane doe" --limit 5 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphSearch,
}

func init() {
	graphSearchCmd.Flags().IntVar(&graphSearchLimit, "limit", api.DefaultSearchLimit, "Maximum number of results")
	graphCmd.AddCommand(graphSearchCmd)
}

func runGraphSearch(cmd *cobra.Command, args []string) error {
	results, err := newClient().SearchNodes(cmd.Context(), args[0], graphSearchLimit)
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		if len(results) == 0 {
			outputHuman("No matches.\n")
			return nil
		}
		for _, r := range results {
			outputHuman("%-8s %s  (%s)\n", r.Type, truncateString(r.Label, ListTitleMaxLen), r.ID)
		}
		return nil
	}
	return outputJSON(api.SearchResponse{Results: results})
}

// --- find (offline FTS over the cache) ---

var graphFindLimit int

var graphFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search the cached snapshot offline",
	Long: `Full-text search over the locally cached snapshot. Works without
network access; run 'pulse graph pull' first to populate the cache.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphFind,
}

func init() {
	graphFindCmd.Flags().IntVar(&graphFindLimit, "limit", api.DefaultSearchLimit, "Maximum number of results")
	graphCmd.AddCommand(graphFindCmd)
}

func runGraphFind(cmd *cobra.Command, args []string) error {
	db := mustOpenCache(config.CachePath())
	defer db.Close()

	savedAt, err := db.SavedAt()
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}
	if savedAt.IsZero() {
		exitWithError(ExitDataError, "snapshot cache is empty: run 'pulse graph pull' first")
	}

	hits, err := db.Find(args[0], graphFindLimit)
	if err != nil {
		exitWithError(ExitError, "searching cache: %v", err)
	}
	if humanOutput {
		if len(hits) == 0 {
			outputHuman("No matches in cache (pulled %s).\n", savedAt.Format("2006-01-02 15:04"))
			return nil
		}
		for _, n := range hits {
			outputHuman("%-8s %s  (%s)\n", n.Type, truncateString(n.Label, ListTitleMaxLen), n.ID)
		}
		return nil
	}
	return outputJSON(map[string]any{"results": hits, "cached_at": savedAt})
}

// --- node detail ---

var graphNodeType string

var graphNodeCmd = &cobra.Command{
	Use:   "node <id>",
	Short: "Node detail",
	Long: `Show the type-specific detail for a graph node: a paper's authors,
concepts, and citations; an author's institutions and papers; a
concept's papers.

The type is inferred from the id prefix when --type is omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphNode,
}

func init() {
	graphNodeCmd.Flags().StringVar(&graphNodeType, "type", "", "Node type: paper, author, or concept")
	graphCmd.AddCommand(graphNodeCmd)
}

func runGraphNode(cmd *cobra.Command, args []string) error {
	id := args[0]
	nodeType := graphNodeType
	if nodeType == "" {
		nodeType = graph.InferType(id)
	}
	if !graph.ValidType(nodeType) {
		exitWithError(ExitError, "invalid node type %q", nodeType)
	}

	detail, err := newClient().NodeDetail(cmd.Context(), id, nodeType)
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		printNodeDetailHuman(id, detail)
		return nil
	}
	return outputJSON(detail)
}

func printNodeDetailHuman(id string, d *api.NodeDetail) {
	switch d.Type {
	case graph.TypePaper:
		outputHuman("%s\n", truncateString(d.Title, DetailTitleMaxLen))
		outputHuman("  %s  %s\n", d.ArxivID, d.PublishedDate)
		if len(d.Authors) > 0 {
			names := make([]string, len(d.Authors))
			for i, a := range d.Authors {
				names[i] = a.Name
			}
			outputHuman("  Authors: %s\n", formatAuthors(names, 5))
		}
		if len(d.Concepts) > 0 {
			names := make([]string, len(d.Concepts))
			for i, c := range d.Concepts {
				names[i] = c.Name
			}
			outputHuman("  Concepts: %s\n", formatAuthors(names, 8))
		}
		outputHuman("  Cites %d, cited by %d\n", len(d.Cites), len(d.CitedBy))
		if d.URL != "" {
			outputHuman("  %s\n", d.URL)
		}
	case graph.TypeAuthor:
		outputHuman("%s\n", d.Name)
		if len(d.Institutions) > 0 {
			outputHuman("  Institutions: %s\n", formatAuthors(d.Institutions, 3))
		}
		outputHuman("  Papers: %d\n", len(d.Papers))
		for _, p := range d.Papers {
			outputHuman("    %s  %s\n", p.ArxivID, truncateString(p.Title, ListTitleMaxLen))
		}
	case graph.TypeConcept:
		outputHuman("%s\n", d.Name)
		if d.Category != "" {
			outputHuman("  Category: %s\n", d.Category)
		}
		outputHuman("  Papers: %d\n", len(d.Papers))
		for _, p := range d.Papers {
			outputHuman("    %s  %s\n", p.ArxivID, truncateString(p.Title, ListTitleMaxLen))
		}
	default:
		outputHuman("%s (%s)\n", id, d.Type)
	}
}

// --- related / citations / author / concept lookups ---

var graphRelatedLimit int

var graphRelatedCmd = &cobra.Command{
	Use:   "related <arxiv-id>",
	Short: "Papers related via shared concepts, citations, or co-authors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().RelatedPapers(cmd.Context(), args[0], graphRelatedLimit)
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			for _, p := range resp.Related {
				outputHuman("[%d] %s  %s\n", p.Relevance, p.ArxivID, truncateString(p.Title, ListTitleMaxLen))
			}
			return nil
		}
		return outputJSON(resp)
	},
}

var graphCitationsDepth int

var graphCitationsCmd = &cobra.Command{
	Use:   "citations <arxiv-id>",
	Short: "Citation network around a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := newClient().CitationNetwork(cmd.Context(), args[0], graphCitationsDepth)
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("%d papers, %d citations\n", len(network.Nodes), len(network.Edges))
			for _, n := range network.Nodes {
				outputHuman("  %s  %s\n", n.ID, truncateString(n.Title, ListTitleMaxLen))
			}
			return nil
		}
		return outputJSON(network)
	},
}

var graphAuthorCmd = &cobra.Command{
	Use:   "author <name>",
	Short: "Co-author network of an author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := newClient().AuthorNetwork(cmd.Context(), args[0], 0)
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("%s\n", network.Author)
			for _, co := range network.Coauthors {
				outputHuman("  %s (%d shared papers)\n", co.Name, len(co.SharedPapers))
			}
			return nil
		}
		return outputJSON(network)
	},
}

var graphConceptCmd = &cobra.Command{
	Use:   "concept <name>",
	Short: "Papers involving a concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().ConceptPapers(cmd.Context(), args[0], 0)
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			outputHuman("%s: %d papers\n", resp.Concept, len(resp.Papers))
			for _, p := range resp.Papers {
				outputHuman("  %s  %s\n", p.ArxivID, truncateString(p.Title, ListTitleMaxLen))
			}
			return nil
		}
		return outputJSON(resp)
	},
}

func init() {
	graphRelatedCmd.Flags().IntVar(&graphRelatedLimit, "limit", api.DefaultRelatedLimit, "Maximum number of results")
	graphCitationsCmd.Flags().IntVar(&graphCitationsDepth, "depth", api.DefaultCitationHops, "Citation hops to traverse")
	graphCmd.AddCommand(graphRelatedCmd)
	graphCmd.AddCommand(graphCitationsCmd)
	graphCmd.AddCommand(graphAuthorCmd)
	graphCmd.AddCommand(graphConceptCmd)
}

// --- synthesize ---

var synthesizeCopy bool

var graphSynthesizeCmd = &cobra.Command{
	Use:   "synthesize <node-id>...",
	Short: "Generate a literature review over selected nodes",
	Long: `Ask the backend to synthesize a cross-paper literature review over
the given graph nodes.

Examples:
  pulse graph synthesize 2401.12345 2402.00001
  pulse graph synthesize concept:transformers --copy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGraphSynthesize,
}

func init() {
	graphSynthesizeCmd.Flags().BoolVar(&synthesizeCopy, "copy", false, "Copy the report to the clipboard")
	graphCmd.AddCommand(graphSynthesizeCmd)
}

func runGraphSynthesize(cmd *cobra.Command, args []string) error {
	result, err := newClient().Synthesize(cmd.Context(), args)
	if err != nil {
		exitAPIError(err)
	}

	if synthesizeCopy {
		if err := clipboard.Copy(result.Markdown); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n", result.Markdown)
		return nil
	}
	return outputJSON(result)
}

// --- populate ---

var populateStatus bool

var graphPopulateCmd = &cobra.Command{
	Use:   "populate [arxiv-id]...",
	Short: "Trigger backend graph population",
	Long: `Trigger the backend pipeline that populates the knowledge graph from
ingested papers. With no arguments recent papers are processed; with
ids only those papers. --status reports on a running population.`,
	RunE: runGraphPopulate,
}

func init() {
	graphPopulateCmd.Flags().BoolVar(&populateStatus, "status", false, "Report population status instead of triggering")
	graphCmd.AddCommand(graphPopulateCmd)
}

func runGraphPopulate(cmd *cobra.Command, args []string) error {
	client := newClient()
	if populateStatus {
		status, err := client.PopulateStatus(cmd.Context())
		if err != nil {
			exitAPIError(err)
		}
		if humanOutput {
			if status.Running {
				outputHuman("Population in progress.\n")
			} else {
				outputHuman("No population running.\n")
			}
			return nil
		}
		return outputJSON(status)
	}

	ack, err := client.PopulateGraph(cmd.Context(), args)
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		outputHuman("%s: %s\n", ack.Status, ack.Message)
		return nil
	}
	return outputJSON(ack)
}

// loadSnapshot fetches a snapshot from the backend or, when cached is
// true, from the local cache.
func loadSnapshot(ctx context.Context, cached bool, limit int) *graph.Snapshot {
	if cached {
		db := mustOpenCache(config.CachePath())
		defer db.Close()

		nodes, edges, err := db.LoadSnapshot()
		if err != nil {
			exitWithError(ExitError, "reading cache: %v", err)
		}
		if len(nodes) == 0 {
			exitWithError(ExitDataError, "snapshot cache is empty: run 'pulse graph pull' first")
		}
		return graph.NewSnapshot(nodes, edges)
	}

	snapshot, err := newClient().Explore(ctx, resolvedExploreLimit(limit))
	if err != nil {
		exitAPIError(err)
	}
	return graph.NewSnapshot(snapshot.Nodes, snapshot.Edges)
}
