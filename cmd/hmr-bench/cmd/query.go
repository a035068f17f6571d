package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aman-cerp/hmrcore/internal/core"
)

type queryOptions struct {
	limit  int
	format string
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one query through the pipeline over the fixture corpus",
		Long: `Run a single query end to end over hmr-bench's built-in fixture corpus and
print the fused hits plus the per-query diagnostics record.

Examples:
  hmr-bench query "validateSession"
  hmr-bench query "how does authentication work" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Override K_final (0 uses the pipeline's intent-based default)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

type queryResult struct {
	Hits        []hitView             `json:"hits"`
	Diagnostics core.DiagnosticsRecord `json:"diagnostics"`
}

type hitView struct {
	ChunkID         core.ChunkID `json:"chunk_id"`
	FinalScore      float64      `json:"final_score"`
	BestRank        int          `json:"best_rank"`
	StrategiesHit   []string     `json:"strategies_hit"`
	ConsensusFactor float64      `json:"consensus_factor"`
}

func runQuery(ctx context.Context, cmd *cobra.Command, text string, opts queryOptions) error {
	coordinator, err := buildCoordinator(ctx)
	if err != nil {
		return fmt.Errorf("build coordinator: %w", err)
	}

	q := &core.Query{Text: text, TraceID: "hmr-bench"}
	if opts.limit > 0 {
		q.KOverride = &opts.limit
	}

	resp, err := coordinator.Search(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.format == "json" {
		return formatQueryJSON(cmd, resp)
	}
	return formatQueryText(cmd, text, resp)
}

func formatQueryJSON(cmd *cobra.Command, resp *core.SearchResponse) error {
	out := queryResult{Diagnostics: resp.Diagnostics}
	for _, h := range resp.Hits {
		out.Hits = append(out.Hits, toHitView(h))
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatQueryText(cmd *cobra.Command, text string, resp *core.SearchResponse) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "query: %q\n", text)
	fmt.Fprintf(w, "dominant intent: %s\n", resp.Diagnostics.Intent.Dominant())
	fmt.Fprintf(w, "weights: %v\n", resp.Diagnostics.Weights)
	fmt.Fprintf(w, "unique chunks: %d  final k: %d  elapsed: %s\n\n",
		resp.Diagnostics.UniqueChunks, resp.Diagnostics.FinalK, resp.Diagnostics.TotalElapsed)

	for i, h := range resp.Hits {
		view := toHitView(h)
		fmt.Fprintf(w, "%d. %s  score=%.4f  best_rank=%d  consensus=%.3f  strategies=%v\n",
			i+1, view.ChunkID, view.FinalScore, view.BestRank, view.ConsensusFactor, view.StrategiesHit)
	}
	return nil
}

func toHitView(h *core.FusedHit) hitView {
	var strategies []string
	for _, s := range core.Strategies {
		if h.StrategiesHit[s] {
			strategies = append(strategies, string(s))
		}
	}
	return hitView{
		ChunkID:         h.ChunkID,
		FinalScore:      h.FinalScore,
		BestRank:        h.BestRank,
		StrategiesHit:   strategies,
		ConsensusFactor: h.ConsensusFactor,
	}
}
