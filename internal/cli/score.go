package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/myklob/reasonrank/internal/pipeline"
)

var (
	outJSON          string
	outMD            string
	scoreTimeout     time.Duration
	noFooter         bool
	semanticProvider string
	semanticModel    string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <belief-file>",
	Short: "Score a single belief document and generate a report",
	Long: `Score runs the full pipeline over one belief document:
- Validate the argument trees (unique ids, no cycles)
- Apply corroboration boosts from cited sources
- Discount redundant arguments (mechanical + semantic similarity)
- Rank every argument recursively and aggregate a truth score
- Attach confidence interval, stability and the claim-strength filter

Example:
  reasonrank score belief.json
  reasonrank score belief.yaml --json report.json --md report.md
  reasonrank score belief.json --semantic openai --model text-embedding-3-small
  reasonrank score belief.json --semantic local`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	// Output flags
	scoreCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	scoreCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scoreCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 2*time.Minute, "overall scoring timeout (matters only with a remote semantic provider)")

	// Semantic layer flags
	scoreCmd.Flags().StringVar(&semanticProvider, "semantic", "", "semantic similarity provider (openai, ollama, local)")
	scoreCmd.Flags().StringVar(&semanticModel, "model", "", "embedding model name")
}

func runScore(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	// Build configuration from file, environment and flags
	cfg := loadConfig()
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if semanticProvider != "" {
		cfg.Semantic.Provider = semanticProvider
	}
	if semanticModel != "" {
		cfg.Semantic.Model = semanticModel
	}

	switch strings.ToLower(cfg.Semantic.Provider) {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Semantic.BaseURL = baseURL
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scoring: %s\n", path)
		if cfg.Semantic.Provider != "" {
			fmt.Fprintf(os.Stderr, "Semantic layer: %s\n", cfg.Semantic.Provider)
		}
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	report, err := p.ScoreFile(ctx, path)
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Ranked %d arguments\n", report.Breakdown.TotalArguments)
		fmt.Fprintf(os.Stderr, "✓ Truth score: %.1f/100\n", report.TruthPercent())
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
