package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/myklob/reasonrank/internal/model"
)

// Renderer writes score reports as JSON, Markdown or a terminal summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer credits the engine at the end
// of Markdown reports and can be turned off.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	md := r.Markdown(report)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown builds the Markdown document for a report.
func (r *Renderer) Markdown(report *model.Report) string {
	var sb strings.Builder

	title := report.Title
	if title == "" {
		title = report.BeliefID
	}

	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Belief `%s`, scored %s\n\n", report.BeliefID, report.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	b := report.Breakdown
	fmt.Fprintf(&sb, "## Verdict\n\n")
	fmt.Fprintf(&sb, "- **Truth score:** %.1f/100 (±%.1f)\n", report.TruthPercent(), b.ConfidenceInterval*100)
	fmt.Fprintf(&sb, "- **Status:** %s\n", b.Status)
	fmt.Fprintf(&sb, "- **Stability:** %.2f (%s)\n", report.Stability.Score, report.Stability.Band)
	cs := report.ClaimStrength
	if cs.ClaimStrength > 0 {
		fmt.Fprintf(&sb, "- **Claim-strength filter:** raw %.1f adjusted to %.1f (strength %.2f transmits %.0f%%)\n",
			cs.RawScore*100, cs.AdjustedScore*100, cs.ClaimStrength, cs.Transmission*100)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## Debate\n\n")
	fmt.Fprintf(&sb, "- Pro: %d arguments, channel rank %.3f\n", b.ProCount, b.ProRank)
	fmt.Fprintf(&sb, "- Con: %d arguments, channel rank %.3f\n", b.ConCount, b.ConRank)
	if b.EvidenceAdjustment != 0 {
		fmt.Fprintf(&sb, "- Evidence adjustment: %+.3f\n", b.EvidenceAdjustment)
	}
	sb.WriteString("\n")

	if len(b.Arguments) > 0 {
		sb.WriteString("| Argument | Side | ReasonRank | Linkage | Impact |\n")
		sb.WriteString("|----------|------|-----------:|--------:|-------:|\n")
		for _, arg := range b.Arguments {
			fmt.Fprintf(&sb, "| %s | %s | %.3f | %.2f | %+.3f |\n",
				truncate(arg.Claim, 60), arg.Side, arg.ReasonRank, arg.EffectiveLinkage, arg.SignedImpact)
		}
		sb.WriteString("\n")
	}

	if len(report.Corroboration) > 0 {
		fmt.Fprintf(&sb, "## Corroboration\n\n")
		for _, c := range report.Corroboration {
			fmt.Fprintf(&sb, "- `%s`: %d sources, boost +%.3f\n", c.ArgumentID, c.SourceCount, c.Boost)
		}
		sb.WriteString("\n")
	}

	r.writeDuplication(&sb, "Pro", report.ProDuplicates)
	r.writeDuplication(&sb, "Con", report.ConDuplicates)

	if report.SemanticLayer != "" {
		fmt.Fprintf(&sb, "Semantic similarity layer: %s\n\n", report.SemanticLayer)
	}

	if r.includeFooter {
		sb.WriteString("---\n")
		sb.WriteString("*Generated by [ReasonRank](https://github.com/myklob/reasonrank)*\n")
	}

	return sb.String()
}

func (r *Renderer) writeDuplication(sb *strings.Builder, side string, dup model.DuplicationResult) {
	if len(dup.Arguments) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s Duplication\n\n", side)
	for _, scored := range dup.Arguments {
		fmt.Fprintf(sb, "- `%s`: uniqueness %.2f, novelty %.2f, effective %.3f\n",
			scored.Submission.ID, scored.Uniqueness, scored.NoveltyMultiplier, scored.EffectiveContribution)
	}
	if len(dup.Clusters) > 0 {
		sb.WriteString("\n")
		for _, cluster := range dup.Clusters {
			fmt.Fprintf(sb, "- %s: %d members, representative `%s`, score %.3f\n",
				cluster.ID, len(cluster.MemberIDs), cluster.RepresentativeID, cluster.Score)
		}
	}
	sb.WriteString("\n")
}

// RenderSummary prints a short verdict to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	b := report.Breakdown

	title := report.Title
	if title == "" {
		title = report.BeliefID
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", truncate(title, 55))
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Truth score:  %.1f/100 (±%.1f)\n", report.TruthPercent(), b.ConfidenceInterval*100)
	fmt.Printf("  Status:       %s\n", b.Status)
	fmt.Printf("  Stability:    %s (%.2f)\n", report.Stability.Band, report.Stability.Score)
	fmt.Printf("  Arguments:    %d (%d pro / %d con)\n", b.TotalArguments, b.ProCount, b.ConCount)
	if report.ClaimStrength.ClaimStrength > 0 {
		fmt.Printf("  Adjusted:     %.1f/100 after claim-strength filter\n", report.ClaimStrength.AdjustedScore*100)
	}
	fmt.Println()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
