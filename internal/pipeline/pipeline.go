package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/myklob/reasonrank/internal/dedup"
	"github.com/myklob/reasonrank/internal/model"
	"github.com/myklob/reasonrank/internal/rank"
	"github.com/myklob/reasonrank/internal/semantic"
)

// Pipeline orchestrates the complete scoring process for one belief
// document: corroboration, semantic enrichment, duplication analysis,
// recursive ranking and report assembly.
type Pipeline struct {
	scorer   *rank.Scorer
	enricher *semantic.Enricher // optional, nil when no provider configured
	renderer *Renderer
	config   *model.Config
}

// NewPipeline creates a pipeline from the given configuration. A failing
// semantic provider downgrades the pipeline to mechanical-only similarity
// instead of failing construction.
func NewPipeline(cfg *model.Config) *Pipeline {
	enricher, err := semantic.NewEnricher(cfg.Semantic, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: semantic layer disabled: %v\n", err)
		enricher = nil
	}

	return &Pipeline{
		scorer:   rank.NewScorer(cfg),
		enricher: enricher,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
	}
}

// ScoreFile loads a belief document and scores it.
func (p *Pipeline) ScoreFile(ctx context.Context, path string) (*model.Report, error) {
	belief, err := LoadBelief(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return p.ScoreBelief(ctx, belief)
}

// ScoreBelief runs the full scoring pass over a belief and assembles the
// report. The caller's belief is never mutated; annotation happens on a
// clone.
func (p *Pipeline) ScoreBelief(ctx context.Context, belief *model.Belief) (*model.Report, error) {
	// 1. Reject malformed trees before any scoring work.
	if err := belief.Validate(); err != nil {
		return nil, fmt.Errorf("validate belief: %w", err)
	}

	b := belief.Clone()

	// 2. Cited sources boost each argument's truth score, capped and with
	//    diminishing returns.
	corroboration := p.applyCorroboration(b)

	// 3. Build the semantic similarity lookup over every argument in the
	//    tree. A failing provider degrades to mechanical-only scoring.
	lookup := p.semanticLookup(ctx, b)

	// 4. Duplication analysis per sibling group, oldest-first. Computed
	//    uniqueness overrides declared uniqueness wherever the group gave
	//    the comparison something to work with.
	proDup := p.dedupTree(b.ProTree, lookup)
	conDup := p.dedupTree(b.ConTree, lookup)

	// 5. Recursive ranking and aggregation.
	breakdown := p.scorer.ScoreBelief(b)

	// 6. Post-processing: stability and the claim-strength filter.
	stability := p.scorer.Stability(breakdown.ProRank, breakdown.ConRank, breakdown.TotalArguments)
	claimStrength := model.ClaimStrengthResult{
		ClaimStrength: b.ClaimStrength,
		Transmission:  p.scorer.TransmissionFactor(b.ClaimStrength),
		RawScore:      breakdown.TruthScore,
		AdjustedScore: p.scorer.ApplyClaimStrength(breakdown.TruthScore, b.ClaimStrength),
	}

	report := &model.Report{
		BeliefID:      b.ID,
		Title:         b.Title,
		GeneratedAt:   time.Now().UTC(),
		Breakdown:     breakdown,
		Stability:     stability,
		ClaimStrength: claimStrength,
		Corroboration: corroboration,
		ProDuplicates: proDup,
		ConDuplicates: conDup,
	}
	if p.enricher != nil {
		report.SemanticLayer = p.enricher.Provider()
	}
	return report, nil
}

// applyCorroboration walks both trees and adds each argument's source boost
// to its truth score, capped at 1.0. Returns the per-argument ledger in
// tree order.
func (p *Pipeline) applyCorroboration(b *model.Belief) []model.CorroborationResult {
	var results []model.CorroborationResult
	for i := range b.ProTree {
		p.corroborateArgument(&b.ProTree[i], &results)
	}
	for i := range b.ConTree {
		p.corroborateArgument(&b.ConTree[i], &results)
	}
	return results
}

func (p *Pipeline) corroborateArgument(arg *model.Argument, results *[]model.CorroborationResult) {
	if len(arg.Sources) > 0 {
		boost := dedup.CorroborationBoost(arg.Sources, p.config.Corroboration)
		arg.TruthScore += boost
		if arg.TruthScore > 1.0 {
			arg.TruthScore = 1.0
		}
		*results = append(*results, model.CorroborationResult{
			ArgumentID:  arg.ID,
			SourceCount: len(arg.Sources),
			Boost:       boost,
		})
	}
	for i := range arg.SubArguments {
		p.corroborateArgument(&arg.SubArguments[i], results)
	}
}

// semanticLookup embeds every argument claim and returns a similarity
// lookup keyed by argument id. Nil when no provider is configured or the
// provider fails outright.
func (p *Pipeline) semanticLookup(ctx context.Context, b *model.Belief) dedup.Lookup {
	if p.enricher == nil {
		return nil
	}
	lookup, err := p.enricher.Lookup(ctx, flattenArguments(b))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: semantic enrichment failed, scoring on mechanical similarity only: %v\n", err)
		return nil
	}
	return lookup
}

// flattenArguments collects every argument node in both trees, depth-first.
// Linkage-debate arguments are excluded: they argue relevance, not the
// proposition, and never compete with siblings for credit.
func flattenArguments(b *model.Belief) []model.Argument {
	var out []model.Argument
	var walk func(args []model.Argument)
	walk = func(args []model.Argument) {
		for i := range args {
			out = append(out, args[i])
			walk(args[i].SubArguments)
		}
	}
	walk(b.ProTree)
	walk(b.ConTree)
	return out
}

// dedupTree runs the duplication pipeline over a tree level and recurses
// into sub-arguments, splitting each argument's children by side. Only the
// root level's results feed the report; deeper levels still have their
// uniqueness rewritten in place.
func (p *Pipeline) dedupTree(args []model.Argument, lookup dedup.Lookup) model.DuplicationResult {
	scorer := dedup.NewScorer(p.config.Duplication, p.config.Novelty, lookup, nil)

	group := make([]*model.Argument, len(args))
	for i := range args {
		group[i] = &args[i]
	}
	scored := p.dedupGroup(scorer, group)

	var walkChildren func(args []model.Argument)
	walkChildren = func(args []model.Argument) {
		for i := range args {
			var pro, con []*model.Argument
			for j := range args[i].SubArguments {
				child := &args[i].SubArguments[j]
				switch child.Side {
				case model.SidePro:
					pro = append(pro, child)
				case model.SideCon:
					con = append(con, child)
				}
			}
			p.dedupGroup(scorer, pro)
			p.dedupGroup(scorer, con)
			walkChildren(args[i].SubArguments)
		}
	}
	walkChildren(args)

	result := model.DuplicationResult{Arguments: scored}
	if len(scored) > 1 {
		result.Clusters = scorer.ClusterArguments(scored)
	}
	return result
}

// dedupGroup scores one sibling group and writes computed uniqueness back
// into the arguments. Singleton groups keep their declared uniqueness: with
// nothing to compare against, the computed 1.0 carries no information.
func (p *Pipeline) dedupGroup(scorer *dedup.Scorer, group []*model.Argument) []model.ScoredArgument {
	if len(group) == 0 {
		return nil
	}

	subs := make([]model.Submission, len(group))
	for i, arg := range group {
		subs[i] = model.Submission{
			ID:          arg.ID,
			Claim:       arg.Claim,
			BaseScore:   arg.TruthScore,
			SubmittedAt: arg.SubmittedAt,
		}
	}

	scored := scorer.ScoreArguments(subs, time.Now().UTC())
	if len(group) > 1 {
		byID := make(map[string]float64, len(scored))
		for _, sc := range scored {
			byID[sc.Submission.ID] = sc.Uniqueness
		}
		for _, arg := range group {
			arg.Uniqueness = byID[arg.ID]
		}
	}
	return scored
}

// RenderReport renders the report to the requested outputs and prints a
// summary to stdout.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}
