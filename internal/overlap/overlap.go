// Package overlap scores how strongly a statement belongs on a topic page.
// Five independent signals are blended into a 0-100 overlap score, and
// TopicRank orders statements on the page by combining overlap with truth,
// disagreement and recency.
package overlap

import (
	"math"
	"strings"

	"github.com/myklob/reasonrank/internal/model"
)

// Signal names as they appear in reports.
const (
	SignalSemantic   = "semantic"
	SignalTaxonomy   = "taxonomy"
	SignalCitation   = "citation"
	SignalNavigation = "navigation"
	SignalGraph      = "graph_dependency"
)

// TopicTag links a statement to a topic in the taxonomy. Distance is the
// number of hierarchy hops between the tagged topic and the one being
// scored: 0 for the topic itself, 1 for a direct parent or child.
type TopicTag struct {
	TopicID  string `json:"topic_id"`
	Distance int    `json:"distance"`
}

// NavigationEvent is one recorded visit from a topic page to a statement.
type NavigationEvent struct {
	TopicID     string  `json:"topic_id"`
	StatementID string  `json:"statement_id"`
	TimeOnPage  float64 `json:"time_on_page"` // seconds
	HelpfulVote *bool   `json:"helpful_vote,omitempty"`
}

// Statement is the candidate being placed on a topic page.
type Statement struct {
	ID      string     `json:"id"`
	Text    string     `json:"text"`
	Sources []string   `json:"sources,omitempty"` // cited source URLs
	Tags    []TopicTag `json:"tags,omitempty"`
}

// Topic describes the page the statement is scored against.
type Topic struct {
	ID             string              `json:"id"`
	Keywords       []string            `json:"keywords,omitempty"`
	CommonSources  []string            `json:"common_sources,omitempty"`  // the topic's evidence set
	CoreStatements []string            `json:"core_statements,omitempty"` // high-overlap statement ids
	Dependencies   map[string][]string `json:"dependencies,omitempty"`    // statement id -> depends-on ids
	Navigation     []NavigationEvent   `json:"navigation,omitempty"`
}

// Engine blends the overlap signals under configurable weights.
type Engine struct {
	cfg model.OverlapConfig
}

// NewEngine creates an overlap engine. A nil config uses the defaults.
func NewEngine(cfg *model.OverlapConfig) *Engine {
	if cfg == nil {
		defaults := model.DefaultConfig().Overlap
		cfg = &defaults
	}
	return &Engine{cfg: *cfg}
}

// SemanticOverlap scores meaning similarity between statement and topic.
// The cosine comes from an embedding comparison on the [-1,1] scale; it is
// mapped to [0,1] and carries 85% of the signal, with keyword matches
// contributing the remaining 15%.
func (e *Engine) SemanticOverlap(cosine float64, statementText string, topicKeywords []string) float64 {
	similarity := (cosine + 1) / 2

	keywordBoost := 0.0
	if len(topicKeywords) > 0 && statementText != "" {
		statementLower := strings.ToLower(statementText)
		matched := 0
		for _, keyword := range topicKeywords {
			if strings.Contains(statementLower, strings.ToLower(keyword)) {
				matched++
			}
		}
		keywordBoost = float64(matched) / float64(len(topicKeywords)) * 0.15
	}

	score := similarity*0.85 + keywordBoost
	if score > 1.0 {
		score = 1.0
	}
	return round2(score * 100)
}

// TaxonomyScore scores hierarchy proximity. The first tag close enough to
// the topic decides: a direct tag scores 100, one hop 75, two hops 50,
// three hops 30. Tags further away are skipped; no qualifying tag is 0.
func (e *Engine) TaxonomyScore(topicID string, tags []TopicTag) float64 {
	for _, tag := range tags {
		if tag.TopicID == topicID {
			return 100.0
		}
		switch {
		case tag.Distance == 1:
			return 75.0
		case tag.Distance == 2:
			return 50.0
		case tag.Distance <= 3:
			return 30.0
		}
	}
	return 0.0
}

// CitationScore is the Jaccard overlap between the statement's cited
// sources and the topic's evidence set, as a percentage. Either side
// empty scores 0.
func (e *Engine) CitationScore(statementSources, topicSources []string) float64 {
	if len(statementSources) == 0 || len(topicSources) == 0 {
		return 0.0
	}

	statementSet := make(map[string]struct{}, len(statementSources))
	for _, s := range statementSources {
		statementSet[s] = struct{}{}
	}
	topicSet := make(map[string]struct{}, len(topicSources))
	for _, s := range topicSources {
		topicSet[s] = struct{}{}
	}

	intersection := 0
	for s := range statementSet {
		if _, ok := topicSet[s]; ok {
			intersection++
		}
	}
	union := len(statementSet) + len(topicSet) - intersection
	if union == 0 {
		return 0.0
	}
	return round2(float64(intersection) / float64(union) * 100)
}

// NavigationScore measures reader behavior: how often topic-page visitors
// click through to this statement, how long they stay, and whether they
// vote it helpful. A topic with no traffic at all scores a neutral 50.
func (e *Engine) NavigationScore(topicID, statementID string, events []NavigationEvent) float64 {
	var topicEvents []NavigationEvent
	for _, ev := range events {
		if ev.TopicID == topicID {
			topicEvents = append(topicEvents, ev)
		}
	}
	if len(topicEvents) == 0 {
		return 50.0
	}

	var statementEvents []NavigationEvent
	for _, ev := range topicEvents {
		if ev.StatementID == statementID {
			statementEvents = append(statementEvents, ev)
		}
	}

	clickRate := float64(len(statementEvents)) / float64(len(topicEvents))

	avgTime := 0.0
	helpfulRatio := 0.0
	if len(statementEvents) > 0 {
		totalTime := 0.0
		helpfulVotes := 0
		totalVotes := 0
		for _, ev := range statementEvents {
			totalTime += ev.TimeOnPage
			if ev.HelpfulVote != nil {
				totalVotes++
				if *ev.HelpfulVote {
					helpfulVotes++
				}
			}
		}
		avgTime = totalTime / float64(len(statementEvents))
		if totalVotes > 0 {
			helpfulRatio = float64(helpfulVotes) / float64(totalVotes)
		} else {
			helpfulRatio = 0.5 // clicks without votes are weak approval
		}
	}

	timeScore := math.Min(avgTime/60, 1.0)
	score := clickRate*0.4 + timeScore*0.3 + helpfulRatio*0.3
	return round2(score * 100)
}

// GraphScore measures structural dependency: the fraction of the topic's
// core statements that cite this statement as a reason or sub-reason.
func (e *Engine) GraphScore(statementID string, coreStatements []string, dependencies map[string][]string) float64 {
	if len(coreStatements) == 0 {
		return 0.0
	}

	count := 0
	for _, coreID := range coreStatements {
		for _, dep := range dependencies[coreID] {
			if dep == statementID {
				count++
				break
			}
		}
	}
	return round2(float64(count) / float64(len(coreStatements)) * 100)
}

// Combined blends the per-signal scores under the configured weights.
// Signals are 0-100 on input and output; a missing signal contributes
// zero rather than redistributing its weight.
func (e *Engine) Combined(signals map[string]float64) float64 {
	weights := map[string]float64{
		SignalSemantic:   e.cfg.SemanticWeight,
		SignalTaxonomy:   e.cfg.TaxonomyWeight,
		SignalCitation:   e.cfg.CitationWeight,
		SignalNavigation: e.cfg.NavigationWeight,
		SignalGraph:      e.cfg.GraphWeight,
	}

	total := 0.0
	for signal, weight := range weights {
		total += signals[signal] / 100.0 * weight
	}
	return round2(total * 100)
}

// TopicRank orders statements on a topic page: mostly overlap and truth,
// with small boosts for active disagreement and recency. All score inputs
// are 0-100; recency decays exponentially with a 30-day constant. The
// result is capped at 100.
func (e *Engine) TopicRank(overlapScore, truthScore, disagreementScore, recencyDays float64) float64 {
	decayDays := e.cfg.RecencyDecayDays
	if decayDays <= 0 {
		decayDays = 30
	}
	recencyWeight := 1.0
	if recencyDays >= 0 {
		recencyWeight = math.Exp(-recencyDays / decayDays)
	}

	rank := (overlapScore/100.0*e.cfg.RankOverlapWeight +
		truthScore/100.0*e.cfg.RankTruthWeight +
		disagreementScore/100.0*e.cfg.RankDisputeWeight +
		recencyWeight*e.cfg.RankRecencyWeight) * 100

	return round2(math.Min(rank, 100.0))
}

// Evaluate runs every signal for a statement against a topic and blends
// them. The cosine is the embedding similarity between statement and topic
// text; pass 0 when no embedding provider is configured, which lands the
// semantic signal at its neutral midpoint.
func (e *Engine) Evaluate(statement Statement, topic Topic, cosine float64) model.TopicOverlapResult {
	signals := map[string]float64{
		SignalSemantic:   e.SemanticOverlap(cosine, statement.Text, topic.Keywords),
		SignalTaxonomy:   e.TaxonomyScore(topic.ID, statement.Tags),
		SignalCitation:   e.CitationScore(statement.Sources, topic.CommonSources),
		SignalNavigation: e.NavigationScore(topic.ID, statement.ID, topic.Navigation),
		SignalGraph:      e.GraphScore(statement.ID, topic.CoreStatements, topic.Dependencies),
	}

	return model.TopicOverlapResult{
		Score:   e.Combined(signals),
		Signals: signals,
	}
}

// Rank evaluates the statement and fills in its page placement rank.
func (e *Engine) Rank(statement Statement, topic Topic, cosine, truthScore, disagreementScore, recencyDays float64) model.TopicOverlapResult {
	result := e.Evaluate(statement, topic, cosine)
	result.TopicRank = e.TopicRank(result.Score, truthScore, disagreementScore, recencyDays)
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
