// Package criteria scores how well a decision criterion holds up under
// argument. A criterion is judged along four fixed dimensions; each
// dimension carries its own pro/con argument list, and argument weight is
// the geometric mean of evidence quality, logical validity and importance,
// so one weak factor drags the whole argument down.
package criteria

import (
	"math"

	"github.com/myklob/reasonrank/internal/model"
)

// Dimension is one of the four judgment axes for a criterion.
type Dimension string

const (
	DimensionValidity     Dimension = "validity"     // does it measure what it claims
	DimensionReliability  Dimension = "reliability"  // does it measure consistently
	DimensionIndependence Dimension = "independence" // is it free of the outcome it judges
	DimensionLinkage      Dimension = "linkage"      // does it bear on the decision
)

// Dimensions lists the axes in reporting order.
var Dimensions = []Dimension{
	DimensionValidity,
	DimensionReliability,
	DimensionIndependence,
	DimensionLinkage,
}

// Argument is one consideration for or against a criterion along a single
// dimension. Factor scores are on the 0-100 scale; Weight is computed.
type Argument struct {
	ID              string     `json:"id"`
	Content         string     `json:"content"`
	Dimension       Dimension  `json:"dimension"`
	Side            model.Side `json:"side"`
	EvidenceQuality float64    `json:"evidence_quality"`
	LogicalValidity float64    `json:"logical_validity"`
	Importance      float64    `json:"importance"`
	Weight          float64    `json:"weight"`
}

// Criterion is a named standard of judgment with its arguments.
type Criterion struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
}

// DimensionBreakdown shows how one dimension's score was reached.
type DimensionBreakdown struct {
	Dimension     Dimension  `json:"dimension"`
	Score         float64    `json:"score"`
	Supporting    []Argument `json:"supporting_arguments,omitempty"`
	Opposing      []Argument `json:"opposing_arguments,omitempty"`
	SupportWeight float64    `json:"total_support_weight"`
	OpposeWeight  float64    `json:"total_oppose_weight"`
	Balance       float64    `json:"balance"`
}

// Breakdown is the full scoring result for a criterion.
type Breakdown struct {
	CriterionID   string               `json:"criterion_id"`
	CriterionName string               `json:"criterion_name"`
	OverallScore  float64              `json:"overall_score"`
	Dimensions    []DimensionBreakdown `json:"dimensions"`
	ArgumentCount int                  `json:"argument_count"`
}

// Scorer calculates criterion scores.
type Scorer struct{}

// NewScorer creates a new criteria scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// ArgumentWeight is the geometric mean of the three quality factors, on
// the 0-100 scale. Any single factor near zero collapses the weight:
// a well-evidenced but irrelevant argument carries almost nothing.
func (s *Scorer) ArgumentWeight(evidenceQuality, logicalValidity, importance float64) float64 {
	eq := clamp01(evidenceQuality / 100.0)
	lv := clamp01(logicalValidity / 100.0)
	imp := clamp01(importance / 100.0)

	return math.Pow(eq*lv*imp, 1.0/3.0) * 100.0
}

// DimensionScore maps the weight balance between supporting and opposing
// arguments onto 0-100 through a sigmoid: equal weight lands at 50,
// strong support approaches 100, strong opposition approaches 0. No
// weight on either side is a neutral 50.
func (s *Scorer) DimensionScore(supporting, opposing []Argument) float64 {
	totalSupport := 0.0
	for _, arg := range supporting {
		totalSupport += arg.Weight
	}
	totalOppose := 0.0
	for _, arg := range opposing {
		totalOppose += arg.Weight
	}

	if totalSupport == 0 && totalOppose == 0 {
		return 50.0
	}

	balance := totalSupport - totalOppose
	sigmoid := 1.0 / (1.0 + math.Exp(-balance/100.0))
	return sigmoid * 100.0
}

// OverallScore is the weighted average of the four dimension scores.
// Nil weights mean equal weighting; custom weights are renormalized to
// sum to 1, with unlisted dimensions contributing nothing.
func (s *Scorer) OverallScore(scores map[Dimension]float64, weights map[Dimension]float64) float64 {
	if len(weights) == 0 {
		weights = map[Dimension]float64{
			DimensionValidity:     0.25,
			DimensionReliability:  0.25,
			DimensionIndependence: 0.25,
			DimensionLinkage:      0.25,
		}
	}

	totalWeight := 0.0
	for _, dim := range Dimensions {
		totalWeight += weights[dim]
	}
	if totalWeight <= 0 {
		return 50.0
	}

	overall := 0.0
	for _, dim := range Dimensions {
		overall += scores[dim] * (weights[dim] / totalWeight)
	}
	return overall
}

// Score runs the full calculation: weigh every argument, score each
// dimension from its weight balance, and blend the dimensions into the
// overall score. The input criterion is not modified.
func (s *Scorer) Score(criterion Criterion, weights map[Dimension]float64) Breakdown {
	weighed := make([]Argument, len(criterion.Arguments))
	for i, arg := range criterion.Arguments {
		arg.Weight = s.ArgumentWeight(arg.EvidenceQuality, arg.LogicalValidity, arg.Importance)
		weighed[i] = arg
	}

	scores := make(map[Dimension]float64, len(Dimensions))
	breakdowns := make([]DimensionBreakdown, 0, len(Dimensions))

	for _, dim := range Dimensions {
		var supporting, opposing []Argument
		for _, arg := range weighed {
			if arg.Dimension != dim {
				continue
			}
			if arg.Side == model.SidePro {
				supporting = append(supporting, arg)
			} else {
				opposing = append(opposing, arg)
			}
		}

		score := s.DimensionScore(supporting, opposing)
		scores[dim] = score

		totalSupport := 0.0
		for _, arg := range supporting {
			totalSupport += arg.Weight
		}
		totalOppose := 0.0
		for _, arg := range opposing {
			totalOppose += arg.Weight
		}

		breakdowns = append(breakdowns, DimensionBreakdown{
			Dimension:     dim,
			Score:         score,
			Supporting:    supporting,
			Opposing:      opposing,
			SupportWeight: totalSupport,
			OpposeWeight:  totalOppose,
			Balance:       totalSupport - totalOppose,
		})
	}

	return Breakdown{
		CriterionID:   criterion.ID,
		CriterionName: criterion.Name,
		OverallScore:  s.OverallScore(scores, weights),
		Dimensions:    breakdowns,
		ArgumentCount: len(criterion.Arguments),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
