package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Side identifies which direction an argument or piece of evidence pushes
// a proposition.
type Side int

const (
	SidePro Side = iota // supports the proposition
	SideCon             // weakens the proposition
)

// sideAliases maps the side spellings accepted on input to their canonical
// value. Unknown spellings are a load error, not a silent default.
var sideAliases = map[string]Side{
	"pro":        SidePro,
	"for":        SidePro,
	"agree":      SidePro,
	"support":    SidePro,
	"supporting": SidePro,
	"con":        SideCon,
	"against":    SideCon,
	"oppose":     SideCon,
	"opposing":   SideCon,
	"weakening":  SideCon,
}

// ParseSide resolves a side label, accepting the common aliases used in
// exported debate data.
func ParseSide(s string) (Side, error) {
	side, ok := sideAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return SidePro, fmt.Errorf("unknown side %q", s)
	}
	return side, nil
}

// String returns the canonical label for the side.
func (s Side) String() string {
	switch s {
	case SidePro:
		return "pro"
	case SideCon:
		return "con"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the side as its canonical label.
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a side label, accepting aliases.
func (s *Side) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	side, err := ParseSide(raw)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// MarshalYAML renders the side as its canonical label.
func (s Side) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses a side label from a YAML document, accepting aliases.
func (s *Side) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	side, err := ParseSide(raw)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// EvidenceTier grades the quality of an evidence source.
type EvidenceTier int

const (
	TierUnknown EvidenceTier = iota
	Tier1                    // peer-reviewed, primary data
	Tier2                    // reputable secondary reporting
	Tier3                    // informed commentary
	Tier4                    // unsourced assertion
)

// tierWeights carries the credibility multiplier applied to each tier.
// Unknown tiers take a middle weight rather than zero so that unlabeled
// sources still count for something.
var tierWeights = map[EvidenceTier]float64{
	Tier1:       1.0,
	Tier2:       0.75,
	Tier3:       0.5,
	Tier4:       0.25,
	TierUnknown: 0.5,
}

// ParseEvidenceTier resolves a tier label such as "T1" or "2".
func ParseEvidenceTier(s string) (EvidenceTier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "T1", "1":
		return Tier1, nil
	case "T2", "2":
		return Tier2, nil
	case "T3", "3":
		return Tier3, nil
	case "T4", "4":
		return Tier4, nil
	case "":
		return TierUnknown, nil
	default:
		return TierUnknown, fmt.Errorf("unknown evidence tier %q", s)
	}
}

// String returns the tier label.
func (t EvidenceTier) String() string {
	switch t {
	case Tier1:
		return "T1"
	case Tier2:
		return "T2"
	case Tier3:
		return "T3"
	case Tier4:
		return "T4"
	default:
		return "unknown"
	}
}

// Weight returns the credibility multiplier for the tier.
func (t EvidenceTier) Weight() float64 {
	if w, ok := tierWeights[t]; ok {
		return w
	}
	return tierWeights[TierUnknown]
}

// MarshalJSON renders the tier as its label.
func (t EvidenceTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses a tier label.
func (t *EvidenceTier) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tier, err := ParseEvidenceTier(raw)
	if err != nil {
		return err
	}
	*t = tier
	return nil
}

// MarshalYAML renders the tier as its label.
func (t EvidenceTier) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML parses a tier label from a YAML document.
func (t *EvidenceTier) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	tier, err := ParseEvidenceTier(raw)
	if err != nil {
		return err
	}
	*t = tier
	return nil
}

// Fallacy records a detected reasoning flaw and how much of the argument's
// credibility it costs. Impact is expressed in percentage points.
type Fallacy struct {
	Type   string  `json:"type" yaml:"type"`     // e.g. "ad_hominem", "strawman"
	Impact float64 `json:"impact" yaml:"impact"` // penalty in points, 0-100
}

// LinkageDebate is a nested pro/con debate over whether an argument is
// actually relevant to its parent. When present it replaces the static
// linkage score with a recursively scored one.
type LinkageDebate struct {
	ProArguments []Argument `json:"pro_arguments,omitempty" yaml:"pro_arguments,omitempty"` // relevance is real
	ConArguments []Argument `json:"con_arguments,omitempty" yaml:"con_arguments,omitempty"` // relevance is illusory
}

// Neutral defaults applied to score fields a document omits. An explicit
// zero in the document is kept; only absent fields take these values.
const (
	DefaultTruthScore   = 0.5
	DefaultLinkage      = 0.5
	DefaultImportance   = 0.5
	DefaultUniqueness   = 1.0
	DefaultSourceWeight = 0.1
)

// Argument is one node in a debate tree. Sub-arguments attack or support
// this argument, not the root proposition. Score fields live on the scale
// [0,1] unless noted otherwise.
type Argument struct {
	ID            string         `json:"id" yaml:"id"`
	Claim         string         `json:"claim" yaml:"claim"`                                           // the assertion text
	Side          Side           `json:"side" yaml:"side"`                                             // direction relative to the parent
	TruthScore    float64        `json:"truth_score" yaml:"truth_score"`                               // how likely the claim itself is true
	Fallacies     []Fallacy      `json:"fallacies_detected,omitempty" yaml:"fallacies_detected,omitempty"` // detected reasoning flaws
	Importance    float64        `json:"importance_score" yaml:"importance_score"`                     // how much it matters if true
	Uniqueness    float64        `json:"uniqueness_score" yaml:"uniqueness_score"`                     // 1 minus redundancy with siblings
	Linkage       float64        `json:"linkage_score" yaml:"linkage_score"`                           // relevance to the parent claim
	LinkageDebate *LinkageDebate `json:"linkage_debate,omitempty" yaml:"linkage_debate,omitempty"`     // optional debate over relevance
	SubArguments  []Argument     `json:"sub_arguments,omitempty" yaml:"sub_arguments,omitempty"`
	SubmittedAt   time.Time      `json:"submitted_at,omitzero" yaml:"submitted_at,omitempty"` // when the argument entered the debate
	Sources       []Source       `json:"sources,omitempty" yaml:"sources,omitempty"`          // corroborating citations
}

// argumentDefaults returns an argument with the neutral score defaults
// set, ready to be unmarshaled onto.
func argumentDefaults() Argument {
	return Argument{
		TruthScore: DefaultTruthScore,
		Linkage:    DefaultLinkage,
		Importance: DefaultImportance,
		Uniqueness: DefaultUniqueness,
	}
}

// UnmarshalJSON fills absent score fields with neutral defaults. Explicit
// zeros in the document survive.
func (a *Argument) UnmarshalJSON(data []byte) error {
	type plain Argument
	tmp := plain(argumentDefaults())
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*a = Argument(tmp)
	return nil
}

// UnmarshalYAML fills absent score fields with neutral defaults.
func (a *Argument) UnmarshalYAML(node *yaml.Node) error {
	type plain Argument
	tmp := plain(argumentDefaults())
	if err := node.Decode(&tmp); err != nil {
		return err
	}
	*a = Argument(tmp)
	return nil
}

// Source is one citation corroborating an argument's claim.
type Source struct {
	ID     string       `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string       `json:"title,omitempty" yaml:"title,omitempty"`
	URL    string       `json:"url,omitempty" yaml:"url,omitempty"`
	Tier   EvidenceTier `json:"tier" yaml:"tier"`
	Weight float64      `json:"weight" yaml:"weight"` // contribution per source, typically 0.1
}

// UnmarshalJSON fills an absent source weight with the default.
func (s *Source) UnmarshalJSON(data []byte) error {
	type plain Source
	tmp := plain{Weight: DefaultSourceWeight}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = Source(tmp)
	return nil
}

// UnmarshalYAML fills an absent source weight with the default.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	type plain Source
	tmp := plain{Weight: DefaultSourceWeight}
	if err := node.Decode(&tmp); err != nil {
		return err
	}
	*s = Source(tmp)
	return nil
}

// Evidence is a belief-level exhibit that shifts the aggregate truth score
// without being a full argument tree of its own.
type Evidence struct {
	ID      string       `json:"id,omitempty" yaml:"id,omitempty"`
	Side    Side         `json:"side" yaml:"side"`                   // supporting or weakening
	Tier    EvidenceTier `json:"tier" yaml:"tier"`                   // source quality grade
	Linkage float64      `json:"linkage_score" yaml:"linkage_score"` // relevance to the proposition
}

// UnmarshalJSON fills an absent linkage score with the neutral default.
func (e *Evidence) UnmarshalJSON(data []byte) error {
	type plain Evidence
	tmp := plain{Linkage: DefaultLinkage}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*e = Evidence(tmp)
	return nil
}

// UnmarshalYAML fills an absent linkage score with the neutral default.
func (e *Evidence) UnmarshalYAML(node *yaml.Node) error {
	type plain Evidence
	tmp := plain{Linkage: DefaultLinkage}
	if err := node.Decode(&tmp); err != nil {
		return err
	}
	*e = Evidence(tmp)
	return nil
}

// Belief is a scored proposition: a statement plus the pro and con argument
// trees and exhibits attached to it.
type Belief struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`                   // the proposition text
	ClaimStrength float64    `json:"claim_strength" yaml:"claim_strength"` // 0 weak phrasing, 1 absolute phrasing
	ProTree       []Argument `json:"pro_tree,omitempty" yaml:"pro_tree,omitempty"`
	ConTree       []Argument `json:"con_tree,omitempty" yaml:"con_tree,omitempty"`
	Evidence      []Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Validate checks the structural integrity of the belief's argument trees:
// IDs must be unique across both trees and no argument may contain itself,
// directly or through a linkage debate.
func (b *Belief) Validate() error {
	seen := make(map[string]bool)
	path := make(map[string]bool)
	for i := range b.ProTree {
		if err := validateArgument(&b.ProTree[i], seen, path); err != nil {
			return fmt.Errorf("pro tree: %w", err)
		}
	}
	for i := range b.ConTree {
		if err := validateArgument(&b.ConTree[i], seen, path); err != nil {
			return fmt.Errorf("con tree: %w", err)
		}
	}
	return nil
}

func validateArgument(arg *Argument, seen, path map[string]bool) error {
	if arg.ID == "" {
		return fmt.Errorf("argument %q has no id", arg.Claim)
	}
	if path[arg.ID] {
		return fmt.Errorf("argument %s is its own ancestor", arg.ID)
	}
	if seen[arg.ID] {
		return fmt.Errorf("duplicate argument id %s", arg.ID)
	}
	seen[arg.ID] = true
	path[arg.ID] = true
	defer delete(path, arg.ID)

	for i := range arg.SubArguments {
		if err := validateArgument(&arg.SubArguments[i], seen, path); err != nil {
			return err
		}
	}
	if arg.LinkageDebate != nil {
		for i := range arg.LinkageDebate.ProArguments {
			if err := validateArgument(&arg.LinkageDebate.ProArguments[i], seen, path); err != nil {
				return err
			}
		}
		for i := range arg.LinkageDebate.ConArguments {
			if err := validateArgument(&arg.LinkageDebate.ConArguments[i], seen, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the belief. Scoring stages that annotate the
// tree (uniqueness, corroboration) work on a clone so the caller's snapshot
// stays untouched.
func (b *Belief) Clone() *Belief {
	if b == nil {
		return nil
	}
	out := *b
	out.ProTree = cloneArguments(b.ProTree)
	out.ConTree = cloneArguments(b.ConTree)
	out.Evidence = append([]Evidence(nil), b.Evidence...)
	return &out
}

func cloneArguments(args []Argument) []Argument {
	if args == nil {
		return nil
	}
	out := make([]Argument, len(args))
	for i := range args {
		out[i] = args[i]
		out[i].Fallacies = append([]Fallacy(nil), args[i].Fallacies...)
		out[i].Sources = append([]Source(nil), args[i].Sources...)
		out[i].SubArguments = cloneArguments(args[i].SubArguments)
		if args[i].LinkageDebate != nil {
			out[i].LinkageDebate = &LinkageDebate{
				ProArguments: cloneArguments(args[i].LinkageDebate.ProArguments),
				ConArguments: cloneArguments(args[i].LinkageDebate.ConArguments),
			}
		}
	}
	return out
}

// CountArguments returns the number of argument nodes in both trees,
// excluding linkage debates.
func (b *Belief) CountArguments() int {
	n := 0
	for i := range b.ProTree {
		n += countNodes(&b.ProTree[i])
	}
	for i := range b.ConTree {
		n += countNodes(&b.ConTree[i])
	}
	return n
}

func countNodes(arg *Argument) int {
	n := 1
	for i := range arg.SubArguments {
		n += countNodes(&arg.SubArguments[i])
	}
	return n
}
