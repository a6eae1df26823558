package rank

import (
	"fmt"
	"sort"
	"sync"

	"github.com/myklob/reasonrank/internal/model"
)

// Service holds a set of registered beliefs and keeps their breakdowns
// current as arguments arrive or change. Safe for concurrent use.
type Service struct {
	scorer *Scorer
	cfg    *model.Config

	mu         sync.RWMutex
	beliefs    map[string]*model.Belief
	breakdowns map[string]model.ScoreBreakdown
}

// ArgumentUpdate carries the editable score fields of an argument. Nil
// fields are left unchanged.
type ArgumentUpdate struct {
	TruthScore *float64
	Importance *float64
	Uniqueness *float64
	Linkage    *float64
}

// NewService creates an empty rescoring service.
func NewService(cfg *model.Config) *Service {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Service{
		scorer:     NewScorer(cfg),
		cfg:        cfg,
		beliefs:    make(map[string]*model.Belief),
		breakdowns: make(map[string]model.ScoreBreakdown),
	}
}

// Register validates and adds a belief, scoring it immediately. The service
// takes ownership of the belief.
func (s *Service) Register(b *model.Belief) error {
	if b.ID == "" {
		return fmt.Errorf("belief has no id")
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("belief %s: %w", b.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.beliefs[b.ID]; exists {
		return fmt.Errorf("belief %s already registered", b.ID)
	}
	s.beliefs[b.ID] = b
	s.breakdowns[b.ID] = s.scorer.ScoreBelief(b)
	return nil
}

// ScoreAll rescores every registered belief and returns the breakdowns
// keyed by belief ID.
func (s *Service) ScoreAll() map[string]model.ScoreBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]model.ScoreBreakdown, len(s.beliefs))
	for id, b := range s.beliefs {
		bd := s.scorer.ScoreBelief(b)
		s.breakdowns[id] = bd
		out[id] = bd
	}
	return out
}

// Breakdown returns the current breakdown for a belief.
func (s *Service) Breakdown(beliefID string) (model.ScoreBreakdown, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bd, ok := s.breakdowns[beliefID]
	return bd, ok
}

// AddArgument attaches a new argument and rescores the belief. An empty
// parentID attaches to the root tree matching the argument's side;
// otherwise the argument becomes a sub-argument of the named parent.
func (s *Service) AddArgument(beliefID, parentID string, arg model.Argument) (model.ScoreBreakdown, error) {
	if arg.ID == "" {
		return model.ScoreBreakdown{}, fmt.Errorf("argument has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.beliefs[beliefID]
	if !ok {
		return model.ScoreBreakdown{}, fmt.Errorf("unknown belief %s", beliefID)
	}
	if findArgument(b, arg.ID) != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("belief %s already has argument %s", beliefID, arg.ID)
	}

	if parentID == "" {
		switch arg.Side {
		case model.SidePro:
			b.ProTree = append(b.ProTree, arg)
		case model.SideCon:
			b.ConTree = append(b.ConTree, arg)
		}
	} else {
		parent := findArgument(b, parentID)
		if parent == nil {
			return model.ScoreBreakdown{}, fmt.Errorf("belief %s has no argument %s", beliefID, parentID)
		}
		parent.SubArguments = append(parent.SubArguments, arg)
	}

	if err := b.Validate(); err != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("belief %s after add: %w", beliefID, err)
	}

	bd := s.scorer.ScoreBelief(b)
	s.breakdowns[beliefID] = bd
	return bd, nil
}

// UpdateArgument applies the non-nil fields of the update to an existing
// argument and rescores the belief.
func (s *Service) UpdateArgument(beliefID, argumentID string, upd ArgumentUpdate) (model.ScoreBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.beliefs[beliefID]
	if !ok {
		return model.ScoreBreakdown{}, fmt.Errorf("unknown belief %s", beliefID)
	}
	arg := findArgument(b, argumentID)
	if arg == nil {
		return model.ScoreBreakdown{}, fmt.Errorf("belief %s has no argument %s", beliefID, argumentID)
	}

	if upd.TruthScore != nil {
		arg.TruthScore = *upd.TruthScore
	}
	if upd.Importance != nil {
		arg.Importance = *upd.Importance
	}
	if upd.Uniqueness != nil {
		arg.Uniqueness = *upd.Uniqueness
	}
	if upd.Linkage != nil {
		arg.Linkage = *upd.Linkage
	}

	bd := s.scorer.ScoreBelief(b)
	s.breakdowns[beliefID] = bd
	return bd, nil
}

// Leaderboard returns all beliefs ordered by truth score, strongest first.
// Beliefs scoring below the debunked threshold are flagged rather than
// hidden: a thoroughly debunked claim is itself useful information.
func (s *Service) Leaderboard() []model.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.LeaderboardEntry, 0, len(s.breakdowns))
	for id, bd := range s.breakdowns {
		entries = append(entries, model.LeaderboardEntry{
			BeliefID:      id,
			Title:         s.beliefs[id].Title,
			TruthScore:    bd.TruthScore,
			Status:        bd.Status,
			ArgumentCount: bd.TotalArguments,
			Debunked:      bd.TruthScore < s.cfg.Scoring.DebunkedThreshold,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TruthScore != entries[j].TruthScore {
			return entries[i].TruthScore > entries[j].TruthScore
		}
		return entries[i].BeliefID < entries[j].BeliefID
	})
	return entries
}

// findArgument locates an argument by ID anywhere in the belief's trees,
// linkage debates included.
func findArgument(b *model.Belief, id string) *model.Argument {
	for i := range b.ProTree {
		if found := findInTree(&b.ProTree[i], id); found != nil {
			return found
		}
	}
	for i := range b.ConTree {
		if found := findInTree(&b.ConTree[i], id); found != nil {
			return found
		}
	}
	return nil
}

func findInTree(arg *model.Argument, id string) *model.Argument {
	if arg.ID == id {
		return arg
	}
	for i := range arg.SubArguments {
		if found := findInTree(&arg.SubArguments[i], id); found != nil {
			return found
		}
	}
	if arg.LinkageDebate != nil {
		for i := range arg.LinkageDebate.ProArguments {
			if found := findInTree(&arg.LinkageDebate.ProArguments[i], id); found != nil {
				return found
			}
		}
		for i := range arg.LinkageDebate.ConArguments {
			if found := findInTree(&arg.LinkageDebate.ConArguments[i], id); found != nil {
				return found
			}
		}
	}
	return nil
}
