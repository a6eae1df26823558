package rank

import (
	"math"
	"testing"

	"github.com/myklob/reasonrank/internal/model"
)

func TestScorer_Stability_EmptyDebateIsFragile(t *testing.T) {
	scorer := NewScorer(nil)

	st := scorer.Stability(0, 0, 0)

	if st.Score != 0 {
		t.Errorf("no arguments should mean zero stability, got %f", st.Score)
	}
	if st.Band != model.BandFragile {
		t.Errorf("empty debate should be fragile, got %s", st.Band)
	}
	if st.DominanceRatio != 0 {
		t.Errorf("empty debate has no dominance, got %f", st.DominanceRatio)
	}
}

func TestScorer_Stability_MatureDominatedDebateIsRobust(t *testing.T) {
	scorer := NewScorer(nil)

	st := scorer.Stability(3.0, 0, 12)

	if math.Abs(st.Score-1.0) > 1e-9 {
		t.Errorf("saturated one-sided debate should score 1.0, got %f", st.Score)
	}
	if st.Band != model.BandRobust {
		t.Errorf("expected robust, got %s", st.Band)
	}
	if st.ArgumentFactor != 1.0 {
		t.Errorf("argument factor should saturate at 1.0, got %f", st.ArgumentFactor)
	}
}

func TestScorer_Stability_MatureDeadHeatStaysDeveloping(t *testing.T) {
	scorer := NewScorer(nil)

	st := scorer.Stability(2.0, 2.0, 10)

	// Full volume but zero dominance: only the floor weight survives.
	if math.Abs(st.Score-0.4) > 1e-9 {
		t.Errorf("dead heat should score the floor 0.4, got %f", st.Score)
	}
	if st.Band != model.BandDeveloping {
		t.Errorf("expected developing, got %s", st.Band)
	}
}

func TestScorer_Stability_PartialVolume(t *testing.T) {
	scorer := NewScorer(nil)

	st := scorer.Stability(1.5, 0, 5)

	// Half the saturation volume, full dominance: 0.5 * (0.4 + 0.6).
	if math.Abs(st.Score-0.5) > 1e-9 {
		t.Errorf("expected 0.5, got %f", st.Score)
	}
	if st.Band != model.BandEstablished {
		t.Errorf("expected established, got %s", st.Band)
	}
}

func TestScorer_Stability_Bands(t *testing.T) {
	scorer := NewScorer(nil)

	cases := []struct {
		pro, con float64
		count    int
		want     model.StabilityBand
	}{
		{1, 0, 10, model.BandRobust},         // 1.0
		{1.5, 0.5, 10, model.BandEstablished}, // dominance 0.5 -> 0.7
		{1, 1, 5, model.BandFragile},         // 0.5 * 0.4 = 0.2
		{1, 0, 3, model.BandDeveloping},      // 0.3 * 1.0 = 0.3
		{0, 0, 10, model.BandDeveloping},     // volume without strength: floor 0.4
	}
	for i, tc := range cases {
		st := scorer.Stability(tc.pro, tc.con, tc.count)
		if st.Band != tc.want {
			t.Errorf("case %d: got %s (score %f), want %s", i, st.Band, st.Score, tc.want)
		}
	}
}
