package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/myklob/reasonrank/internal/model"
)

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestLoadBelief_JSONDocument(t *testing.T) {
	path := writeDocument(t, "belief.json", `{
		"id": "minimum-wage",
		"title": "Raising the minimum wage reduces poverty",
		"claim_strength": 0.6,
		"pro_tree": [
			{"id": "p1", "claim": "incomes rise for low earners", "side": "pro", "truth_score": 0.8}
		],
		"con_tree": [
			{"id": "c1", "claim": "small employers cut hours", "side": "against"}
		]
	}`)

	belief, err := LoadBelief(path)
	if err != nil {
		t.Fatalf("LoadBelief: %v", err)
	}

	if belief.ID != "minimum-wage" {
		t.Errorf("wrong id: %s", belief.ID)
	}
	if belief.ClaimStrength != 0.6 {
		t.Errorf("wrong claim strength: %f", belief.ClaimStrength)
	}
	if len(belief.ProTree) != 1 || len(belief.ConTree) != 1 {
		t.Fatalf("tree sizes wrong: %d pro, %d con", len(belief.ProTree), len(belief.ConTree))
	}
	if belief.ConTree[0].Side != model.SideCon {
		t.Errorf("side alias 'against' should parse as con")
	}
	if belief.ProTree[0].TruthScore != 0.8 {
		t.Errorf("explicit truth score lost: %f", belief.ProTree[0].TruthScore)
	}
}

func TestLoadBelief_OmittedScoresTakeDefaults(t *testing.T) {
	path := writeDocument(t, "belief.json", `{
		"id": "b1",
		"pro_tree": [{"id": "p1", "claim": "bare claim", "side": "pro"}]
	}`)

	belief, err := LoadBelief(path)
	if err != nil {
		t.Fatalf("LoadBelief: %v", err)
	}

	arg := belief.ProTree[0]
	if arg.TruthScore != model.DefaultTruthScore {
		t.Errorf("truth score default wrong: %f", arg.TruthScore)
	}
	if arg.Linkage != model.DefaultLinkage {
		t.Errorf("linkage default wrong: %f", arg.Linkage)
	}
	if arg.Importance != model.DefaultImportance {
		t.Errorf("importance default wrong: %f", arg.Importance)
	}
	if arg.Uniqueness != model.DefaultUniqueness {
		t.Errorf("uniqueness default wrong: %f", arg.Uniqueness)
	}
}

func TestLoadBelief_ExplicitZeroSurvives(t *testing.T) {
	path := writeDocument(t, "belief.json", `{
		"id": "b1",
		"pro_tree": [{"id": "p1", "claim": "debunked claim", "side": "pro", "truth_score": 0}]
	}`)

	belief, err := LoadBelief(path)
	if err != nil {
		t.Fatalf("LoadBelief: %v", err)
	}
	if belief.ProTree[0].TruthScore != 0 {
		t.Errorf("explicit zero should not be replaced by the default, got %f", belief.ProTree[0].TruthScore)
	}
}

func TestLoadBelief_YAMLDocument(t *testing.T) {
	path := writeDocument(t, "belief.yaml", `
id: remote-work
title: Remote work improves productivity
pro_tree:
  - id: p1
    claim: commute time becomes work time
    side: support
    truth_score: 0.7
    sources:
      - title: time-use survey
        tier: T1
con_tree:
  - id: c1
    claim: collaboration suffers
    side: oppose
`)

	belief, err := LoadBelief(path)
	if err != nil {
		t.Fatalf("LoadBelief: %v", err)
	}

	if belief.ProTree[0].Side != model.SidePro || belief.ConTree[0].Side != model.SideCon {
		t.Errorf("yaml side aliases parsed wrong")
	}
	src := belief.ProTree[0].Sources[0]
	if src.Tier != model.Tier1 {
		t.Errorf("source tier wrong: %s", src.Tier)
	}
	if src.Weight != model.DefaultSourceWeight {
		t.Errorf("omitted source weight should default, got %f", src.Weight)
	}
}

func TestLoadBelief_MissingFile(t *testing.T) {
	_, err := LoadBelief(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read document") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseBelief_UnsupportedFormat(t *testing.T) {
	_, err := ParseBelief([]byte("id: b1"), ".txt")
	if err == nil || !strings.Contains(err.Error(), "unsupported document format") {
		t.Errorf("expected format error, got %v", err)
	}
}

func TestParseBelief_RequiresID(t *testing.T) {
	_, err := ParseBelief([]byte(`{"title": "anonymous"}`), ".json")
	if err == nil || !strings.Contains(err.Error(), "no belief id") {
		t.Errorf("expected missing-id error, got %v", err)
	}
}

func TestParseBelief_UnknownSideFails(t *testing.T) {
	doc := `{"id": "b1", "pro_tree": [{"id": "p1", "claim": "x", "side": "maybe"}]}`
	_, err := ParseBelief([]byte(doc), ".json")
	if err == nil || !strings.Contains(err.Error(), "unknown side") {
		t.Errorf("expected side error, got %v", err)
	}
}

func TestParseBelief_YMLExtension(t *testing.T) {
	belief, err := ParseBelief([]byte("id: b1"), ".yml")
	if err != nil {
		t.Fatalf("ParseBelief: %v", err)
	}
	if belief.ID != "b1" {
		t.Errorf("wrong id: %s", belief.ID)
	}
}
