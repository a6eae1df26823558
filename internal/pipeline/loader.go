package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/myklob/reasonrank/internal/model"
)

// LoadBelief reads a belief document from disk. The format follows the
// file extension: .json, .yaml or .yml.
func LoadBelief(path string) (*model.Belief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	belief, err := ParseBelief(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return belief, nil
}

// ParseBelief decodes a belief document in the named format. Score fields
// the document omits take neutral defaults; unknown side or tier labels
// are an error rather than a silent fallback.
func ParseBelief(data []byte, ext string) (*model.Belief, error) {
	var belief model.Belief

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &belief); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &belief); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q (expected .json, .yaml or .yml)", ext)
	}

	if belief.ID == "" {
		return nil, fmt.Errorf("document has no belief id")
	}
	return &belief, nil
}
