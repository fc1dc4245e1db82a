package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/codeshield/codeshield/internal/types"
)

// Baseline records accepted findings by fingerprint.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

// LoadBaseline reads path. A missing file yields an empty baseline and the
// os error so callers can decide whether that matters.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// SaveBaseline writes a baseline accepting every finding given.
func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[f.Fingerprint()] = true
	}
	return WriteBaseline(path, b)
}

// WriteBaseline writes b as indented JSON.
func WriteBaseline(path string, b Baseline) error {
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFindings drops findings already present in base.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[f.Fingerprint()] {
			out = append(out, f)
		}
	}
	return out
}

// ShouldFail reports whether any finding is at or above failOn. An empty or
// unknown threshold means HIGH; "none" never fails.
func ShouldFail(findings []types.Finding, failOn string) bool {
	if strings.EqualFold(strings.TrimSpace(failOn), "none") {
		return false
	}
	th, ok := types.ParseSeverity(failOn)
	if !ok {
		th = types.SevHigh
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th.Rank() {
			return true
		}
	}
	return false
}
