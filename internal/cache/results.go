// Package cache keeps the findings of the last scan so report, view and fix
// can work without scanning again.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeshield/codeshield/internal/types"
)

// FileName is the results file name, dot-prefixed outside .git.
const FileName = "codeshield_last_scan.json"

// ScanResults stores the findings and metadata from a scan
type ScanResults struct {
	Findings     []types.Finding `json:"findings"`
	Timestamp    time.Time       `json:"timestamp"`
	Root         string          `json:"root"`
	Count        int             `json:"count"`
	FilesScanned int             `json:"files_scanned"`
	RulesVersion string          `json:"rules_version"`
}

// Path is where results for root are stored: inside .git when root is a
// repository so the file never shows up as untracked, else a dotfile.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, FileName)
	}
	return filepath.Join(root, "."+FileName)
}

// SaveResults saves scan results to cache
func SaveResults(root string, res ScanResults) error {
	res.Root = root
	res.Count = len(res.Findings)
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(root), b, 0644)
}

// LoadResults loads the last scan results from cache
func LoadResults(root string) (ScanResults, error) {
	var results ScanResults
	p := Path(root)
	f, err := os.ReadFile(p)
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(f, &results); err != nil {
		return results, fmt.Errorf("parse %s: %w", p, err)
	}
	return results, nil
}
