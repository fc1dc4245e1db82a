// Package audit keeps an append-only JSON lines history of scans run in a
// repository. Only masked values ever reach the log.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/types"
)

// FileName is the history file name, dot-prefixed outside .git.
const FileName = "codeshield_audit.jsonl"

// ScanRecord summarises one scan.
type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	Commit         string           `json:"commit,omitempty"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	Counts         report.Counts    `json:"counts"`
	FilesScanned   int              `json:"files_scanned"`
	Duration       string           `json:"duration"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

// FindingSummary is the part of a finding kept in the history.
type FindingSummary struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Rule     string `json:"rule"`
}

// Log is a history file for one repository.
type Log struct {
	path string
}

// New places the log inside .git when root is a repository.
func New(root string) *Log {
	p := filepath.Join(root, "."+FileName)
	if st, err := os.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		p = filepath.Join(root, ".git", FileName)
	}
	return &Log{path: p}
}

// Path is the file the log writes to.
func (a *Log) Path() string { return a.path }

// LoadHistory returns records newest first. Corrupt lines are skipped.
func (a *Log) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var r ScanRecord
		if err := dec.Decode(&r); err != nil {
			break
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// LogScan appends record to the history.
func (a *Log) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", record.Timestamp.UnixNano())
	}
	// owner-only: records carry file paths and rule hits
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index, counted newest first as
// returned by LoadHistory.
func (a *Log) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("rewrite audit log: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for i := len(records) - 1; i >= 0; i-- {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("write audit record: %w", err)
		}
	}
	return nil
}

// NewRecord builds a record from a finished scan. The ten first new
// findings are kept as a summary.
func NewRecord(root string, all, fresh []types.Finding, filesScanned int, d time.Duration, baselineFile string) ScanRecord {
	top := make([]FindingSummary, 0, 10)
	for i, f := range fresh {
		if i >= 10 {
			break
		}
		top = append(top, FindingSummary{
			File:     f.File,
			Line:     f.Line,
			Severity: string(f.Severity),
			Category: string(f.Category),
			Rule:     f.Rule,
		})
	}
	return ScanRecord{
		Timestamp:      time.Now(),
		Root:           root,
		TotalFindings:  len(all),
		NewFindings:    len(fresh),
		BaselinedCount: len(all) - len(fresh),
		Counts:         report.Count(all),
		FilesScanned:   filesScanned,
		Duration:       d.Round(time.Millisecond).String(),
		BaselineFile:   baselineFile,
		TopFindings:    top,
	}
}
