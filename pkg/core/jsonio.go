package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/codeshield/codeshield/internal/report"
)

// MarshalFindings writes findings as an indented JSON array, the same shape
// as the "findings" member of `codeshield scan --format json`.
func MarshalFindings(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings reads either a bare findings array or a full scan
// envelope as written by --format json and --upload.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var env report.Envelope
		if err := json.Unmarshal(b, &env); err != nil {
			return nil, fmt.Errorf("decode scan envelope: %w", err)
		}
		return env.Findings, nil
	}
	var fs []Finding
	if err := json.Unmarshal(b, &fs); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	return fs, nil
}
