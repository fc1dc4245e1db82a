package report

import (
	"encoding/json"
	"io"

	"github.com/codeshield/codeshield/internal/types"
)

// SchemaVersion versions the JSON envelope.
const SchemaVersion = "1"

// Envelope is the machine-readable scan result written by --format json and
// posted by --upload.
type Envelope struct {
	Tool         string          `json:"tool"`
	Version      string          `json:"version"`
	Schema       string          `json:"schema_version"`
	RulesVersion string          `json:"rules_version"`
	Repo         string          `json:"repo,omitempty"`
	Commit       string          `json:"commit,omitempty"`
	Branch       string          `json:"branch,omitempty"`
	FilesScanned int             `json:"files_scanned"`
	Counts       Counts          `json:"counts"`
	Findings     []types.Finding `json:"findings"`
}

// NewEnvelope fills the counts from findings.
func NewEnvelope(version, rulesVersion string, filesScanned int, findings []types.Finding) Envelope {
	if findings == nil {
		findings = []types.Finding{}
	}
	return Envelope{
		Tool:         "codeshield",
		Version:      version,
		Schema:       SchemaVersion,
		RulesVersion: rulesVersion,
		FilesScanned: filesScanned,
		Counts:       Count(findings),
		Findings:     findings,
	}
}

// WriteJSON pretty-prints env.
func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
