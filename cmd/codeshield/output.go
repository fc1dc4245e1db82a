package codeshield

import (
	"fmt"
	"io"
	"time"

	"github.com/codeshield/codeshield/internal/git"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
)

var formats = []string{"text", "table", "json", "sarif", "github"}

func validateFormat(f string) error {
	for _, k := range formats {
		if f == k {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q: want text, table, json, sarif or github", f)
}

// humanFormat is true for formats meant for people, which may be preceded
// by banners on stderr.
func humanFormat(f string) bool { return f == "text" || f == "table" }

type output struct {
	Findings     []types.Finding
	FilesScanned int
	Duration     time.Duration
	Dir          string // for git metadata in JSON
	Color        bool
}

func render(w io.Writer, format string, o output) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, report.Generate(o.Findings, report.Options{Color: o.Color, FilesScanned: o.FilesScanned}))
		return err
	case "table":
		return report.PrintTable(w, o.Findings, report.PrintOptions{NoColor: !o.Color, Duration: o.Duration, FilesScanned: o.FilesScanned})
	case "json":
		return report.WriteJSON(w, envelope(o.Dir, o.FilesScanned, o.Findings, true))
	case "sarif":
		if err := report.WriteSARIF(w, o.Findings, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
		return nil
	case "github":
		return report.WriteAnnotations(w, o.Findings)
	}
	return validateFormat(format)
}

// envelope builds the JSON document shared by --format json and --upload.
// Repository metadata is best effort.
func envelope(dir string, filesScanned int, findings []types.Finding, withMeta bool) report.Envelope {
	env := report.NewEnvelope(version, rules.Version, filesScanned, findings)
	if withMeta {
		m := git.RepoMetadata(dir)
		env.Repo, env.Commit, env.Branch = m.Repo, m.Commit, m.Branch
	}
	return env
}
