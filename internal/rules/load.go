package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/codeshield/codeshield/internal/types"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a custom rules file.
type File struct {
	Version string       `yaml:"version"`
	Secrets []customRule `yaml:"secrets"`
}

type customRule struct {
	SecretRule `yaml:",inline"`
	Severity   string `yaml:"severity"`
}

// LoadFile reads custom secret rules from a YAML file. Patterns are not
// compiled here; the secrets detector skips and logs any that fail.
func LoadFile(path string) ([]SecretRule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes custom secret rules and fills in defaults.
func Parse(b []byte) ([]SecretRule, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	out := make([]SecretRule, 0, len(f.Secrets))
	for i, cr := range f.Secrets {
		r := cr.SecretRule
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d (%s): pattern is required", i+1, r.ID)
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("custom_%d", i+1)
		}
		if r.Name == "" {
			r.Name = r.ID
		}
		if r.Description == "" {
			r.Description = r.Name
		}
		if r.EnvVar == "" {
			r.EnvVar = strings.ToUpper(strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(r.ID))
		}
		r.Severity = types.SevCritical
		if cr.Severity != "" {
			sev, ok := types.ParseSeverity(cr.Severity)
			if !ok {
				return nil, fmt.Errorf("rule %s: unknown severity %q", r.ID, cr.Severity)
			}
			r.Severity = sev
		}
		out = append(out, r)
	}
	return out, nil
}
