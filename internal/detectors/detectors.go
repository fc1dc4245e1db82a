package detectors

import (
	"strings"

	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/sirupsen/logrus"
)

// Detector inspects the text of one file and reports findings in line
// order. Implementations hold no per-call state and never fail: the worst
// case is an empty result.
type Detector interface {
	ID() string
	Category() types.Category
	Scan(content, identifier string) []types.Finding
}

// Detector IDs in registration order.
const (
	IDSecrets   = "secrets"
	IDDangerous = "dangerous-functions"
	IDSQL       = "sql-injection"
	IDXSS       = "xss"
)

// Default returns one detector per category in registration order. Custom
// secret rules are tried after the built-in table.
func Default(log logrus.FieldLogger, custom ...rules.SecretRule) []Detector {
	return []Detector{
		NewSecrets(log, append(rules.Secrets(), custom...)),
		Dangerous{},
		SQLInjection{},
		XSS{},
	}
}

// IDs lists the built-in detector IDs.
func IDs() []string {
	return []string{IDSecrets, IDDangerous, IDSQL, IDXSS}
}

// Select keeps detectors named in enable (all when empty) and drops those in
// disable. Both are comma-separated ID lists.
func Select(all []Detector, enable, disable string) []Detector {
	en := splitIDs(enable)
	dis := splitIDs(disable)
	var out []Detector
	for _, d := range all {
		if len(en) > 0 && !en[d.ID()] {
			continue
		}
		if dis[d.ID()] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func splitIDs(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			m[p] = true
		}
	}
	return m
}
