package detectors

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
)

type dangerousCall struct {
	name string
	re   *regexp.Regexp
	rec  string
}

var dangerousCalls = func() []dangerousCall {
	out := make([]dangerousCall, 0, len(rules.DangerousFunctions))
	for _, f := range rules.DangerousFunctions {
		rec := f.Recommendation
		if rec == "" {
			rec = rules.DangerousFallbackRecommendation
		}
		out = append(out, dangerousCall{
			name: f.Name,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(f.Name) + `\s*\(`),
			rec:  rec,
		})
	}
	return out
}()

// Dangerous reports calls to dynamic-execution builtins such as eval.
type Dangerous struct{}

func (Dangerous) ID() string               { return IDDangerous }
func (Dangerous) Category() types.Category { return types.CatDangerousFunction }

func (Dangerous) Scan(content, identifier string) []types.Finding {
	var out []types.Finding
	forEachLine(content, func(n int, text string) {
		if isComment(strings.TrimSpace(text), "#") {
			return
		}
		var hits []types.Finding
		for _, c := range dangerousCalls {
			// one finding per name and line, at the first call
			if loc := c.re.FindStringIndex(text); loc != nil {
				hits = append(hits, types.Finding{
					File:           identifier,
					Line:           n,
					Column:         loc[0] + 1,
					Severity:       types.SevHigh,
					Category:       types.CatDangerousFunction,
					Rule:           c.name,
					Message:        fmt.Sprintf("Dangerous function '%s()' detected. This can lead to code injection vulnerabilities.", c.name),
					CodeSnippet:    snippet(text),
					Recommendation: c.rec,
				})
			}
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Column < hits[j].Column })
		out = append(out, hits...)
	})
	return out
}
