package detectors

import (
	"regexp"
	"strings"

	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
)

type linePattern struct {
	rules.LinePattern
	re *regexp.Regexp
}

func compileChain(ps []rules.LinePattern) []linePattern {
	out := make([]linePattern, 0, len(ps))
	for _, p := range ps {
		out = append(out, linePattern{LinePattern: p, re: regexp.MustCompile(p.Pattern)})
	}
	return out
}

var sqlChain = compileChain(rules.SQLPatterns)

// SQLInjection flags query strings assembled from runtime values. At most
// one finding is produced per line: the first pattern in the chain wins.
type SQLInjection struct{}

func (SQLInjection) ID() string               { return IDSQL }
func (SQLInjection) Category() types.Category { return types.CatSQLInjection }

func (SQLInjection) Scan(content, identifier string) []types.Finding {
	var out []types.Finding
	forEachLine(content, func(n int, text string) {
		if isComment(strings.TrimSpace(text), "#") {
			return
		}
		if !containsAny(strings.ToUpper(text), rules.SQLKeywords...) {
			return
		}
		for _, p := range sqlChain {
			loc := p.re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			out = append(out, types.Finding{
				File:           identifier,
				Line:           n,
				Column:         loc[0] + 1,
				Severity:       types.SevCritical,
				Category:       types.CatSQLInjection,
				Rule:           p.ID,
				Message:        p.Message,
				CodeSnippet:    snippet(text),
				Recommendation: rules.SQLRecommendation,
			})
			return
		}
	})
	return out
}
