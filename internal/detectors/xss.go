package detectors

import (
	"regexp"
	"strings"

	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
)

type xssPattern struct {
	linePattern
	gated    bool
	contains [][]string
}

var (
	xssGate  = regexp.MustCompile(rules.XSSGate)
	xssChain = func() []xssPattern {
		out := make([]xssPattern, 0, len(rules.XSSPatterns))
		for _, p := range rules.XSSPatterns {
			out = append(out, xssPattern{
				linePattern: linePattern{LinePattern: p.LinePattern, re: regexp.MustCompile(p.Pattern)},
				gated:       p.Gated,
				contains:    p.Contains,
			})
		}
		return out
	}()
)

// XSS flags HTML assembled from runtime values. Tag-gated patterns are tried
// first, then the call-site checks; the first hit is the line's only finding.
type XSS struct{}

func (XSS) ID() string               { return IDXSS }
func (XSS) Category() types.Category { return types.CatXSS }

func (XSS) Scan(content, identifier string) []types.Finding {
	var out []types.Finding
	forEachLine(content, func(n int, text string) {
		if isComment(strings.TrimSpace(text), "#") {
			return
		}
		tagged := xssGate.MatchString(text)
		lower := strings.ToLower(text)
		for _, p := range xssChain {
			if p.gated && !tagged {
				continue
			}
			loc := p.re.FindStringIndex(text)
			if loc == nil || !satisfies(lower, p.contains) {
				continue
			}
			out = append(out, types.Finding{
				File:           identifier,
				Line:           n,
				Column:         loc[0] + 1,
				Severity:       types.SevHigh,
				Category:       types.CatXSS,
				Rule:           p.ID,
				Message:        p.Message,
				CodeSnippet:    snippet(text),
				Recommendation: rules.XSSRecommendation,
			})
			return
		}
	})
	return out
}

// satisfies requires one hit from every group.
func satisfies(lower string, groups [][]string) bool {
	for _, g := range groups {
		if !containsAny(lower, g...) {
			return false
		}
	}
	return true
}
