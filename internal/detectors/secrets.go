package detectors

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codeshield/codeshield/internal/autofix"
	"github.com/codeshield/codeshield/internal/logging"
	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/sirupsen/logrus"
)

// RuleError records a secret rule that could not be compiled.
type RuleError struct {
	ID  string
	Err error
}

func (e RuleError) Error() string { return fmt.Sprintf("rule %s: %v", e.ID, e.Err) }

type secretRule struct {
	rules.SecretRule
	re *regexp.Regexp
}

// Secrets reports hardcoded credentials. Each value is masked before it
// leaves the detector and comes with autofix guidance for the file's language.
type Secrets struct {
	rules   []secretRule
	skipped []RuleError
}

// NewSecrets compiles rs in order. Rules whose pattern does not compile are
// logged and left out.
func NewSecrets(log logrus.FieldLogger, rs []rules.SecretRule) *Secrets {
	log = logging.OrDiscard(log)
	s := &Secrets{}
	for _, r := range rs {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			log.WithField("rule", r.ID).WithError(err).Warn("skipping secret rule with invalid pattern")
			s.skipped = append(s.skipped, RuleError{ID: r.ID, Err: err})
			continue
		}
		if r.Severity == "" {
			r.Severity = types.SevCritical
		}
		if r.Recommendation == "" {
			r.Recommendation = rules.DefaultSecretRecommendation
		}
		s.rules = append(s.rules, secretRule{SecretRule: r, re: re})
	}
	return s
}

func (s *Secrets) ID() string               { return IDSecrets }
func (s *Secrets) Category() types.Category { return types.CatSecret }

// Skipped lists rules dropped at construction.
func (s *Secrets) Skipped() []RuleError { return s.skipped }

// RuleCount is the number of active rules.
func (s *Secrets) RuleCount() int { return len(s.rules) }

type secretHit struct {
	rule  *secretRule
	start int
	value string
}

func (s *Secrets) Scan(content, identifier string) []types.Finding {
	var out []types.Finding
	lang := autofix.LanguageForPath(identifier)
	forEachLine(content, func(n int, text string) {
		hits := s.match(text)
		if len(hits) == 0 {
			return
		}
		// every finding on the line shares one snippet with all values masked
		masked := maskValues(text, hits)
		for _, h := range hits {
			mv := Mask(h.value)
			fix := autofix.Synthesize(h.rule.SecretRule, text, lang)
			out = append(out, types.Finding{
				File:           identifier,
				Line:           n,
				Column:         h.start + 1,
				Severity:       h.rule.Severity,
				Category:       types.CatSecret,
				Rule:           h.rule.ID,
				Message:        fmt.Sprintf("Hardcoded %s detected: %s", h.rule.Description, mv),
				CodeSnippet:    masked,
				Recommendation: h.rule.Recommendation,
				MaskedValue:    mv,
				Autofix:        &fix,
			})
		}
	})
	return out
}

// match returns the reportable values on one line in rule order. A value
// claimed by an earlier rule is not reported again.
func (s *Secrets) match(text string) []secretHit {
	comment := isComment(strings.TrimSpace(text), "#", "//")
	seen := map[string]bool{}
	var hits []secretHit
	for i := range s.rules {
		r := &s.rules[i]
		if comment && !r.CommentTolerant {
			continue
		}
		for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			value := text[start:end]
			if value == "" || seen[value] || falsePositive(value, text) {
				continue
			}
			seen[value] = true
			hits = append(hits, secretHit{rule: r, start: start, value: value})
		}
	}
	return hits
}

// maskValues replaces every hit's value in text, longest first so a value
// nested in another is covered by the outer mask.
func maskValues(text string, hits []secretHit) string {
	values := make([]string, 0, len(hits))
	for _, h := range hits {
		values = append(values, h.value)
	}
	sort.SliceStable(values, func(i, j int) bool { return len(values[i]) > len(values[j]) })
	for _, v := range values {
		text = strings.ReplaceAll(text, v, Mask(v))
	}
	return snippet(text)
}

func falsePositive(value, line string) bool {
	v := strings.ToLower(value)
	l := strings.ToLower(line)
	for _, m := range rules.FalsePositiveMarkers {
		if strings.Contains(v, m) || strings.Contains(l, m) {
			return true
		}
	}
	return false
}
