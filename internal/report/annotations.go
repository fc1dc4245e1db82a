package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/codeshield/codeshield/internal/types"
)

// WriteAnnotations emits GitHub Actions workflow commands, one per finding:
//
//	::error file=app.py,line=3,col=5,title=sql-injection::message
func WriteAnnotations(w io.Writer, findings []types.Finding) error {
	for _, f := range findings {
		level := "notice"
		switch f.Severity {
		case types.SevCritical, types.SevHigh:
			level = "error"
		case types.SevMedium:
			level = "warning"
		}
		props := fmt.Sprintf("file=%s,line=%d", escapeProperty(f.File), f.Line)
		if f.Column > 0 {
			props += fmt.Sprintf(",col=%d", f.Column)
		}
		props += ",title=" + escapeProperty(string(f.Severity)+" "+string(f.Category))
		if _, err := fmt.Fprintf(w, "::%s %s::%s\n", level, props, escapeData(f.Message+". "+f.Recommendation)); err != nil {
			return err
		}
	}
	return nil
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}
