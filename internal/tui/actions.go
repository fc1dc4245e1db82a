package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/codeshield/codeshield/internal/files"
	"github.com/codeshield/codeshield/internal/ignore"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/types"
)

// clipboardWrite is swapped in tests; headless machines have no clipboard.
var clipboardWrite = clipboard.WriteAll

func status(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

// editorArgs builds the command line that opens f at its line in editor.
func editorArgs(editor string, f types.Finding) []string {
	col := f.Column
	if col < 1 {
		col = 1
	}
	switch filepath.Base(editor) {
	case "code", "code-insiders":
		return []string{"-g", fmt.Sprintf("%s:%d:%d", f.File, f.Line, col)}
	case "subl", "sublime_text":
		return []string{fmt.Sprintf("%s:%d:%d", f.File, f.Line, col)}
	case "emacs", "emacsclient":
		return []string{fmt.Sprintf("+%d:%d", f.Line, col), f.File}
	case "nano":
		return []string{fmt.Sprintf("+%d,%d", f.Line, col), f.File}
	case "vi", "vim", "nvim":
		return []string{fmt.Sprintf("+call cursor(%d,%d)", f.Line, col), f.File}
	}
	return []string{fmt.Sprintf("+%d", f.Line), f.File}
}

func (m Model) openEditor() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	if _, err := os.Stat(f.File); err != nil {
		return status("Cannot open " + f.File)
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, editorArgs(editor, *f)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return statusMsg(fmt.Sprintf("Error opening editor: %v", err))
		}
		return statusMsg("Editor closed")
	})
}

func (m Model) copyPath() tea.Cmd {
	f := m.selected()
	if f == nil {
		return status("No finding selected")
	}
	loc := fmt.Sprintf("%s:%d", f.File, f.Line)
	if err := clipboardWrite(loc); err != nil {
		return status(fmt.Sprintf("Clipboard error: %v", err))
	}
	return status("Copied: " + loc)
}

// findingText is the plain-text form copied by 'Y'. It never contains the
// raw secret.
func findingText(f types.Finding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", f.File)
	fmt.Fprintf(&sb, "Line: %d\n", f.Line)
	if f.Column > 0 {
		fmt.Fprintf(&sb, "Column: %d\n", f.Column)
	}
	fmt.Fprintf(&sb, "Severity: %s\n", f.Severity)
	fmt.Fprintf(&sb, "Category: %s\n", f.Category)
	fmt.Fprintf(&sb, "Rule: %s\n", f.Rule)
	fmt.Fprintf(&sb, "Issue: %s\n", f.Message)
	fmt.Fprintf(&sb, "Code: %s\n", f.CodeSnippet)
	fmt.Fprintf(&sb, "Fix: %s\n", f.Recommendation)
	return sb.String()
}

func (m Model) copyFinding() tea.Cmd {
	f := m.selected()
	if f == nil {
		return status("No finding selected")
	}
	if err := clipboardWrite(findingText(*f)); err != nil {
		return status(fmt.Sprintf("Clipboard error: %v", err))
	}
	return status("Copied finding details to clipboard")
}

func (m Model) copyFix() tea.Cmd {
	f := m.selected()
	if f == nil {
		return status("No finding selected")
	}
	if f.Autofix == nil {
		return status("No autofix for this finding")
	}
	if err := clipboardWrite(f.Autofix.FixCode); err != nil {
		return status(fmt.Sprintf("Clipboard error: %v", err))
	}
	return status("Copied secure code (" + f.Autofix.Language + ")")
}

// addToBaseline records the selected finding in the baseline file and marks
// it in the table.
func (m *Model) addToBaseline() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	key := f.Fingerprint()
	if m.baselined[key] {
		return status("Already baselined")
	}
	base, err := report.LoadBaseline(m.opts.BaselinePath)
	if err != nil && !os.IsNotExist(err) {
		return status(fmt.Sprintf("Error reading baseline: %v", err))
	}
	base.Items[key] = true
	if err := report.WriteBaseline(m.opts.BaselinePath, base); err != nil {
		return status(fmt.Sprintf("Error writing baseline: %v", err))
	}
	m.baselined[key] = true
	cursor := m.table.Cursor()
	m.applyFilters()
	m.table.SetCursor(cursor)
	return status("Added finding to " + m.opts.BaselinePath)
}

// ignoreFile appends the selected file to the scan root's ignore file.
func (m Model) ignoreFile() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	root := m.opts.Root
	if root == "" {
		root = "."
	}
	rel := f.File
	if r, err := filepath.Rel(root, f.File); err == nil && !strings.HasPrefix(r, "..") {
		rel = r
	}
	rel = filepath.ToSlash(rel)
	added, err := files.AppendPattern(filepath.Join(root, ignore.FileName), rel)
	if err != nil {
		return status(fmt.Sprintf("Error updating %s: %v", ignore.FileName, err))
	}
	if !added {
		return status(rel + " is already ignored")
	}
	return status("Ignored " + rel + " (takes effect on next scan)")
}

// exportFindings writes the displayed findings next to the scan root.
func (m Model) exportFindings(format string) tea.Cmd {
	var out []types.Finding
	for _, i := range m.display {
		out = append(out, m.findings[i])
	}
	root := m.opts.Root
	if root == "" {
		root = "."
	}
	stamp := time.Now().Format("20060102-150405")
	name := filepath.Join(root, fmt.Sprintf("codeshield-export-%s.%s", stamp, format))
	if format == "sarif" {
		name = filepath.Join(root, fmt.Sprintf("codeshield-export-%s.sarif.json", stamp))
	}
	return func() tea.Msg {
		f, err := os.Create(name)
		if err != nil {
			return statusMsg(fmt.Sprintf("Export failed: %v", err))
		}
		defer f.Close()
		switch format {
		case "sarif":
			err = report.WriteSARIF(f, out, "")
		default:
			err = report.WriteJSON(f, report.NewEnvelope("", "", 0, out))
		}
		if err != nil {
			return statusMsg(fmt.Sprintf("Export failed: %v", err))
		}
		return statusMsg(fmt.Sprintf("Exported %d finding(s) to %s", len(out), name))
	}
}
