package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return dir
}

func sample() []types.Finding {
	return []types.Finding{
		{File: "app/db.py", Line: 9, Severity: types.SevCritical, Category: types.CatSQLInjection, Rule: "sql-concatenation",
			Message: "Potential SQL injection", CodeSnippet: `q = "SELECT " + x`},
		{File: "app/calc.py", Line: 1, Severity: types.SevHigh, Category: types.CatDangerousFunction, Rule: "eval",
			Message: "Dangerous function 'eval()' detected."},
		{File: "app/settings.py", Line: 2, Severity: types.SevCritical, Category: types.CatSecret, Rule: "generic_password",
			Message: "Hardcoded password detected", MaskedValue: "supe********w123", CodeSnippet: `password = "supe********w123"`,
			Autofix: &types.AutofixSuggestion{Language: "Python", FixCode: "import os\n\npassword = os.environ.get(\"PASSWORD\")",
				EnvExample: "PASSWORD=your_password_here", Steps: []string{"one"}}},
		{File: "web/view.py", Line: 4, Severity: types.SevLow, Category: types.CatXSS, Rule: "xss-raw-response", Message: "low"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	return next.(Model)
}

func TestSeverityFilterKeys(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{})
	require.Len(t, m.display, 4)

	m = press(t, m, "1")
	assert.Equal(t, types.SevCritical, m.severityFilter)
	assert.Len(t, m.display, 2)

	m = press(t, m, "4")
	require.Len(t, m.display, 1)
	assert.Equal(t, "web/view.py", m.selected().File)

	m = press(t, m, "esc")
	assert.Empty(t, m.severityFilter)
	assert.Len(t, m.display, 4)
}

func TestSearch(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{})
	m = press(t, m, "/", "e", "v", "a", "l", "enter")
	assert.False(t, m.searchMode)
	assert.Equal(t, "eval", m.searchQuery)
	require.Len(t, m.display, 1)
	assert.Equal(t, "app/calc.py", m.selected().File)

	m = press(t, m, "esc")
	assert.Len(t, m.display, 4)

	m.searchQuery = "SECRET"
	m.applyFilters()
	require.Len(t, m.display, 1)
	assert.Equal(t, types.CatSecret, m.selected().Category)
}

func TestSortCycle(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{})
	m = press(t, m, "s")
	assert.Equal(t, SortSeverity, m.sortColumn)
	assert.Equal(t, types.SevCritical, m.findings[m.display[0]].Severity)
	assert.Equal(t, types.SevLow, m.findings[m.display[3]].Severity)
	// stable: the two CRITICAL findings keep scan order
	assert.Equal(t, "app/db.py", m.findings[m.display[0]].File)

	m = press(t, m, "S")
	assert.Equal(t, types.SevLow, m.findings[m.display[0]].Severity)

	m = press(t, m, "s")
	assert.Equal(t, SortFile, m.sortColumn)
	assert.Equal(t, "app/calc.py", m.findings[m.display[0]].File)

	m = press(t, m, "s", "s")
	assert.Equal(t, SortDefault, m.sortColumn)
	assert.Equal(t, []int{0, 1, 2, 3}, m.display)
}

func TestJumpToSeverity(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{})
	m = press(t, m, "n")
	assert.Equal(t, 1, m.table.Cursor())
	m = press(t, m, "n")
	assert.Equal(t, 2, m.table.Cursor())
	m = press(t, m, "n")
	assert.Equal(t, 0, m.table.Cursor())

	low := NewModel([]types.Finding{{File: "a", Severity: types.SevLow}}, Options{})
	assert.False(t, low.jumpToSeverity(types.SevHigh, 1))
}

func TestDetailNeverShowsRawSecret(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "settings.py")
	require.NoError(t, os.WriteFile(src, []byte("import os\npassword = \"supersecretpw123\"\nx = 1\n"), 0o644))
	fs := sample()
	fs[2].File = src

	m := sized(t, NewModel(fs, Options{}))
	out := m.detail(fs[2])
	assert.NotContains(t, out, "supersecretpw123")
	assert.Contains(t, out, "Autofix (Python)")
	assert.Contains(t, out, "PASSWORD=your_password_here")

	m = press(t, m, "a")
	assert.False(t, m.prefs.ShowAutofix)
	assert.NotContains(t, m.detail(fs[2]), "Autofix (Python)")
}

func TestContextKeysPersistPrefs(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{})
	m = press(t, m, "+", "+")
	assert.Equal(t, 5, m.prefs.ContextLines)
	assert.Equal(t, 5, LoadPrefs().ContextLines)
	m = press(t, m, "-")
	assert.Equal(t, 4, LoadPrefs().ContextLines)
}

func TestPrefsDefaultsAndClamp(t *testing.T) {
	isolate(t)
	assert.Equal(t, DefaultPrefs(), LoadPrefs())
	require.NoError(t, SavePrefs(Prefs{ContextLines: 99, ShowAutofix: false}))
	p := LoadPrefs()
	assert.Equal(t, 3, p.ContextLines)
	assert.False(t, p.ShowAutofix)
}

func TestCopyActions(t *testing.T) {
	isolate(t)
	var copied string
	prev := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = prev })

	m := NewModel(sample(), Options{})
	assert.Equal(t, statusMsg("No autofix for this finding"), m.copyFix()())

	m.table.SetCursor(2)
	assert.Equal(t, statusMsg("Copied secure code (Python)"), m.copyFix()())
	assert.Contains(t, copied, `os.environ.get("PASSWORD")`)

	m.copyPath()()
	assert.Equal(t, "app/settings.py:2", copied)

	m.copyFinding()()
	assert.Contains(t, copied, "Rule: generic_password")
	assert.Contains(t, copied, "supe********w123")
}

func TestAddToBaseline(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "baseline.json")
	m := NewModel(sample(), Options{BaselinePath: path})

	m.addToBaseline()
	base, err := report.LoadBaseline(path)
	require.NoError(t, err)
	assert.True(t, base.Items[sample()[0].Fingerprint()])
	assert.True(t, strings.HasPrefix(m.table.Rows()[0][0], "(b) "))
	assert.Equal(t, statusMsg("Already baselined"), m.addToBaseline()())

	// a later session starts with the mark
	m2 := NewModel(sample(), Options{Baseline: base})
	assert.True(t, m2.isBaselined(sample()[0]))
	assert.False(t, m2.isBaselined(sample()[1]))
}

func TestIgnoreFile(t *testing.T) {
	dir := isolate(t)
	fs := sample()
	fs[0].File = filepath.Join(dir, "app", "db.py")
	m := NewModel(fs, Options{Root: dir})
	msg := m.ignoreFile()()
	assert.Equal(t, statusMsg("Ignored app/db.py (takes effect on next scan)"), msg)
	b, err := os.ReadFile(filepath.Join(dir, ".codeshieldignore"))
	require.NoError(t, err)
	assert.Equal(t, "app/db.py\n", string(b))
	assert.Equal(t, statusMsg("app/db.py is already ignored"), m.ignoreFile()())
}

func TestExport(t *testing.T) {
	dir := isolate(t)
	m := NewModel(sample(), Options{Root: dir})
	m = press(t, m, "1")
	msg := m.exportFindings("json")()
	assert.Contains(t, string(msg.(statusMsg)), "Exported 2 finding(s)")
	matches, err := filepath.Glob(filepath.Join(dir, "codeshield-export-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRescan(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{Rescan: func() ([]types.Finding, error) {
		return sample()[:1], nil
	}})
	msg := m.rescan()()
	next, _ := m.Update(msg)
	m = next.(Model)
	assert.Len(t, m.findings, 1)
	assert.False(t, m.scanning)

	none := NewModel(nil, Options{})
	assert.Equal(t, statusMsg("Rescan not available"), none.rescan()())
}

func TestEditorArgs(t *testing.T) {
	f := types.Finding{File: "a.py", Line: 7, Column: 3}
	assert.Equal(t, []string{"-g", "a.py:7:3"}, editorArgs("/usr/bin/code", f))
	assert.Equal(t, []string{"+call cursor(7,3)", "a.py"}, editorArgs("nvim", f))
	assert.Equal(t, []string{"+7", "a.py"}, editorArgs("ed", f))
	f.Column = 0
	assert.Equal(t, []string{"+7,1", "a.py"}, editorArgs("nano", f))
}

func TestViewStates(t *testing.T) {
	isolate(t)
	m := NewModel(sample(), Options{})
	assert.Equal(t, "Initializing...", m.View())

	m = sized(t, m)
	out := m.View()
	assert.Contains(t, out, "Showing: 4/4")
	assert.Contains(t, out, "sql-concatenation")

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = press(t, m, "x")
	assert.False(t, m.showHelp)

	m = press(t, m, "e")
	assert.Contains(t, m.View(), "Export findings")
	m = press(t, m, "esc")
	assert.False(t, m.exportMenu)

	empty := sized(t, NewModel(nil, Options{}))
	assert.Contains(t, empty.View(), "No security issues found")

	m.scanning = true
	assert.Contains(t, m.View(), "Rescanning")
}

func TestInit(t *testing.T) {
	isolate(t)
	assert.NotNil(t, NewModel(nil, Options{}).Init())
}

func TestQuit(t *testing.T) {
	isolate(t)
	next, cmd := NewModel(sample(), Options{}).Update(key("q"))
	assert.True(t, next.(Model).quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}
