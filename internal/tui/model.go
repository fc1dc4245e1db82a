package tui

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/types"
)

var (
	paneBorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	sevStyles = map[types.Severity]lipgloss.Style{
		types.SevCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		types.SevHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		types.SevMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		types.SevLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

const defaultStatus = "q: quit | ?: help | /: search | 1-4: severity | o: open | c: copy fix | b: baseline | i: ignore"

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	if s == types.SevCritical {
		return "CRIT"
	}
	if s == types.SevMedium {
		return "MED"
	}
	return string(s)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// Options configures a viewer session.
type Options struct {
	Root         string          // scan root; ignore patterns are written relative to it
	Baseline     report.Baseline // findings in here are marked (b)
	BaselinePath string
	Rescan       func() ([]types.Finding, error)
	ScannedAt    time.Time
	Cached       bool // results came from the last-scan cache
}

// Model is the bubbletea model of the findings viewer.
type Model struct {
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model

	opts      Options
	prefs     Prefs
	findings  []types.Finding
	display   []int // indices into findings after filter and sort
	baselined map[string]bool

	ready      bool
	quitting   bool
	scanning   bool
	showHelp   bool
	exportMenu bool
	width      int
	height     int

	statusMessage string
	statusTimeout *time.Time

	searchMode     bool
	searchInput    textinput.Model
	searchQuery    string
	severityFilter types.Severity

	sortColumn  string
	sortReverse bool
}

// Sort columns cycled by 's'.
const (
	SortDefault  = ""
	SortSeverity = "severity"
	SortFile     = "file"
	SortCategory = "category"
)

// NewModel builds a viewer over findings.
func NewModel(findings []types.Finding, opts Options) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 8},
		{Title: "Category", Width: 20},
		{Title: "File", Width: 40},
		{Title: "Line", Width: 6},
		{Title: "Rule", Width: 24},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search file, rule, category or message..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "

	if opts.ScannedAt.IsZero() {
		opts.ScannedAt = time.Now()
	}
	if opts.BaselinePath == "" {
		opts.BaselinePath = "codeshield.baseline.json"
	}
	baselined := map[string]bool{}
	for k, v := range opts.Baseline.Items {
		baselined[k] = v
	}

	m := Model{
		table:         t,
		spinner:       sp,
		searchInput:   ti,
		opts:          opts,
		prefs:         LoadPrefs(),
		findings:      findings,
		baselined:     baselined,
		statusMessage: defaultStatus,
	}
	m.applyFilters()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

type findingsMsg []types.Finding

type statusMsg string

func (m *Model) setStatus(msg string, d time.Duration) {
	timeout := time.Now().Add(d)
	m.statusTimeout = &timeout
	m.statusMessage = msg
}

func (m *Model) rescan() tea.Cmd {
	fn := m.opts.Rescan
	return func() tea.Msg {
		if fn == nil {
			return statusMsg("Rescan not available")
		}
		found, err := fn()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return findingsMsg(found)
	}
}

func (m *Model) isBaselined(f types.Finding) bool {
	return m.baselined[f.Fingerprint()]
}

func (m *Model) matches(f types.Finding) bool {
	if m.severityFilter != "" && f.Severity != m.severityFilter {
		return false
	}
	if m.searchQuery == "" {
		return true
	}
	q := strings.ToLower(m.searchQuery)
	for _, s := range []string{f.File, f.Rule, string(f.Category), f.Message} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// applyFilters recomputes the displayed rows from the filter and sort state.
func (m *Model) applyFilters() {
	m.display = nil
	for i, f := range m.findings {
		if m.matches(f) {
			m.display = append(m.display, i)
		}
	}
	if m.sortColumn != SortDefault {
		sort.SliceStable(m.display, func(i, j int) bool {
			a, b := m.findings[m.display[i]], m.findings[m.display[j]]
			if m.sortReverse {
				a, b = b, a
			}
			switch m.sortColumn {
			case SortSeverity:
				return a.Severity.Rank() > b.Severity.Rank()
			case SortFile:
				return strings.ToLower(a.File) < strings.ToLower(b.File)
			case SortCategory:
				return a.Category < b.Category
			}
			return false
		})
	}

	rows := make([]table.Row, len(m.display))
	for i, idx := range m.display {
		f := m.findings[idx]
		sev := severityText(f.Severity)
		if m.isBaselined(f) {
			sev = "(b) " + sev
		}
		rows[i] = table.Row{sev, string(f.Category), f.File, strconv.Itoa(f.Line), f.Rule}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
	m.updateViewportContent()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.severityFilter = ""
	m.applyFilters()
}

func (m *Model) cycleSortColumn() {
	switch m.sortColumn {
	case SortDefault:
		m.sortColumn = SortSeverity
	case SortSeverity:
		m.sortColumn = SortFile
	case SortFile:
		m.sortColumn = SortCategory
	default:
		m.sortColumn = SortDefault
	}
	m.sortReverse = false
	m.applyFilters()
}

// selected returns the finding under the cursor.
func (m *Model) selected() *types.Finding {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.display) {
		return nil
	}
	return &m.findings[m.display[c]]
}

// jumpToSeverity moves to the next displayed finding at or above sev.
func (m *Model) jumpToSeverity(sev types.Severity, direction int) bool {
	n := len(m.display)
	if n == 0 {
		return false
	}
	cur := m.table.Cursor()
	for i := 1; i <= n; i++ {
		idx := ((cur+direction*i)%n + n) % n
		if m.findings[m.display[idx]].Severity.Rank() >= sev.Rank() {
			m.table.SetCursor(idx)
			m.updateViewportContent()
			return true
		}
	}
	return false
}

func readFileContext(path string, target, around int) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	start := target - around
	if start < 1 {
		start = 1
	}
	end := target + around
	var lines []string
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		if n > end {
			break
		}
		if n >= start {
			lines = append(lines, sc.Text())
		}
	}
	return lines, start, sc.Err()
}

func lexerFor(filename string) chroma.Lexer {
	l := lexers.Match(filename)
	if l == nil {
		if ext := filepath.Ext(filename); ext != "" {
			l = lexers.Match("file" + ext)
		}
	}
	return l
}

// highlight renders code with terminal colours. Unknown languages and
// formatter errors return code unchanged.
func highlight(code, filename string) string {
	lexer := lexerFor(filename)
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, it); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// fixFilename gives chroma a file name whose extension matches the language
// of an autofix snippet.
func fixFilename(lang string) string {
	switch strings.ToLower(lang) {
	case "python":
		return "fix.py"
	case "javascript":
		return "fix.js"
	case "typescript":
		return "fix.ts"
	case "go":
		return "fix.go"
	case "java":
		return "Fix.java"
	case "ruby":
		return "fix.rb"
	case "php":
		return "fix.php"
	case "c#":
		return "fix.cs"
	case "rust":
		return "fix.rs"
	case "shell":
		return "fix.sh"
	}
	return "fix.txt"
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	f := m.selected()
	if f == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.detail(*f))
}

func (m *Model) detail(f types.Finding) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Finding Details") + "\n\n")
	if m.isBaselined(f) {
		b.WriteString(dimStyle.Italic(true).Render("BASELINED: known and accepted.") + "\n\n")
	}
	sev := sevStyles[f.Severity].Render(string(f.Severity))
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("File:"), f.File)
	fmt.Fprintf(&b, "%s %d", keyStyle.Render("Line:"), f.Line)
	if f.Column > 0 {
		fmt.Fprintf(&b, "  %s %d", keyStyle.Render("Column:"), f.Column)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n", keyStyle.Render("Severity:"), sev,
		keyStyle.Render("Category:"), f.Category, keyStyle.Render("Rule:"), f.Rule)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Issue:"), f.Message)
	if f.MaskedValue != "" {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Secret:"), f.MaskedValue)
	}
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Fix:"), f.Recommendation)

	around := m.prefs.ContextLines
	fmt.Fprintf(&b, "\n%s%s\n", keyStyle.Render("Context:"),
		dimStyle.Render(fmt.Sprintf(" (+/- to change, %d lines)", around*2+1)))
	lines, start, err := readFileContext(f.File, f.Line, around)
	if err != nil || len(lines) == 0 {
		// masked snippet is all we have for content scans or moved files
		b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render(fmt.Sprintf("%4d", f.Line)), f.CodeSnippet))
	} else {
		mark := lipgloss.NewStyle().Background(lipgloss.Color("236"))
		for i, l := range lines {
			n := start + i
			num := dimStyle.Render(fmt.Sprintf("%4d ", n))
			if n == f.Line {
				// the raw line may hold the secret: show the masked snippet instead
				if f.MaskedValue != "" {
					l = f.CodeSnippet
				}
				b.WriteString(num + mark.Render(highlight(l, f.File)) + "\n")
				continue
			}
			b.WriteString(num + highlight(l, f.File) + "\n")
		}
	}

	if a := f.Autofix; a != nil && m.prefs.ShowAutofix {
		fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("Autofix ("+a.Language+")"))
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Risk:"), a.Risk)
		for i, s := range a.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
		fmt.Fprintf(&b, "\n%s %s\n", keyStyle.Render("Secure code:"), dimStyle.Render("(c to copy)"))
		b.WriteString(highlight(a.FixCode, fixFilename(a.Language)) + "\n")
		fmt.Fprintf(&b, "\n%s %s\n", keyStyle.Render(".env:"), a.EnvExample)
	}
	return b.String()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.exportMenu {
			m.exportMenu = false
			switch msg.String() {
			case "1", "j":
				return m, m.exportFindings("json")
			case "2", "s":
				return m, m.exportFindings("sarif")
			}
			return m, nil
		}
		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.searchInput.SetValue("")
				m.searchQuery = ""
				m.applyFilters()
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "/":
			m.searchMode = true
			m.searchInput.SetValue(m.searchQuery)
			m.searchInput.Focus()
			return m, textinput.Blink
		case "1", "2", "3", "4":
			sev := types.Severities[msg.String()[0]-'1']
			m.severityFilter = sev
			m.applyFilters()
			m.setStatus(fmt.Sprintf("Showing %s severity only (Esc to clear)", sev), 3*time.Second)
			return m, nil
		case "esc":
			if m.searchQuery != "" || m.severityFilter != "" {
				m.clearFilters()
				m.setStatus("Filters cleared", 3*time.Second)
			}
			return m, nil
		case "s":
			m.cycleSortColumn()
			if m.sortColumn == SortDefault {
				m.setStatus("Sorted by scan order", 3*time.Second)
			} else {
				m.setStatus("Sorted by "+m.sortColumn, 3*time.Second)
			}
			return m, nil
		case "S":
			if m.sortColumn != SortDefault {
				m.sortReverse = !m.sortReverse
				m.applyFilters()
			}
			return m, nil
		case "n":
			if !m.jumpToSeverity(types.SevHigh, 1) {
				m.setStatus("No HIGH or CRITICAL findings", 3*time.Second)
			}
			return m, nil
		case "N":
			if !m.jumpToSeverity(types.SevHigh, -1) {
				m.setStatus("No HIGH or CRITICAL findings", 3*time.Second)
			}
			return m, nil
		case "+", "=":
			if m.prefs.ContextLines < 20 {
				m.prefs.ContextLines++
				_ = SavePrefs(m.prefs)
				m.updateViewportContent()
			}
			return m, nil
		case "-":
			if m.prefs.ContextLines > 0 {
				m.prefs.ContextLines--
				_ = SavePrefs(m.prefs)
				m.updateViewportContent()
			}
			return m, nil
		case "a":
			m.prefs.ShowAutofix = !m.prefs.ShowAutofix
			_ = SavePrefs(m.prefs)
			m.updateViewportContent()
			return m, nil
		case "o", "enter":
			return m, m.openEditor()
		case "y":
			return m, m.copyPath()
		case "Y":
			return m, m.copyFinding()
		case "c":
			return m, m.copyFix()
		case "b":
			return m, m.addToBaseline()
		case "i":
			return m, m.ignoreFile()
		case "e":
			if len(m.display) > 0 {
				m.exportMenu = true
			}
			return m, nil
		case "r":
			if m.scanning {
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.rescan())
		case "g", "home":
			m.table.GotoTop()
			m.updateViewportContent()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			m.updateViewportContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		fileWidth := m.width - 8 - 20 - 6 - 24 - 14
		if fileWidth < 20 {
			fileWidth = 20
		}
		cols := m.table.Columns()
		cols[2].Width = fileWidth
		m.table.SetColumns(cols)

		available := m.height - 2
		tableHeight := available * 2 / 5
		vpHeight := available - tableHeight - paneBorderStyle.GetVerticalFrameSize()*2
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, vpHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.updateViewportContent()

	case findingsMsg:
		m.findings = msg
		m.scanning = false
		m.opts.Cached = false
		m.opts.ScannedAt = time.Now()
		m.applyFilters()
		m.setStatus(fmt.Sprintf("Rescan complete - %d finding(s)", len(m.findings)), 5*time.Second)
		return m, nil

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg), 3*time.Second)
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = defaultStatus
		}
		return m, spinCmd
	}

	if !m.quitting && len(m.display) > 0 {
		m.table, cmd = m.table.Update(msg)
		m.updateViewportContent()
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(50).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s  Rescanning...\n\nPlease wait", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText()))
	}
	if m.exportMenu {
		box := popupStyle.Render(titleStyle.Render("Export findings") + "\n\n1  JSON\n2  SARIF\n\nEsc  cancel")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	var visible []types.Finding
	for _, i := range m.display {
		visible = append(visible, m.findings[i])
	}
	c := report.Count(visible)
	var stats string
	if len(m.findings) == 0 {
		stats = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("[OK] No security issues found")
	} else {
		stats = fmt.Sprintf("Showing: %d/%d  |  %s %d  %s %d  %s %d  %s %d",
			len(visible), len(m.findings),
			sevStyles[types.SevCritical].Render("Critical:"), c.Critical,
			sevStyles[types.SevHigh].Render("High:"), c.High,
			sevStyles[types.SevMedium].Render("Medium:"), c.Medium,
			sevStyles[types.SevLow].Render("Low:"), c.Low)
		if m.searchQuery != "" {
			stats += fmt.Sprintf("  [search:'%s']", m.searchQuery)
		}
		if m.severityFilter != "" {
			stats += fmt.Sprintf("  [sev:%s]", m.severityFilter)
		}
		if m.sortColumn != SortDefault {
			arrow := "^"
			if m.sortReverse {
				arrow = "v"
			}
			stats += fmt.Sprintf("  [%s %s]", m.sortColumn, arrow)
		}
	}
	header := lipgloss.NewStyle().Width(m.width).Padding(0, 2).
		Foreground(lipgloss.Color("15")).Background(lipgloss.Color("237")).Render(stats)

	tableView := paneBorderStyle.Width(m.width).Render(m.table.View())

	var detail string
	if len(m.display) == 0 {
		msg := "No security issues to review.\n\nPress 'r' to rescan"
		if len(m.findings) > 0 {
			msg = "No findings match the filter.\n\nPress 'Esc' to clear"
		}
		detail = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(msg))
	} else {
		detail = m.viewport.View()
	}
	detailView := paneBorderStyle.Width(m.width).Height(m.viewport.Height).Render(detail)

	var bottom string
	if m.searchMode {
		bottom = lipgloss.NewStyle().Background(lipgloss.Color("235")).Width(m.width).Padding(0, 1).
			Render(m.searchInput.View() + fmt.Sprintf(" (%d matches)", len(m.display)))
	} else {
		when := "Scanned: " + formatDuration(time.Since(m.opts.ScannedAt)) + " ago"
		if m.opts.Cached {
			when = "Cached: " + m.opts.ScannedAt.Format("Jan 2, 15:04")
		}
		spacer := m.width - 4 - lipgloss.Width(m.statusMessage) - lipgloss.Width(when)
		if spacer < 1 {
			spacer = 1
		}
		bottom = statusStyle.Width(m.width).Padding(0, 2).Render(m.statusMessage + strings.Repeat(" ", spacer) + when)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, tableView, detailView, bottom)
}

func helpText() string {
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	row := func(key, desc string) string {
		return "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(fmt.Sprintf("%-10s", key)) + desc
	}
	lines := []string{
		titleStyle.Render("Keyboard Shortcuts"), "",
		section.Render("Navigation"),
		row("j / k", "Move down / up"),
		row("g / G", "First / last row"),
		row("n / N", "Next / prev HIGH or CRITICAL"), "",
		section.Render("Filter"),
		row("/", "Search"),
		row("1-4", "CRITICAL / HIGH / MEDIUM / LOW only"),
		row("s / S", "Sort / reverse sort"),
		row("Esc", "Clear filters"), "",
		section.Render("Details"),
		row("+ / -", "More / less context"),
		row("a", "Toggle autofix"), "",
		section.Render("Actions"),
		row("o", "Open in $EDITOR"),
		row("y / Y", "Copy path / finding"),
		row("c", "Copy secure code"),
		row("b", "Add to baseline"),
		row("i", "Ignore file"),
		row("e", "Export"),
		row("r", "Rescan"),
		row("q", "Quit"),
	}
	return strings.Join(lines, "\n")
}
