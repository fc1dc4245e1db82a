package codeshield

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codeshield/codeshield/internal/audit"
	"github.com/codeshield/codeshield/internal/cache"
	"github.com/codeshield/codeshield/internal/config"
	"github.com/codeshield/codeshield/internal/detectors"
	"github.com/codeshield/codeshield/internal/report"
	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// no update checks and no user config while testing
	_ = os.Setenv("CI", "1")
	cfg, err := os.MkdirTemp("", "codeshield-config")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("XDG_CONFIG_HOME", cfg)
	code := m.Run()
	_ = os.RemoveAll(cfg)
	os.Exit(code)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type result struct {
	stdout, stderr string
	err            error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// vulnerableRepo holds one CRITICAL secret and one HIGH eval call.
func vulnerableRepo(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "password = \"supersecretpw123\"\nresult = eval(user_formula)\n")
	writeFile(t, dir, "README.md", "# demo\n")
	return dir
}

func decodeEnvelope(t *testing.T, s string) report.Envelope {
	t.Helper()
	var env report.Envelope
	require.NoError(t, json.Unmarshal([]byte(s), &env), s)
	return env
}

func TestScanJSON(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none")
	require.NoError(t, r.err, r.stderr)

	env := decodeEnvelope(t, r.stdout)
	assert.Equal(t, "codeshield", env.Tool)
	assert.Equal(t, rules.Version, env.RulesVersion)
	assert.Equal(t, 2, env.FilesScanned)
	assert.Equal(t, report.Counts{Critical: 1, High: 1, Total: 2}, env.Counts)
	require.Len(t, env.Findings, 2)
	assert.Equal(t, filepath.Join(dir, "app.py"), env.Findings[0].File)
	assert.Equal(t, types.CatSecret, env.Findings[0].Category)
	assert.NotContains(t, r.stdout, "supersecretpw123")
	assert.NotContains(t, r.stderr, "Scanning")
}

func TestScanFailPolicy(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "json")
	require.ErrorIs(t, r.err, errFailPolicy)

	r = execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "critical", "--disable", "secrets")
	require.NoError(t, r.err)
}

func TestScanWritesCacheAndHistory(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none")
	require.NoError(t, r.err)

	res, err := cache.LoadResults(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, rules.Version, res.RulesVersion)

	records, err := audit.New(dir).LoadHistory()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].TotalFindings)

	// state files are not scanned on the next run
	r = execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none")
	require.NoError(t, r.err)
	assert.Equal(t, 2, decodeEnvelope(t, r.stdout).Counts.Total)

	r = execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none", "--no-cache")
	require.NoError(t, r.err)
	records, err = audit.New(dir).LoadHistory()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestScanTextAndTable(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--fail-on", "none")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "TOTAL ISSUES FOUND: 2")
	assert.Contains(t, r.stdout, "Secret: supe********w123")
	assert.Contains(t, r.stderr, "Scanning "+dir+" with 4 detectors")

	r = execute(t, "", "scan", "-p", dir, "--format", "table", "--fail-on", "none")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "SEVERITY")
	assert.Contains(t, r.stdout, "Files scanned: 2")
}

func TestScanCleanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.py", "def add(a, b):\n    return a + b\n")
	r := execute(t, "", "scan", "-p", dir)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "NO SECURITY ISSUES FOUND")
}

func TestScanSARIFAndGitHub(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "sarif", "--fail-on", "none")
	require.NoError(t, r.err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	r = execute(t, "", "scan", "-p", dir, "--format", "github", "--fail-on", "none")
	require.NoError(t, r.err)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "::error file="), l)
	}
}

func TestScanStdin(t *testing.T) {
	r := execute(t, "result = eval(user_formula)\n", "scan", "-p", "-", "--stdin-name", "snippet.py", "--format", "json", "--fail-on", "none")
	require.NoError(t, r.err)
	env := decodeEnvelope(t, r.stdout)
	require.Len(t, env.Findings, 1)
	assert.Equal(t, "snippet.py", env.Findings[0].File)
	assert.Equal(t, 1, env.FilesScanned)

	r = execute(t, "", "scan", "-p", "-", "--tui")
	require.Error(t, r.err)
}

func TestScanRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	for name, args := range map[string][]string{
		"format":   {"--format", "xml"},
		"fail-on":  {"--fail-on", "severe"},
		"detector": {"--enable", "nope"},
		"empty":    {"--enable", "xss", "--disable", "xss"},
	} {
		t.Run(name, func(t *testing.T) {
			r := execute(t, "", append([]string{"scan", "-p", dir}, args...)...)
			require.Error(t, r.err)
			assert.NotErrorIs(t, r.err, errFailPolicy)
		})
	}

	r := execute(t, "", "scan", "-p", filepath.Join(dir, "missing"))
	require.Error(t, r.err)
}

func TestScanEnableOnlySecrets(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none", "--enable", "secrets")
	require.NoError(t, r.err)
	env := decodeEnvelope(t, r.stdout)
	require.Len(t, env.Findings, 1)
	assert.Equal(t, types.CatSecret, env.Findings[0].Category)
	assert.Contains(t, r.stderr, "detectors active: secrets")
}

func TestScanLocalConfig(t *testing.T) {
	dir := vulnerableRepo(t)
	writeFile(t, dir, ".codeshield.yml", "enable: dangerous-functions\nfail_on: none\n")
	r := execute(t, "", "scan", "-p", dir, "--format", "json")
	require.NoError(t, r.err)
	env := decodeEnvelope(t, r.stdout)
	require.Len(t, env.Findings, 1)
	assert.Equal(t, types.CatDangerousFunction, env.Findings[0].Category)

	// flags win over the file
	r = execute(t, "", "scan", "-p", dir, "--format", "json", "--enable", "secrets", "--fail-on", "high")
	require.ErrorIs(t, r.err, errFailPolicy)
	require.Len(t, decodeEnvelope(t, r.stdout).Findings, 1)
}

func TestScanCustomRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "ACME = acme_live_9f8e7d6c5b4a3476\n")
	rulesFile := writeFile(t, t.TempDir(), "rules.yml", `version: "1"
secrets:
  - id: acme_key
    name: Acme Key
    pattern: '(acme_live_[0-9a-f]{16})'
    severity: high
    description: Acme API key
    env_var: ACME_KEY
`)
	r := execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none", "--rules", rulesFile)
	require.NoError(t, r.err, r.stderr)
	env := decodeEnvelope(t, r.stdout)
	require.Len(t, env.Findings, 1)
	assert.Equal(t, "acme_key", env.Findings[0].Rule)
}

func TestBaselineUpdateSuppressesFindings(t *testing.T) {
	dir := vulnerableRepo(t)
	bl := filepath.Join(t.TempDir(), "baseline.json")
	r := execute(t, "", "baseline", "update", "-p", dir, "--baseline", bl)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "2 finding(s) accepted")

	r = execute(t, "", "scan", "-p", dir, "--format", "json", "--baseline", bl)
	require.NoError(t, r.err)
	env := decodeEnvelope(t, r.stdout)
	assert.Empty(t, env.Findings)

	writeFile(t, dir, "new.py", "exec(payload)\n")
	r = execute(t, "", "scan", "-p", dir, "--format", "json", "--baseline", bl)
	require.ErrorIs(t, r.err, errFailPolicy)
	env = decodeEnvelope(t, r.stdout)
	require.Len(t, env.Findings, 1)
	assert.Equal(t, filepath.Join(dir, "new.py"), env.Findings[0].File)
}

func TestReportFromCache(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "report", "-p", dir)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "run 'codeshield scan' first")

	require.NoError(t, execute(t, "", "scan", "-p", dir, "--no-cache=false", "--format", "json", "--fail-on", "none").err)
	// the cache is served even after the file is fixed
	writeFile(t, dir, "app.py", "x = 1\n")

	r = execute(t, "", "report", "-p", dir, "--format", "json")
	require.NoError(t, r.err)
	assert.Equal(t, 2, decodeEnvelope(t, r.stdout).Counts.Total)

	r = execute(t, "", "report", "-p", dir, "--fail-on", "high")
	require.ErrorIs(t, r.err, errFailPolicy)
	assert.Contains(t, r.stdout, "TOTAL ISSUES FOUND: 2")
	assert.Contains(t, r.stderr, "Last scan:")
}

func TestScanChangedFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	writeFile(t, dir, "old.py", "eval(a)\n")
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("old.py")
	require.NoError(t, err)
	_, err = wt.Commit("init", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	writeFile(t, dir, "new.py", "exec(b)\n")

	r := execute(t, "", "scan", "-p", dir, "--changed", "--format", "json", "--fail-on", "none")
	require.NoError(t, r.err, r.stderr)
	env := decodeEnvelope(t, r.stdout)
	require.Len(t, env.Findings, 1)
	assert.Equal(t, "exec", env.Findings[0].Rule)
	assert.NotEmpty(t, env.Commit)

	// state lives inside .git in a repository
	_, err = os.Stat(filepath.Join(dir, ".git", cache.FileName))
	assert.NoError(t, err)

	r = execute(t, "", "scan", "-p", t.TempDir(), "--changed")
	require.Error(t, r.err)
}

func TestFixEnv(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "fix", "env", "-p", dir, "--dry-run")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "(dry-run) would declare in .env.example: PASSWORD=")
	assert.NoFileExists(t, filepath.Join(dir, ".env.example"))

	r = execute(t, "", "fix", "env", "-p", dir)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Added .env to .gitignore")
	b, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "PASSWORD=")
	b, err = os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(b), ".env")

	r = execute(t, "", "fix", "env", "-p", dir)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "already declares")
	assert.NotContains(t, r.stdout, "Added .env")
}

func TestFixIgnore(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "fix", "ignore", "app.py", "-p", dir)
	require.NoError(t, r.err)
	r = execute(t, "", "fix", "ignore", "app.py", "-p", dir)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "already ignored")

	r = execute(t, "", "scan", "-p", dir, "--format", "json")
	require.NoError(t, r.err)
	assert.Empty(t, decodeEnvelope(t, r.stdout).Findings)
}

func TestHistory(t *testing.T) {
	dir := vulnerableRepo(t)
	r := execute(t, "", "history", "-p", dir)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "No scans recorded yet.")

	for range 2 {
		require.NoError(t, execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none").err)
	}
	r = execute(t, "", "history", "-p", dir)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "DURATION")

	r = execute(t, "", "history", "-p", dir, "--delete", "1")
	require.NoError(t, r.err)
	records, err := audit.New(dir).LoadHistory()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	r = execute(t, "", "history", "-p", dir, "--delete", "5")
	require.Error(t, r.err)
}

func TestConfigInit(t *testing.T) {
	out := filepath.Join(t.TempDir(), ".codeshield.yml")
	r := execute(t, "", "config", "init", "--output", out, "--preset", "code", "--fail-on", "medium")
	require.NoError(t, r.err)
	fc, err := config.LoadFile(out)
	require.NoError(t, err)
	require.NotNil(t, fc.Enable)
	assert.Equal(t, "dangerous-functions,sql-injection,xss", *fc.Enable)
	require.NotNil(t, fc.FailOn)
	assert.Equal(t, "medium", *fc.FailOn)
	assert.Nil(t, fc.Include)

	r = execute(t, "", "config", "init", "--output", out)
	require.Error(t, r.err)
	require.NoError(t, execute(t, "", "config", "init", "--output", out, "--force").err)

	r = execute(t, "", "config", "init", "--output", out, "--force", "--preset", "everything")
	require.Error(t, r.err)
}

func TestCIInit(t *testing.T) {
	dir := t.TempDir()
	for provider, file := range map[string]string{
		"github":    ".github/workflows/codeshield.yml",
		"gitlab":    ".gitlab-ci.yml",
		"bitbucket": "bitbucket-pipelines.yml",
		"azure":     "azure-pipelines.yml",
	} {
		r := execute(t, "", "ci", "init", "--provider", provider, "--dir", dir)
		require.NoError(t, r.err, provider)
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(file)))
		require.NoError(t, err)
		assert.Contains(t, string(b), "codeshield scan")
	}
	require.Error(t, execute(t, "", "ci", "init", "--provider", "jenkins", "--dir", dir).err)
	require.Error(t, execute(t, "", "ci", "init").err)
}

func TestUpload(t *testing.T) {
	var got report.Envelope
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none",
		"--upload", srv.URL, "--upload-token", "tok", "--no-upload-metadata")
	require.NoError(t, r.err)
	assert.Equal(t, "Bearer tok", auth)
	assert.Len(t, got.Findings, 2)
	assert.Empty(t, got.Repo)
	assert.NotContains(t, r.stderr, "upload warning")
}

func TestUploadFailureIsAWarning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := vulnerableRepo(t)
	r := execute(t, "", "scan", "-p", dir, "--format", "json", "--fail-on", "none", "--upload", srv.URL)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "upload warning: upload status 500")
}

func TestDetectorsAndRules(t *testing.T) {
	r := execute(t, "", "detectors")
	require.NoError(t, r.err)
	assert.Equal(t, strings.Join(detectors.IDs(), "\n")+"\n", r.stdout)

	r = execute(t, "", "rules")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Rules version: "+rules.Version)
	assert.Contains(t, r.stdout, "generic_password")
	assert.Contains(t, r.stdout, "eval()")
	assert.Contains(t, r.stdout, "sql-concatenation")
	assert.Contains(t, r.stdout, "xss-raw-response")
}

func TestCompletion(t *testing.T) {
	r := execute(t, "", "completion", "bash")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "codeshield")
	require.Error(t, execute(t, "", "completion", "tcsh").err)
}
