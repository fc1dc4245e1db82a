package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeshield/codeshield/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "result = eval(user_formula)\n")
	writeFile(t, dir, "db.py", `q = "SELECT * FROM t WHERE id = '" + uid + "'"`+"\n")
	writeFile(t, dir, "ok.py", "x = 1\n")

	res, err := ScanWithStats(context.Background(), Config{Root: dir, Threads: 2})
	require.NoError(t, err)
	assert.Len(t, res.Findings, 2)
	assert.Equal(t, 3, res.FilesScanned)
	assert.Empty(t, res.Warnings)
	assert.True(t, ShouldFail(res.Findings, ""))
	assert.False(t, ShouldFail(res.Findings, "none"))
}

func TestScanEnableDisable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "password = \"supersecretpw123\"\nresult = eval(x)\n")

	fs, err := Scan(Config{Root: dir, Enable: "secrets"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "secret", string(fs[0].Category))

	fs, err = Scan(Config{Root: dir, Disable: "secrets"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "eval", fs[0].Rule)
}

func TestScanCustomRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/app.py", "ACME = acme_live_9f8e7d6c5b4a3476\n")
	rulesFile := writeFile(t, dir, "rules.yml", `version: "1"
secrets:
  - id: acme_token
    name: ACME token
    pattern: 'acme_live_[0-9a-f]{16}'
    severity: high
`)
	fs, err := Scan(Config{Root: filepath.Join(dir, "src"), RulesFile: rulesFile, Enable: "secrets"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "acme_token", fs[0].Rule)

	_, err = Scan(Config{Root: dir, RulesFile: filepath.Join(dir, "missing.yml")})
	assert.Error(t, err)
}

func TestScanWithReport(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "ok.py", "def add(a, b):\n    return a + b\n")
	fs, text, err := ScanWithReport(Config{Root: p})
	require.NoError(t, err)
	assert.Empty(t, fs)
	assert.Contains(t, text, "NO SECURITY ISSUES FOUND")

	_, _, err = ScanWithReport(Config{Root: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestScanContentAndIDs(t *testing.T) {
	fs := ScanContent("eval(x)\n", "snippet.py")
	require.Len(t, fs, 1)
	assert.Equal(t, "snippet.py", fs[0].File)
	assert.Equal(t, []string{"secrets", "dangerous-functions", "sql-injection", "xss"}, DetectorIDs())
}

func TestMarshalRoundTrip(t *testing.T) {
	fs := ScanContent("password = \"supersecretpw123\"\n", "cfg.py")
	require.Len(t, fs, 1)
	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, fs))
	assert.NotContains(t, buf.String(), "supersecretpw123")
	got, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, fs, got)
}

func TestUnmarshalFindingsFromEnvelope(t *testing.T) {
	fs := ScanContent("result = eval(user_formula)\n", "calc.py")
	require.Len(t, fs, 1)
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, report.NewEnvelope("0.1.0", "1", 1, fs)))
	got, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, fs, got)

	_, err = UnmarshalFindings(bytes.NewBufferString(`{"findings": 3}`))
	assert.Error(t, err)

	buf.Reset()
	require.NoError(t, MarshalFindings(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
