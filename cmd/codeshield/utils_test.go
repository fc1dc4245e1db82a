package codeshield

import (
	"path/filepath"
	"testing"

	"github.com/codeshield/codeshield/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickPrecedence(t *testing.T) {
	local, global := "local", "global"
	assert.Equal(t, "cli", pickString("cli", &local, &global))
	assert.Equal(t, "local", pickString("", &local, &global))
	assert.Equal(t, "global", pickString("", nil, &global))
	assert.Equal(t, "", pickString("", nil, nil))

	l, g := 4, 8
	assert.Equal(t, 4, pickInt(0, &l, &g))
	assert.Equal(t, 8, pickInt(0, nil, &g))

	var lb, gb int64 = 0, 10
	assert.Equal(t, int64(10), pickInt64(0, &lb, &gb))

	no := false
	assert.True(t, pickBool(true, &no, nil))
	assert.False(t, pickBool(false, &no, boolPtr(true)))
	assert.True(t, pickBool(false, nil, boolPtr(true)))
}

func TestValidateFailOn(t *testing.T) {
	for _, v := range []string{"", "none", "NONE", "critical", "High", "moderate", "low"} {
		assert.NoError(t, validateFailOn(v), v)
	}
	assert.Error(t, validateFailOn("severe"))
}

func TestEnvEntries(t *testing.T) {
	fix := func(env string) *types.AutofixSuggestion { return &types.AutofixSuggestion{EnvExample: env} }
	got := envEntries([]types.Finding{
		{Autofix: fix("PASSWORD=your_password_here")},
		{},
		{Autofix: fix("API_KEY=your_api_key_here")},
		{Autofix: fix("PASSWORD=your_password_here")},
	})
	assert.Equal(t, []string{"PASSWORD=your_password_here", "API_KEY=your_api_key_here"}, got)
}

func TestResolveRulesRelativeToLocalConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".codeshield.yml", "rules: policy/rules.yml\nmax_bytes: -1\nskip_dirs: [fixtures]\nskip_extensions: [CSV]\n")
	set, err := resolve(dir, scanFlags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "policy", "rules.yml"), set.Rules)
	assert.Equal(t, int64(0), set.Opts.MaxBytes)
	assert.True(t, set.Opts.SkipDirs["fixtures"])
	assert.True(t, set.Opts.SkipDirs[".git"])
	assert.True(t, set.Opts.SkipExtensions[".csv"])
	assert.Equal(t, defaultBaseline, set.Baseline)
}
