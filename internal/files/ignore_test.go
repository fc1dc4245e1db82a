package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIgnore_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")

	added, err := AppendIgnore(dir, ".env")
	require.NoError(t, err)
	assert.True(t, added)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, ".env\n", string(b))

	added, err = AppendIgnore(dir, ".env")
	require.NoError(t, err)
	assert.False(t, added)
	b, _ = os.ReadFile(p)
	assert.Equal(t, ".env\n", string(b))
}

func TestAppendIgnore_MissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(p, []byte("dist/"), 0o644))
	_, err := AppendIgnore(dir, ".env")
	require.NoError(t, err)
	b, _ := os.ReadFile(p)
	assert.Equal(t, "dist/\n.env\n", string(b))
}

func TestEnsureEnvExample(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env.example")
	require.NoError(t, os.WriteFile(p, []byte("# settings\nexport PASSWORD=x"), 0o644))

	added, err := EnsureEnvExample(dir, []string{
		"PASSWORD=your_password_here",
		"STRIPE_SECRET_KEY=your_stripe_secret_key_here",
		"STRIPE_SECRET_KEY=dupe",
		"not an entry",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"STRIPE_SECRET_KEY=your_stripe_secret_key_here"}, added)
	b, _ := os.ReadFile(p)
	assert.Equal(t, "# settings\nexport PASSWORD=x\nSTRIPE_SECRET_KEY=your_stripe_secret_key_here\n", string(b))

	added, err = EnsureEnvExample(dir, []string{"STRIPE_SECRET_KEY=again"})
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestAppendPattern(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".codeshieldignore")
	added, err := AppendPattern(p, "gen/")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = AppendPattern(p, "gen/")
	require.NoError(t, err)
	assert.False(t, added)
}
