package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSQLite(t *testing.T) {
	assert.True(t, isSQLite("sqlite:///tmp/newsdesk.db"))
	assert.False(t, isSQLite("postgresql://user@localhost/newsdesk"))
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "newsdesk version dev")
}

func TestLoadTaxonomy(t *testing.T) {
	builtin, err := loadTaxonomy("")
	require.NoError(t, err)
	assert.NotEmpty(t, builtin.Industries)

	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industries:\n  - name: 能源\n    keywords: [太陽能]\n"), 0o600))

	custom, err := loadTaxonomy(path)
	require.NoError(t, err)
	require.Len(t, custom.Industries, 1)
	assert.Equal(t, "能源", custom.Industries[0].Name)
	assert.Equal(t, []string{"太陽能"}, custom.Industries[0].Keywords)

	_, err = loadTaxonomy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedRelinkCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("DB_URL", "")
	t.Setenv("LOG_LEVEL", "ERROR")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"seed", "--env-file", filepath.Join(dir, "none.env")})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "created 6 industries and 30 keywords")

	out.Reset()
	cmd = rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"relink", "--env-file", filepath.Join(dir, "none.env")})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "relinked 0 articles")
}
