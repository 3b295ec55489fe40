package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Defaults(t *testing.T) {
	a, err := NewApp(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Cache)
	assert.NotNil(t, a.Client)
	assert.NotNil(t, a.Market)
	assert.NotNil(t, a.Scanner)
	assert.Equal(t, 8080, a.Config.Server.Port)
}

func TestNewApp_ScreenerSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marketcore.toml")
	content := `
[scanner]
source = "screener"
universe = ["AAPL", "MSFT"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := NewApp(path)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "screener", a.Config.Scanner.Source)
	assert.Equal(t, []string{"AAPL", "MSFT"}, a.Config.Scanner.Universe)
}
