package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	require.Empty(t, s.Load())
	_, ok := s.Get("OPENAI_API_KEY", false)
	require.False(t, ok)
}

func TestSaveMerges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Pulse")
	s := NewStore(dir)

	_, err := s.Save(map[string]any{"OPENAI_API_KEY": "sk-first", "MT5_TERMINAL_PATH": `C:\MT5\terminal64.exe`})
	require.NoError(t, err)

	merged, err := s.Save(map[string]any{"OPENAI_API_KEY": "sk-second", "APIFY_API_KEY": "apify-token"})
	require.NoError(t, err)
	require.Equal(t, "sk-second", merged["OPENAI_API_KEY"])
	require.Equal(t, `C:\MT5\terminal64.exe`, merged["MT5_TERMINAL_PATH"])

	reloaded := NewStore(dir).Load()
	require.Equal(t, merged, reloaded)
	require.Equal(t, []string{"APIFY_API_KEY", "MT5_TERMINAL_PATH", "OPENAI_API_KEY"}, s.Keys())

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestGetFallsBackToEnv(t *testing.T) {
	s := NewStore(t.TempDir())
	t.Setenv("APIFY_API_KEY", "from-env")
	t.Setenv("MT5_TERMINAL_PATH", "/env/path")

	v, ok := s.Get("APIFY_API_KEY", true)
	require.True(t, ok)
	require.Equal(t, "from-env", v)

	_, ok = s.Get("MT5_TERMINAL_PATH", false)
	require.False(t, ok, "env must not be consulted without fallback")

	_, err := s.Save(map[string]any{"APIFY_API_KEY": "from-file", "MT5_TERMINAL_PATH": ""})
	require.NoError(t, err)

	v, ok = s.Get("APIFY_API_KEY", true)
	require.True(t, ok)
	require.Equal(t, "from-file", v)

	v, ok = s.Get("MT5_TERMINAL_PATH", true)
	require.True(t, ok, "empty stored value falls back")
	require.Equal(t, "/env/path", v)
}

func TestCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))
	s := NewStore(dir)
	require.Empty(t, s.Load())

	merged, err := s.Save(map[string]any{"A": "b"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"A": "b"}, merged)
}

func TestMasked(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Save(map[string]any{
		"OPENAI_API_KEY":    "sk-1234567890abcd",
		"APIFY_API_KEY":     "short",
		"EMPTY_API_KEY":     "",
		"MT5_TERMINAL_PATH": "/opt/mt5",
	})
	require.NoError(t, err)

	masked := s.Masked()
	require.Equal(t, "sk-1*********abcd", masked["OPENAI_API_KEY"])
	require.Equal(t, "***", masked["APIFY_API_KEY"])
	require.Equal(t, "", masked["EMPTY_API_KEY"])
	require.Equal(t, "/opt/mt5", masked["MT5_TERMINAL_PATH"])

	// the file keeps the real value
	v, _ := s.Get("OPENAI_API_KEY", false)
	require.Equal(t, "sk-1234567890abcd", v)
}

func TestMask(t *testing.T) {
	require.Equal(t, "***", Mask("12345678"))
	require.Equal(t, "1234*6789", Mask("123456789"))
}
