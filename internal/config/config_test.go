package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecutorConfigDefaults(t *testing.T) {
	t.Setenv("EXECUTOR_URL", "")
	t.Setenv("EXECUTOR_LANGUAGE_ID", "")
	t.Setenv("EXECUTOR_TIMEOUT_SEC", "")
	t.Setenv("EXECUTOR_ALLOWED_LANGUAGES", "")

	cfg := NewExecutorConfig()

	require.Equal(t, "https://judge0-ce.p.rapidapi.com", cfg.Url)
	require.Equal(t, 71, cfg.LanguageID)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.True(t, cfg.AllowedLangID.Contains(54))
}

func TestExecutorConfigAllowedLanguages(t *testing.T) {
	t.Setenv("EXECUTOR_URL", "http://judge0.local:2358/")
	t.Setenv("EXECUTOR_LANGUAGE_ID", "54")
	t.Setenv("EXECUTOR_ALLOWED_LANGUAGES", "71, 999,abc")

	cfg := NewExecutorConfig()

	require.Equal(t, "http://judge0.local:2358", cfg.Url)

	id, ok := cfg.ResolveLanguage(0)
	require.True(t, ok)
	require.Equal(t, 54, id)

	_, ok = cfg.ResolveLanguage(71)
	require.True(t, ok)

	_, ok = cfg.ResolveLanguage(62)
	require.False(t, ok)

	langs := cfg.AllowedLanguages()
	require.Len(t, langs, 3)
	require.Equal(t, 54, langs[0].ID)
	require.Equal(t, 71, langs[1].ID)
	require.Equal(t, 999, langs[2].ID)
	require.Equal(t, "unknown", langs[2].Name)
}

func TestRunSvcCfg(t *testing.T) {
	t.Setenv("RUN_TIMEOUT_SEC", "120")
	t.Setenv("RUN_LOCK_TTL_SEC", "-1")
	t.Setenv("RUN_STATE_TTL_SEC", "")
	t.Setenv("HISTORY_WRITE_TIMEOUT_SEC", "2")
	t.Setenv("RUN_PRUNE_INTERVAL_SEC", "abc")

	cfg := NewRunSvcCfg()

	require.Equal(t, 120*time.Second, cfg.RunTimeout)
	require.Equal(t, 300*time.Second, cfg.LockTTL)
	require.Equal(t, time.Hour, cfg.StateTTL)
	require.Equal(t, 2*time.Second, cfg.HistoryWriteTimeout)
	require.Equal(t, time.Minute, cfg.PruneInterval)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.env"), []byte("CODEPAD_TEST_VALUE=loaded\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { _ = os.Unsetenv("CODEPAD_TEST_VALUE") })

	require.NoError(t, LoadEnvFile("test"))
	require.Equal(t, "loaded", os.Getenv("CODEPAD_TEST_VALUE"))

	require.Error(t, LoadEnvFile("missing"))
}
