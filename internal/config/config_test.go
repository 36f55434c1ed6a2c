package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kynaruniverse/Unearth/internal/engine"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"UNEARTH_DB", "UNEARTH_LOG_MODE", "UNEARTH_LOG_LEVEL", "UNEARTH_CHALLENGE_TARGET", "UNEARTH_LEVEL_UP_MODE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_path: /data/unearth.db
log:
  mode: dev
  level: debug
progression:
  challenge_target: 5
  level_up_mode: single
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/unearth.db", cfg.DBPath)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Progression.ChallengeTarget)

	opts := cfg.EngineOptions()
	assert.Equal(t, 5, opts.ChallengeTarget)
	assert.Equal(t, engine.LevelUpSingle, opts.LevelUpMode)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "progression:\n  challenge_target: 5\n")

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("UNEARTH_CHALLENGE_TARGET", "7")
		t.Setenv("UNEARTH_DB", "/tmp/env.db")
		t.Setenv("UNEARTH_LOG_LEVEL", "info")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Progression.ChallengeTarget)
		assert.Equal(t, "/tmp/env.db", cfg.DBPath)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "prod", cfg.Log.Mode)
	})

	t.Run("unset env keeps file values", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Progression.ChallengeTarget)
	})
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "progression:\n  level_up_mode: twice\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  mode: verbose\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "progression: [nope"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "progression:\n  challenge_target: 0\n"))
	assert.Error(t, err)

	t.Setenv("UNEARTH_CHALLENGE_TARGET", "-1")
	_, err = Load("")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.DBPath = "/x.db"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "progression:\n  challenge_target: 5\n")
	t.Setenv("UNEARTH_DB", "/tmp/env.db")
	t.Setenv("UNEARTH_CHALLENGE_TARGET", "9")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, 5, cfg.Progression.ChallengeTarget)

	cfg, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
