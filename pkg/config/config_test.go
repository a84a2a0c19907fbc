package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"SLACK_SIGNING_SECRET": "secret",
		"SLACK_USER_TOKEN":     "xoxp-token",
	}))
	require.NoError(t, err)

	assert.Equal(t, "neecathon.db", cfg.SQLiteFilename)
	assert.Equal(t, 8888, cfg.ServerPort)
	assert.Equal(t, 100, cfg.QueueCapacity)
	assert.Equal(t, "200", cfg.InitialBalance.String())
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 60*time.Second, cfg.TimestampMaxGap)
	assert.Equal(t, "t_", cfg.TeamChannelPrefix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestFromEnvMissingRequired(t *testing.T) {
	_, err := FromEnv(envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_SIGNING_SECRET")
	assert.Contains(t, err.Error(), "SLACK_USER_TOKEN")
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"SLACK_SIGNING_SECRET":      "secret",
		"SLACK_USER_TOKEN":          "xoxp-token",
		"NEECATHON_SERVER_PORT":     "9000",
		"NEECATHON_QUEUE_CAPACITY":  "5",
		"NEECATHON_INITIAL_BALANCE": "150.50",
		"NEECATHON_COMMAND_TIMEOUT": "5",
		"SLACK_TIMESTAMP_MAX_GAP":   "2m",
		"NEECATHON_DEBUG":           "yes",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 5, cfg.QueueCapacity)
	assert.Equal(t, "150.5", cfg.InitialBalance.String())
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 2*time.Minute, cfg.TimestampMaxGap)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	base := map[string]string{
		"SLACK_SIGNING_SECRET": "secret",
		"SLACK_USER_TOKEN":     "xoxp-token",
	}
	for k, v := range map[string]string{
		"NEECATHON_SERVER_PORT":     "eighty",
		"NEECATHON_QUEUE_CAPACITY":  "0",
		"NEECATHON_INITIAL_BALANCE": "-1",
		"NEECATHON_COMMAND_TIMEOUT": "soon",
	} {
		env := map[string]string{k: v}
		for bk, bv := range base {
			env[bk] = bv
		}
		_, err := FromEnv(envMap(env))
		assert.Error(t, err, "%s=%s", k, v)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SLACK_SIGNING_SECRET=from-file\nSLACK_USER_TOKEN=xoxp-file\n"), 0o600))

	t.Setenv("NEECATHON_ENV_FILE", path)
	t.Setenv("SLACK_USER_TOKEN", "xoxp-env")
	// godotenv.Load sets variables process-wide; make sure the test cleans up.
	t.Setenv("SLACK_SIGNING_SECRET", "")
	require.NoError(t, os.Unsetenv("SLACK_SIGNING_SECRET"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SigningSecret)
	assert.Equal(t, "xoxp-env", cfg.SlackUserToken)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	t.Setenv("NEECATHON_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("SLACK_USER_TOKEN", "xoxp-token")

	_, err := Load()
	assert.NoError(t, err)
}
