package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/lifecycle"
	"github.com/bnema/ephemera/internal/usecase/wait"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ephemera.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/state/ephemera/containers", cfg.Logging.Containers.Dir)
	assert.Equal(t, wait.DefaultPolicy, cfg.WaitPolicy())
	assert.Equal(t, lifecycle.DefaultStopTimeout, cfg.Stop.Timeout)
	assert.Equal(t, lifecycle.DefaultTeardownTimeout, cfg.Teardown.Timeout)
	assert.Equal(t, 100, cfg.Events.BufferSize)
	assert.False(t, cfg.Telemetry.Enabled)

	policy, err := cfg.PullPolicy()
	require.NoError(t, err)
	assert.Equal(t, domain.PullMissing, policy)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
[docker]
host = "tcp://10.0.0.5:2375"

[wait]
timeout = "15s"
poll_interval = "250ms"

[pull]
policy = "always"

[ports]
bind_address = "127.0.0.1"

[logging.containers]
dir = "/var/log/ephemera"
split_streams = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://10.0.0.5:2375", cfg.Docker.Host)
	assert.Equal(t, 15*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.WaitPolicy().PollInterval)
	assert.Equal(t, wait.DefaultPolicy.MaxInterval, cfg.WaitPolicy().MaxInterval)
	assert.Equal(t, "127.0.0.1", cfg.Ports.BindAddress)
	assert.Equal(t, "/var/log/ephemera", cfg.Logging.Containers.Dir)
	assert.True(t, cfg.Logging.Containers.SplitStreams)

	policy, err := cfg.PullPolicy()
	require.NoError(t, err)
	assert.Equal(t, domain.PullAlways, policy)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[wait]
timeout = "15s"

[stop]
timeout = "3s"
`)
	t.Setenv("EPHEMERA_WAIT_TIMEOUT", "90s")
	t.Setenv("EPHEMERA_PULL_POLICY", "never")
	t.Setenv("EPHEMERA_SESSION_ID", "ci-run-42")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Stop.Timeout)
	assert.Equal(t, "never", cfg.Pull.Policy)
	assert.Equal(t, "ci-run-42", cfg.Session.ID)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown pull policy",
			content: "[pull]\npolicy = \"sometimes\"\n",
			want:    "pull.policy",
		},
		{
			name:    "shrinking backoff",
			content: "[wait]\nmultiplier = 0.5\n",
			want:    "wait.multiplier",
		},
		{
			name:    "poll slower than cap",
			content: "[wait]\npoll_interval = \"5s\"\nmax_interval = \"1s\"\n",
			want:    "wait.poll_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
