package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
terminal:
  id: term-1
  organization_id: org-1
  branch_id: branch-1
remote:
  base_url: https://central.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "term-1", cfg.Terminal.ID)
	assert.Equal(t, 10, cfg.Remote.AuthTimeoutSeconds)
	assert.Equal(t, 30, cfg.Remote.UploadTimeoutSeconds)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, 60, cfg.Sync.IntervalSeconds)
	assert.Equal(t, 300, cfg.Reservations.SweepIntervalSeconds)
	assert.Equal(t, 30, cfg.Reservations.MaxAgeMinutes)
	assert.True(t, cfg.UseMemoryStore())
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
terminal:
  id: term-1
  branch_id: branch-1
database:
  host: localhost
  port: 5432
remote:
  base_url: https://central.example.com
  auth_timeout_seconds: 5
sync:
  batch_size: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Remote.AuthTimeoutSeconds)
	assert.Equal(t, 25, cfg.Sync.BatchSize)
	assert.False(t, cfg.UseMemoryStore())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing terminal id",
			content: `
terminal:
  branch_id: branch-1
remote:
  base_url: https://central.example.com
`,
			wantErr: "terminal.id is required",
		},
		{
			name: "missing branch",
			content: `
terminal:
  id: term-1
remote:
  base_url: https://central.example.com
`,
			wantErr: "terminal.branch_id is required",
		},
		{
			name: "missing remote base url",
			content: `
terminal:
  id: term-1
  branch_id: branch-1
`,
			wantErr: "remote.base_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "terminal: [not a map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse yaml")
}

func TestSessionTokenFromEnv(t *testing.T) {
	t.Setenv("POS_SESSION_TOKEN", "session-abc")
	cfg := &Config{}
	assert.Equal(t, "session-abc", cfg.SessionToken())
}
