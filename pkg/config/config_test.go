package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gignova/escrow/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "escrow.db", cfg.Database.Path)
	assert.Equal(t, int64(250), cfg.Platform.FeeBasisPoints)
	assert.Equal(t, "@every 10m", cfg.Audit.Schedule)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "escrow.db", cfg.Database.Path)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escrow.yaml")
	data := `
database:
  path: /var/lib/escrow/escrow.db
platform:
  owner: owner-1
  treasury: treasury-1
  fee_basis_points: 500
audit:
  schedule: "@every 5m"
log:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/escrow/escrow.db", cfg.Database.Path)
	assert.Equal(t, "owner-1", cfg.Platform.Owner)
	assert.Equal(t, "treasury-1", cfg.Platform.Treasury)
	assert.Equal(t, int64(500), cfg.Platform.FeeBasisPoints)
	assert.Equal(t, "@every 5m", cfg.Audit.Schedule)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_TreasuryDefaultsToOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform:\n  owner: owner-1\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", cfg.Platform.Treasury)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
