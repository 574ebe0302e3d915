package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("FAILOVER_TEST_CATALOG", "/etc/failover/classes.yaml")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog: ${FAILOVER_TEST_CATALOG}
supervisor:
  inherit_default_failover: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/failover/classes.yaml", cfg.Catalog)
	assert.True(t, cfg.Supervisor.InheritDefaultFailover)
	assert.Equal(t, 16, cfg.Supervisor.MaxDepth)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(missing)
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
logging: {level: debug}
supervisor: {max_depth: -1}
metrics: {print: true}
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalog, cfg.Catalog)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Print)

	sc := cfg.SupervisorConfig()
	assert.Equal(t, -1, sc.MaxDepth)
	assert.False(t, sc.InheritDefaultFailover)
	assert.NotNil(t, sc.Logger)

	_, err = Parse([]byte("supervisor: [1, 2]"))
	require.ErrorContains(t, err, "failed to parse config file")
}
