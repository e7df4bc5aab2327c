package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewiweb/docserver/internal/config"
)

func TestFlagsOverrideDefaults(t *testing.T) {
	v := viper.New()
	cmd := newRootCmd(v)
	require.NoError(t, cmd.ParseFlags([]string{
		"--port", "9000",
		"--document-root", "handbook",
		"--mockup-prefix", "handbook/ui",
		"--mockup-prefix", "handbook/target",
		"--legacy-status-codes",
	}))

	cfg := config.Load(v)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "handbook", cfg.DocumentRoot)
	assert.Equal(t, []string{"handbook/ui", "handbook/target"}, cfg.MockupPrefixes)
	assert.True(t, cfg.LegacyStatusCodes)
	assert.Equal(t, []string{"node_modules", "vendor"}, cfg.Exclude)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("document_root: manual\nmockup_prefixes:\n  - manual/screens\nlog_level: warn\n"), 0o644))

	v := viper.New()
	newRootCmd(v)
	require.NoError(t, readConfigFile(v, path))

	cfg := config.Load(v)
	assert.Equal(t, "manual", cfg.DocumentRoot)
	assert.Equal(t, []string{"manual/screens"}, cfg.MockupPrefixes)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestReadConfigFile_ExplicitMissingFileFails(t *testing.T) {
	v := viper.New()
	newRootCmd(v)
	assert.Error(t, readConfigFile(v, filepath.Join(t.TempDir(), "nope.yaml")))
}
