package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbernhard/flow-cumulants/internal/config"
	"github.com/jbernhard/flow-cumulants/internal/reader"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("flowcum", pflag.ContinueOnError)
	registerFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("harmonics: \"2:6\"\nmax_order: 6\nprecision: 4\n"), 0o644))

	cfg, err := resolveConfig(parseFlags(t,
		"--config", path,
		"--max-order", "4",
		"--with-error",
	))
	require.NoError(t, err)

	assert.Equal(t, "2:6", cfg.Harmonics, "file value survives")
	assert.Equal(t, 4, cfg.MaxOrder, "explicit flag wins over file")
	assert.True(t, cfg.WithError)
	assert.Equal(t, 4, cfg.Precision, "file value survives")
	assert.Equal(t, config.FormatPhi, cfg.Format, "untouched default")
}

func TestResolveConfig_RejectsInvalid(t *testing.T) {
	_, err := resolveConfig(parseFlags(t, "--max-order", "5"))
	assert.Error(t, err)
}

func TestNewSource_Formats(t *testing.T) {
	cfg := config.Default()
	src, err := newSource(cfg, os.Stdin)
	require.NoError(t, err)
	assert.IsType(t, &reader.PhiReader{}, src)

	cfg.Format = config.FormatURQMD
	src, err = newSource(cfg, os.Stdin)
	require.NoError(t, err)
	assert.IsType(t, &reader.URQMDReader{}, src)
}
