package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esbd.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
run:
  pages: 7
  max_details: 3
  delay_ms: 1000
record:
  jurisdiction_state: OK
`), 0o644))
	return path
}

func parse(t *testing.T, args ...string) (*cobra.Command, *rootFlags) {
	t.Helper()
	f := &rootFlags{}
	cmd := &cobra.Command{Use: "esbd", RunE: func(*cobra.Command, []string) error { return nil }}
	f.bind(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, f
}

func TestLoadConfigFlagsOverrideFileOnlyWhenSet(t *testing.T) {
	path := writeConfig(t)
	cmd, f := parse(t, "--config", path, "--pages", "4", "--sleep", "0.5")

	cfg, res, err := loadConfig(cmd, f)
	require.NoError(t, err)
	require.True(t, res.OK())

	require.Equal(t, 4, cfg.Run.Pages)
	require.Equal(t, 500, cfg.Run.DelayMS)
	// not passed on the command line, so the file wins over the flag default
	require.Equal(t, 3, cfg.Run.MaxDetails)
	require.Equal(t, "OK", cfg.Record.JurisdictionState)
}

func TestLoadConfigSleepRounds(t *testing.T) {
	cmd, f := parse(t, "--config", writeConfig(t), "--sleep", "0.3336")

	cfg, _, err := loadConfig(cmd, f)
	require.NoError(t, err)
	require.Equal(t, 334, cfg.Run.DelayMS)
}

func TestLoadConfigRejectsInvalidFlags(t *testing.T) {
	cmd, f := parse(t, "--config", writeConfig(t), "--pages", "0")

	_, res, err := loadConfig(cmd, f)
	require.Error(t, err)
	require.False(t, res.OK())
}
