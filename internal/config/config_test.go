package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 350*time.Millisecond, cfg.Delay())
	require.Equal(t, 30*time.Second, cfg.Timeout())
	require.False(t, cfg.RESTSinkEnabled())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esbd.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
run:
  pages: 5
  delay_ms: 1000
sink:
  url: https://xyz.supabase.co
  key: k
  table: solicitations
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Run.Pages)
	require.Equal(t, 10, cfg.Run.MaxDetails)
	require.Equal(t, time.Second, cfg.Delay())
	require.Equal(t, "state_tx_esbd", cfg.Record.SourceSystem)
	require.True(t, cfg.RESTSinkEnabled())
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Sink.OnConflict = " external_id , source_system ,"
	cfg.Sink.URL = "https://xyz.supabase.co/"
	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK(), res.Errors)
	require.Equal(t, "external_id,source_system", out.Sink.OnConflict)
	require.Equal(t, "https://xyz.supabase.co", out.Sink.URL)
	require.NotEmpty(t, res.Warnings) // url without table

	bad := Default()
	bad.Run.Pages = 0
	bad.Run.MaxDetails = -1
	bad.Record.SourceSystem = " "
	_, res = NormalizeAndValidate(bad)
	require.False(t, res.OK())
	require.Len(t, res.Errors, 3)
	require.Error(t, res.Err())
}

func TestSaveAtomicDropsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esbd.yml")
	cfg := Default()
	cfg.Sink.URL = "https://xyz.supabase.co"
	cfg.Sink.Table = "solicitations"
	cfg.Sink.Key = "service-role"
	cfg.Sink.PostgresDSN = "postgres://u:p@localhost/db"

	require.NoError(t, SaveAtomic(path, cfg))
	require.NoError(t, SaveAtomic(path, cfg))
	_, err := os.Stat(path + ".bak")
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, got.Sink.Key)
	require.Empty(t, got.Sink.PostgresDSN)
	require.Equal(t, "solicitations", got.Sink.Table)
}
