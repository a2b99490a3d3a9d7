package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.IncDetail(true)
	m.IncUpsert("rest", false)
	require.NoError(t, m.WriteTextfile("/nonexistent/esbd.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncDetail(true)
	m.IncDetail(false)
	m.IncUpsert("rest", true)
	require.Equal(t, 1.0, testutil.ToFloat64(m.DetailsTotal.WithLabelValues("fail")))

	path := filepath.Join(t.TempDir(), "esbd.prom")
	require.NoError(t, m.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `esbd_detail_fetches_total{outcome="ok"} 1`)
	require.Contains(t, string(b), `esbd_sink_upserts_total{outcome="ok",sink="rest"} 1`)
}
