// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	backend.Counter("draws").Add(1)
	backend.CounterVec("draws_by_result", []string{"result"}).AddWithLabel(1, map[string]string{"thisIsNonsense": "butDoesntBreak"})
	backend.Gauge("subscribers").Set(3)
	backend.Histogram("batch", BucketBatch).Observe(5)
	backend.HistogramVec("batch_vec", []string{"result"}, nil).ObserveWithLabels(5, map[string]string{"result": "done"})

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return 42
	})
	require.Equal(t, 0, calls)
	require.Equal(t, 42, get())
	require.Equal(t, 42, get())
	require.Equal(t, 1, calls)
}

// runs after the no-op tests above; the prometheus tests reuse the swapped backend.
func TestLazyMeterBindsOnFirstUse(t *testing.T) {
	gauge := LazyLoadGauge("lazy_gauge")
	require.IsType(t, noopBackend{}, backend)

	InitializePrometheusMetrics()
	gauge().Set(4)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "lottery_lazy_gauge" {
			require.Equal(t, float64(4), mf.Metric[0].GetGauge().GetValue())
			return
		}
	}
	t.Fatal("lottery_lazy_gauge not registered")
}
