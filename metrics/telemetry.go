// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

// backend receives every meter lookup. It is the no-op backend until
// InitializePrometheusMetrics swaps it, which must happen before the first lookup.
var backend Backend = noopBackend{}

// Backend creates named meters and serves them over HTTP. Lookups with a name
// already seen return the existing meter.
type Backend interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	Histogram(name string, buckets []int64) HistogramMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// HTTPHandler exposes the active backend, mounted at /metrics by the metrics server.
func HTTPHandler() http.Handler {
	return backend.Handler()
}

var (
	// BucketBatch covers draw batch lengths, up to the widest count a request can carry.
	BucketBatch = []int64{0, 1, 2, 5, 10, 20, 30, 40, 50, 100, 255}
	// BucketHTTPReqs covers API latencies in milliseconds.
	BucketHTTPReqs = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
)

// HistogramMeter records a distribution, e.g. how many values each draw produced.
type HistogramMeter interface {
	Observe(int64)
}

// HistogramVecMeter is a HistogramMeter split by label values.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountMeter only goes up; it restarts from zero with the process.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a CountMeter split by label values, e.g. draws per result.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter holds a current value, e.g. open subscription sockets.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// LazyLoad defers f to the first call and caches its result. Package level meters
// are declared through it so their declaration does not pin the backend.
func LazyLoad[T any](f func() T) func() T {
	var (
		once   sync.Once
		result T
	)
	return func() T {
		once.Do(func() { result = f() })
		return result
	}
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return backend.Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return backend.HistogramVec(name, labels, buckets) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return backend.CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return backend.Gauge(name) })
}
