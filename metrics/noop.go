// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopBackend hands out a single meter that discards everything.
type noopBackend struct{}

func (noopBackend) Counter(string) CountMeter                 { return noopMeter{} }
func (noopBackend) CounterVec(string, []string) CountVecMeter { return noopMeter{} }
func (noopBackend) Gauge(string) GaugeMeter                   { return noopMeter{} }
func (noopBackend) Histogram(string, []int64) HistogramMeter  { return noopMeter{} }
func (noopBackend) HistogramVec(string, []string, []int64) HistogramVecMeter {
	return noopMeter{}
}

// Handler answers 204, so the metrics route stays mountable when disabled.
func (noopBackend) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type noopMeter struct{}

func (noopMeter) Add(int64)                                  {}
func (noopMeter) Set(int64)                                  {}
func (noopMeter) Observe(int64)                              {}
func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
