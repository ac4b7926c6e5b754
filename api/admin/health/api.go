// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vechain/lottery/api/utils"
	"github.com/vechain/lottery/health"
)

const (
	defaultMaxClockOffset = time.Second
	defaultMaxSyncAge     = 15 * time.Minute
)

type API struct {
	health *health.Health
}

func NewAPI(h *health.Health) *API {
	return &API{health: h}
}

func durationParam(r *http.Request, name string, def time.Duration) time.Duration {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	status, err := h.health.Status(
		durationParam(r, "maxClockOffset", defaultMaxClockOffset),
		durationParam(r, "maxSyncAge", defaultMaxSyncAge),
	)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
