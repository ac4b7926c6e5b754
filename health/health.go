// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/lottery/notify"
)

// ClockSync reports the state of an externally corrected clock.
type ClockSync interface {
	Offset() time.Duration
	LastSync() time.Time
}

type LastDraw struct {
	ID        string     `json:"id"`
	Slot      uint64     `json:"slot"`
	Timestamp *time.Time `json:"timestamp"`
}

type ClockStatus struct {
	Synced   bool       `json:"synced"`
	OffsetMs int64      `json:"offsetMs"`
	LastSync *time.Time `json:"lastSync"`
}

type Status struct {
	Healthy  bool         `json:"healthy"`
	Clock    *ClockStatus `json:"clock"`
	LastDraw *LastDraw    `json:"lastDraw"`
}

// Health tracks the last published draw and the clock correction. It is a
// notify.Notifier so it can sit next to the other publishers.
type Health struct {
	lock     sync.RWMutex
	clock    ClockSync
	lastDraw *LastDraw
}

// New creates a Health. A nil clock means the wall clock is trusted as is.
func New(clock ClockSync) *Health {
	return &Health{clock: clock}
}

func (h *Health) Notify(r *notify.Record) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	h.lastDraw = &LastDraw{ID: r.Identifier, Slot: r.Slot, Timestamp: &now}
	return nil
}

// Status reports unhealthy when the clock was never synced, its last sync is older
// than maxSyncAge, or the measured offset exceeds maxOffset.
func (h *Health) Status(maxOffset, maxSyncAge time.Duration) (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Healthy: true, LastDraw: h.lastDraw}
	if h.clock == nil {
		return status, nil
	}

	offset := h.clock.Offset()
	cs := &ClockStatus{OffsetMs: offset.Milliseconds()}
	if last := h.clock.LastSync(); !last.IsZero() {
		cs.LastSync = &last
		cs.Synced = time.Since(last) <= maxSyncAge
	}
	if offset < 0 {
		offset = -offset
	}
	status.Clock = cs
	status.Healthy = cs.Synced && offset <= maxOffset
	return status, nil
}
