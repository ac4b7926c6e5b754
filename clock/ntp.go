// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vechain/lottery/log"
)

var logger = log.WithContext("pkg", "clock")

// DefaultNTPServer is queried when no server is configured.
const DefaultNTPServer = "pool.ntp.org"

// NTP corrects a System clock by the offset measured against an NTP server.
// The offset is refreshed in the background by Run; readings never block on the network.
type NTP struct {
	*System
	server string
	offset atomic.Int64 // nanoseconds
	synced atomic.Int64 // unix nanoseconds of the last successful refresh

	query func(host string) (time.Duration, error)
}

// NewNTP wraps sys with an NTP corrected offset.
func NewNTP(sys *System, server string) *NTP {
	if server == "" {
		server = DefaultNTPServer
	}
	return &NTP{
		System: sys,
		server: server,
		query: func(host string) (time.Duration, error) {
			resp, err := ntp.Query(host)
			if err != nil {
				return 0, err
			}
			return resp.ClockOffset, nil
		},
	}
}

// Offset returns the last measured offset.
func (n *NTP) Offset() time.Duration {
	return time.Duration(n.offset.Load())
}

// LastSync returns when the offset was last measured, zero if never.
func (n *NTP) LastSync() time.Time {
	if ns := n.synced.Load(); ns != 0 {
		return time.Unix(0, ns)
	}
	return time.Time{}
}

// Now implements Clock.
func (n *NTP) Now() Reading {
	return n.ReadingAt(time.Now().Add(n.Offset()))
}

// Refresh measures the offset once. A failed query keeps the previous offset.
func (n *NTP) Refresh() error {
	offset, err := n.query(n.server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", n.server, "err", err)
		return err
	}
	n.offset.Store(int64(offset))
	n.synced.Store(time.Now().UnixNano())

	abs := offset
	if abs < 0 {
		abs = -abs
	}
	if abs > n.Interval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
	return nil
}

// Run refreshes the offset every period until ctx is done.
func (n *NTP) Run(ctx context.Context, period time.Duration) error {
	n.Refresh()

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n.Refresh()
		}
	}
}
