// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var genesis = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestSystemReading(t *testing.T) {
	s := &System{Genesis: genesis, Interval: time.Second}

	r := s.ReadingAt(genesis.Add(90*time.Second + 500*time.Millisecond))
	assert.Equal(t, uint64(90), r.Slot)
	assert.Equal(t, genesis.Unix()+90, r.Timestamp)

	early := s.ReadingAt(genesis.Add(-time.Hour))
	assert.Equal(t, uint64(0), early.Slot)
	assert.Equal(t, genesis.Unix()-3600, early.Timestamp)
}

func TestSystemNow(t *testing.T) {
	s := &System{Genesis: genesis, Interval: time.Second}
	s.now = func() time.Time { return genesis.Add(10 * time.Second) }
	assert.Equal(t, Reading{Slot: 10, Timestamp: genesis.Unix() + 10}, s.Now())

	def := NewSystem()
	assert.Greater(t, def.Now().Slot, uint64(0))
}

func TestFixed(t *testing.T) {
	r := Reading{Slot: 7, Timestamp: -5}
	assert.Equal(t, r, Fixed(r).Now())
}

func TestNTPRefresh(t *testing.T) {
	n := NewNTP(&System{Genesis: genesis, Interval: time.Second}, "")
	n.query = func(string) (time.Duration, error) { return 3 * time.Second, nil }
	assert.True(t, n.LastSync().IsZero())

	require.NoError(t, n.Refresh())
	assert.Equal(t, 3*time.Second, n.Offset())
	synced := n.LastSync()
	assert.False(t, synced.IsZero())

	before := n.ReadingAt(time.Now())
	corrected := n.Now()
	assert.GreaterOrEqual(t, corrected.Slot, before.Slot+2)

	n.query = func(string) (time.Duration, error) { return 0, errors.New("unreachable") }
	assert.Error(t, n.Refresh())
	assert.Equal(t, 3*time.Second, n.Offset(), "failed query keeps the last offset")
	assert.Equal(t, synced, n.LastSync())
}

func TestNTPRun(t *testing.T) {
	n := NewNTP(&System{Genesis: genesis, Interval: time.Second}, "example.invalid")
	calls := make(chan string, 8)
	n.query = func(host string) (time.Duration, error) {
		select {
		case calls <- host:
		default:
		}
		return time.Millisecond, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx, 10*time.Millisecond) }()

	assert.Equal(t, "example.invalid", <-calls)
	cancel()
	require.NoError(t, <-done)
}
