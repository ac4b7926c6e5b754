// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"time"

	"github.com/vechain/lottery/thor"
)

// Reading is the slot and timestamp observed at the start of an invocation.
type Reading struct {
	Slot      uint64
	Timestamp int64
}

// Clock supplies readings.
type Clock interface {
	Now() Reading
}

// System derives slots from wall time: slot n starts at Genesis + n*Interval.
type System struct {
	Genesis  time.Time
	Interval time.Duration

	now func() time.Time
}

// NewSystem returns a System clock with the default schedule.
func NewSystem() *System {
	return &System{
		Genesis:  thor.GenesisTime,
		Interval: thor.SlotInterval,
		now:      time.Now,
	}
}

// ReadingAt converts an instant into a reading. Instants before genesis map to slot 0.
func (s *System) ReadingAt(t time.Time) Reading {
	var slot uint64
	if elapsed := t.Sub(s.Genesis); elapsed > 0 && s.Interval > 0 {
		slot = uint64(elapsed / s.Interval)
	}
	return Reading{Slot: slot, Timestamp: t.Unix()}
}

// Now implements Clock.
func (s *System) Now() Reading {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return s.ReadingAt(now())
}

// Fixed always returns the same reading, for replays and tests.
type Fixed Reading

// Now implements Clock.
func (f Fixed) Now() Reading {
	return Reading(f)
}
