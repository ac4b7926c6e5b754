// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package notify

import (
	"sync"

	"github.com/vechain/lottery/co"
)

// DefaultFeedSize is the number of recent records a Feed retains.
const DefaultFeedSize = 256

// Feed retains the most recent records in a ring and wakes subscribers on every new one.
// Records are addressed by a sequence number that starts at 0 and never repeats.
type Feed struct {
	mu    sync.RWMutex
	ring  []*Record
	next  uint64
	moved co.Signal
}

// NewFeed creates a feed retaining up to size records.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{ring: make([]*Record, size)}
}

func (f *Feed) Notify(r *Record) error {
	f.mu.Lock()
	f.ring[f.next%uint64(len(f.ring))] = r
	f.next++
	f.mu.Unlock()

	f.moved.Broadcast()
	return nil
}

// Head returns the sequence number the next record will get.
func (f *Feed) Head() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.next
}

// Since returns the retained records with sequence >= from, oldest first, and the
// cursor to pass on the next call. Records already evicted from the ring are skipped.
func (f *Feed) Since(from uint64) ([]*Record, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := uint64(len(f.ring))
	if f.next > size && from < f.next-size {
		from = f.next - size
	}
	if from >= f.next {
		return nil, f.next
	}
	out := make([]*Record, 0, f.next-from)
	for seq := from; seq < f.next; seq++ {
		out = append(out, f.ring[seq%size])
	}
	return out, f.next
}

// Recent returns up to n of the latest records, oldest first.
func (f *Feed) Recent(n int) []*Record {
	head := f.Head()
	from := uint64(0)
	if n >= 0 && uint64(n) < head {
		from = head - uint64(n)
	}
	recs, _ := f.Since(from)
	return recs
}

// NewWaiter returns a waiter that fires on every new record.
// Create it before the first Since call so no record slips between them.
func (f *Feed) NewWaiter() co.Waiter {
	return f.moved.NewWaiter()
}
