// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// LRU a LRU cache extends golang-lru.
type LRU struct {
	*lru.Cache
	mu sync.Mutex
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Mark records key and reports whether it had been recorded before.
// The check and the insert happen atomically.
func (l *LRU) Mark(key any) (seen bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Contains(key) {
		return true
	}
	l.Add(key, struct{}{})
	return false
}
