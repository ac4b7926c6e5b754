// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/lottery/cache"
)

func TestLRUMark(t *testing.T) {
	c, err := cache.NewLRU(2)
	require.NoError(t, err)

	assert.False(t, c.Mark("a"))
	assert.True(t, c.Mark("a"))
	assert.False(t, c.Mark("b"))
	assert.False(t, c.Mark("c"))

	// "a" was evicted by "c"
	assert.False(t, c.Mark("a"))
	assert.Equal(t, 2, c.Len())
}

func TestLRUMarkConcurrent(t *testing.T) {
	c, err := cache.NewLRU(16)
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		fresh atomic.Int32
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.Mark("key") {
				fresh.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), fresh.Load())
}

func TestNewLRUInvalidSize(t *testing.T) {
	_, err := cache.NewLRU(0)
	assert.Error(t, err)
}
