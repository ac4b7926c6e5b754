// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	cs := &Stats{}

	changed, hit, miss := cs.Stats()
	assert.False(t, changed, "no lookups keeps a zero rate")
	assert.Zero(t, hit+miss)

	cs.Miss()
	changed, _, _ = cs.Stats()
	assert.False(t, changed, "all misses is still a zero rate")

	cs.Hit()
	changed, hit, miss = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	// same 50% rate
	cs.Hit()
	cs.Miss()
	changed, _, _ = cs.Stats()
	assert.False(t, changed)

	assert.Equal(t, int64(3), cs.Hit())
	changed, hit, miss = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)
}
