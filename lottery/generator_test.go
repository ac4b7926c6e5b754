// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/lottery/thor"
)

// countingExpander wraps an algorithm and records every counter it is asked for.
type countingExpander struct {
	alg      Algorithm
	counters []int32
	reject   map[int32]bool
}

func (c *countingExpander) expand(seed thor.Bytes32, counter int32) uint64 {
	c.counters = append(c.counters, counter)
	if c.reject[counter] {
		return MaxSafe
	}
	return c.alg.Expand(seed, counter)
}

func newTestGenerator(opts Options) (*Generator, *countingExpander) {
	g := New(opts)
	ce := &countingExpander{alg: opts.Algorithm}
	g.expand = ce.expand
	return g, ce
}

func TestGenerateGolden(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		enc  Encoding
		seed string
		want []uint32
	}{
		{
			Blake3,
			EncodingCompact,
			"0xb8dae399493b343d6442b37ce43d109848a244cf08a1c9b56ff24dc3634750dd",
			[]uint32{36810, 57563, 58025, 9731, 94383},
		},
		{
			Blake3,
			EncodingFramed,
			"0x515bbe25097bd26a34ac8a8b29f63cdb228daea08e70aae53970570c3562b320",
			[]uint32{55541, 68048, 79425, 47180, 17245},
		},
		{
			Blake2b,
			EncodingCompact,
			"0x88032306eb18e936da0a078c6a7c67924799d769de68f7e24dbdcdf1b4aa4d2a",
			[]uint32{91285, 17115, 18581, 28457, 13112},
		},
		{
			Blake2b,
			EncodingFramed,
			"0xa8d8faa0e3d29c116740361282ed97d6fe55286248290de01b92a25b3fb59f56",
			[]uint32{77502, 53847, 57437, 33487, 8005},
		},
	}
	for _, tt := range tests {
		t.Run(tt.alg.String()+"/"+tt.enc.String(), func(t *testing.T) {
			g := New(Options{Algorithm: tt.alg, Encoding: tt.enc, Limits: StrictLimits})
			draw, err := g.Generate(sampleFields())
			require.NoError(t, err)
			assert.Equal(t, thor.MustParseBytes32(tt.seed), draw.Seed)
			assert.Equal(t, tt.want, draw.Values)
			assert.False(t, draw.Truncated())
			assert.Equal(t, 5, draw.Attempts)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := New(DefaultOptions())
	d1, err := g.Generate(sampleFields())
	require.NoError(t, err)
	d2, err := g.Generate(sampleFields())
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	f := sampleFields()
	f.Timestamp++
	d3, err := g.Generate(f)
	require.NoError(t, err)
	assert.NotEqual(t, d1.Seed, d3.Seed)
	assert.NotEqual(t, d1.Values, d3.Values)
}

func TestGenerateZeroCount(t *testing.T) {
	g, ce := newTestGenerator(DefaultOptions())
	f := sampleFields()
	f.Count = 0

	draw, err := g.Generate(f)
	require.NoError(t, err)
	assert.Empty(t, draw.Values)
	assert.False(t, draw.Truncated())
	assert.Empty(t, ce.counters, "no slot expansion for an empty batch")
}

func TestGenerateFullBatch(t *testing.T) {
	g, ce := newTestGenerator(DefaultOptions())

	draw, err := g.Generate(sampleFields())
	require.NoError(t, err)
	require.Len(t, draw.Values, 5)
	for _, v := range draw.Values {
		assert.GreaterOrEqual(t, v, uint32(1))
		assert.LessOrEqual(t, uint64(v), MaxRange)
	}
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, ce.counters)
}

func TestGenerateIdentifierTooLong(t *testing.T) {
	g, ce := newTestGenerator(DefaultOptions())
	f := sampleFields()
	f.Identifier = strings.Repeat("a", 17)

	draw, err := g.Generate(f)
	assert.Nil(t, draw)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "identifier", ve.Field)
	assert.Empty(t, ce.counters)

	f.Identifier = strings.Repeat("a", 16)
	_, err = g.Generate(f)
	assert.NoError(t, err)
}

func TestGenerateCountTooLarge(t *testing.T) {
	g := New(DefaultOptions())
	f := sampleFields()
	f.Count = 51

	_, err := g.Generate(f)
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "count", ve.Field)

	f.Count = 50
	draw, err := g.Generate(f)
	require.NoError(t, err)
	assert.Len(t, draw.Values, 50)
}

func TestGenerateRelaxedLimits(t *testing.T) {
	g := New(Options{Algorithm: Blake3, Encoding: EncodingFramed, Limits: RelaxedLimits})
	f := sampleFields()
	f.Identifier = strings.Repeat("a", 64)
	f.Count = 255

	draw, err := g.Generate(f)
	require.NoError(t, err)
	assert.Len(t, draw.Values, 255)
}

func TestGenerateStopsAtFirstRejection(t *testing.T) {
	g, ce := newTestGenerator(DefaultOptions())
	ce.reject = map[int32]bool{3: true}
	f := sampleFields()
	f.Count = 10

	draw, err := g.Generate(f)
	require.NoError(t, err)

	// same values as an unforced run for the slots before the rejection
	full, err := New(DefaultOptions()).Generate(f)
	require.NoError(t, err)

	assert.Equal(t, full.Values[:2], draw.Values)
	assert.True(t, draw.Truncated())
	assert.Equal(t, 3, draw.Attempts)
	assert.Equal(t, []int32{1, 2, 3}, ce.counters, "loop halts before slot 4")
}

func TestGenerateRejectionAtFirstSlot(t *testing.T) {
	g, ce := newTestGenerator(DefaultOptions())
	ce.reject = map[int32]bool{1: true}

	draw, err := g.Generate(sampleFields())
	require.NoError(t, err)
	assert.Empty(t, draw.Values)
	assert.True(t, draw.Truncated())
	assert.Equal(t, []int32{1}, ce.counters)
}

func TestGenerateStages(t *testing.T) {
	var stages []Stage
	g := New(DefaultOptions())
	g.onStage = func(s Stage) { stages = append(stages, s) }

	_, err := g.Generate(sampleFields())
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageValidating, StageHashing, StageSampling, StageDone}, stages)

	stages = nil
	f := sampleFields()
	f.Count = 200
	_, err = g.Generate(f)
	require.Error(t, err)
	assert.Equal(t, []Stage{StageValidating, StageRejected}, stages)
	assert.Equal(t, "rejected", StageRejected.String())
}

func TestVerify(t *testing.T) {
	g := New(DefaultOptions())
	f := sampleFields()
	draw, err := g.Generate(f)
	require.NoError(t, err)

	assert.NoError(t, g.Verify(f, draw.Values))

	tampered := append([]uint32(nil), draw.Values...)
	tampered[0]++
	err = g.Verify(f, tampered)
	assert.True(t, errors.Is(err, ErrReplayMismatch))

	// a different encoding does not reproduce the record
	err = New(Options{Algorithm: Blake3, Encoding: EncodingCompact, Limits: StrictLimits}).Verify(f, draw.Values)
	assert.True(t, errors.Is(err, ErrReplayMismatch))
}
