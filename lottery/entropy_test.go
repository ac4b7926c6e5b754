// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/lottery/thor"
)

func fill(b byte) (out thor.Bytes32) {
	for i := range out {
		out[i] = b
	}
	return
}

func sampleFields() *Fields {
	return &Fields{
		Identifier: "ord-1",
		Count:      5,
		Slot:       123456789,
		Timestamp:  1735689600,
		Player:     fill(1),
		Signer:     fill(2),
		Reference:  "blk-42",
	}
}

func TestEncodeCompact(t *testing.T) {
	want := "6f72642d310515cd5b07000000008085746700000000" +
		"0101010101010101010101010101010101010101010101010101010101010101" +
		"0202020202020202020202020202020202020202020202020202020202020202" +
		"626c6b2d3432"
	assert.Equal(t, want, hex.EncodeToString(EncodingCompact.Encode(sampleFields())))
}

func TestEncodeFramed(t *testing.T) {
	want := "056f72642d310515cd5b07000000008085746700000000" +
		"0101010101010101010101010101010101010101010101010101010101010101" +
		"0202020202020202020202020202020202020202020202020202020202020202" +
		"06626c6b2d3432"
	assert.Equal(t, want, hex.EncodeToString(EncodingFramed.Encode(sampleFields())))
}

func TestEncodeNegativeTimestamp(t *testing.T) {
	f := sampleFields()
	f.Timestamp = -1
	enc := EncodingCompact.Encode(f)
	// identifier(5) + count(1) + slot(8)
	assert.Equal(t, uint64(0xffffffffffffffff), binary.LittleEndian.Uint64(enc[14:22]))
}

// shiftBoundary reinterprets compact bytes with an identifier one byte longer.
func shiftBoundary(enc []byte, idLen int) *Fields {
	f := &Fields{Identifier: string(enc[:idLen])}
	rest := enc[idLen:]
	f.Count = rest[0]
	f.Slot = binary.LittleEndian.Uint64(rest[1:9])
	f.Timestamp = int64(binary.LittleEndian.Uint64(rest[9:17]))
	copy(f.Player[:], rest[17:49])
	copy(f.Signer[:], rest[49:81])
	f.Reference = string(rest[81:])
	return f
}

func TestCompactBoundaryAmbiguity(t *testing.T) {
	f1 := sampleFields()
	enc := EncodingCompact.Encode(f1)
	f2 := shiftBoundary(enc, len(f1.Identifier)+1)

	require.NotEqual(t, *f1, *f2)
	// compact cannot tell the two tuples apart, framed can
	assert.Equal(t, enc, EncodingCompact.Encode(f2))
	assert.NotEqual(t, EncodingFramed.Encode(f1), EncodingFramed.Encode(f2))
}

func TestParseEncoding(t *testing.T) {
	for _, e := range []Encoding{EncodingFramed, EncodingCompact} {
		parsed, err := ParseEncoding(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
	_, err := ParseEncoding("rlp")
	assert.Error(t, err)
}

func TestSeedAvalanche(t *testing.T) {
	mutations := map[string]func(f *Fields){
		"identifier": func(f *Fields) { f.Identifier += "x" },
		"count":      func(f *Fields) { f.Count ^= 1 },
		"slot":       func(f *Fields) { f.Slot ^= 1 },
		"timestamp":  func(f *Fields) { f.Timestamp ^= 1 },
		"player":     func(f *Fields) { f.Player[31] ^= 1 },
		"signer":     func(f *Fields) { f.Signer[0] ^= 1 },
		"reference":  func(f *Fields) { f.Reference += "x" },
	}

	fz := fuzz.New().NilChance(0)
	for range 50 {
		var base Fields
		fz.Fuzz(&base)

		for _, enc := range []Encoding{EncodingFramed, EncodingCompact} {
			seed := Blake3.Seed(enc.Encode(&base))
			for name, mutate := range mutations {
				changed := base
				mutate(&changed)
				assert.NotEqual(t, seed, Blake3.Seed(enc.Encode(&changed)), "%s/%s", enc, name)
			}
		}
	}
}
