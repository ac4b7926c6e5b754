// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import (
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/vechain/lottery/thor"
)

// Algorithm is the 256-bit hash both draw rounds run on.
type Algorithm uint8

const (
	Blake3 Algorithm = iota
	Blake2b
	Keccak256
)

func (a Algorithm) String() string {
	switch a {
	case Blake3:
		return "blake3"
	case Blake2b:
		return "blake2b"
	case Keccak256:
		return "keccak256"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm parses the text form of an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "blake3", "":
		return Blake3, nil
	case "blake2b":
		return Blake2b, nil
	case "keccak256":
		return Keccak256, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", s)
	}
}

// New returns a fresh hash computation.
func (a Algorithm) New() hash.Hash {
	switch a {
	case Blake2b:
		return thor.NewBlake2b()
	case Keccak256:
		return thor.NewKeccak256()
	default:
		return thor.NewBlake3()
	}
}

// Seed is the first round: it condenses the serialized fields into the seed digest.
func (a Algorithm) Seed(data []byte) (seed thor.Bytes32) {
	h := a.New()
	h.Write(data)
	h.Sum(seed[:0])
	return
}

// Expand is the second round for one slot. It hashes seed || counter (int32 LE)
// on its own hash computation and returns the first 8 digest bytes as a
// little endian uint64.
func (a Algorithm) Expand(seed thor.Bytes32, counter int32) uint64 {
	var (
		ctr    [4]byte
		digest thor.Bytes32
	)
	binary.LittleEndian.PutUint32(ctr[:], uint32(counter))

	h := a.New()
	h.Write(seed[:])
	h.Write(ctr[:])
	h.Sum(digest[:0])
	return binary.LittleEndian.Uint64(digest[:8])
}
