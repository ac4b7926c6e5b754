// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import (
	"encoding/binary"
	"fmt"

	"github.com/vechain/lottery/thor"
)

// Fields are the entropy inputs of one draw, in protocol order.
// Reordering them changes every derived value.
type Fields struct {
	Identifier string       // caller chosen id, e.g. an order id
	Count      uint8        // number of values requested
	Slot       uint64       // clock slot read at the start of the invocation
	Timestamp  int64        // unix time read together with the slot
	Player     thor.Bytes32 // second identity, co-signer or platform selected
	Signer     thor.Bytes32 // identity of the authorized signer
	Reference  string       // optional external reference, e.g. a recent block id
}

// Encoding selects how Fields are laid out as bytes.
type Encoding uint8

const (
	// EncodingFramed prefixes each text field with its uvarint length,
	// so distinct field tuples never share an encoding.
	EncodingFramed Encoding = iota
	// EncodingCompact concatenates fields with no framing. It reproduces draws
	// recorded by the earlier on-chain program byte for byte.
	EncodingCompact
)

func (e Encoding) String() string {
	switch e {
	case EncodingFramed:
		return "framed"
	case EncodingCompact:
		return "compact"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// ParseEncoding parses the text form of an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "framed", "":
		return EncodingFramed, nil
	case "compact":
		return EncodingCompact, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

// Encode serializes fields. Numbers are fixed width little endian and
// identities are raw bytes.
func (e Encoding) Encode(f *Fields) []byte {
	size := len(f.Identifier) + 1 + 8 + 8 + 32 + 32 + len(f.Reference)
	if e == EncodingFramed {
		size += 2 * binary.MaxVarintLen64
	}
	buf := make([]byte, 0, size)

	buf = e.appendText(buf, f.Identifier)
	buf = append(buf, f.Count)
	buf = binary.LittleEndian.AppendUint64(buf, f.Slot)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(f.Timestamp))
	buf = append(buf, f.Player[:]...)
	buf = append(buf, f.Signer[:]...)
	buf = e.appendText(buf, f.Reference)
	return buf
}

func (e Encoding) appendText(buf []byte, s string) []byte {
	if e == EncodingFramed {
		buf = binary.AppendUvarint(buf, uint64(len(s)))
	}
	return append(buf, s...)
}
