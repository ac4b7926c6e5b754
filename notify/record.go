// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package notify

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vechain/lottery/lottery"
	"github.com/vechain/lottery/thor"
)

// Record is the observable outcome of one draw. It carries every entropy input, so
// anyone holding it can replay the draw.
type Record struct {
	Program    thor.Bytes32  `json:"program"`
	Identifier string        `json:"id"`
	Values     []uint32      `json:"randoms"`
	Requested  uint8         `json:"requested"`
	Seed       thor.Bytes32  `json:"seed"`
	Slot       uint64        `json:"slot"`
	Timestamp  int64         `json:"timestamp"`
	Player     thor.Bytes32  `json:"player"`
	Signer     thor.Bytes32  `json:"signer"`
	Reference  string        `json:"reference"`
	Algorithm  string        `json:"algorithm"`
	Encoding   string        `json:"encoding"`
	Proof      hexutil.Bytes `json:"proof,omitempty"`
}

// NewRecord assembles a record from the fields a draw was generated from.
func NewRecord(f *lottery.Fields, draw *lottery.Draw, opts lottery.Options) *Record {
	return &Record{
		Program:    thor.ProgramID,
		Identifier: draw.Identifier,
		Values:     draw.Values,
		Requested:  draw.Requested,
		Seed:       draw.Seed,
		Slot:       f.Slot,
		Timestamp:  f.Timestamp,
		Player:     f.Player,
		Signer:     f.Signer,
		Reference:  f.Reference,
		Algorithm:  opts.Algorithm.String(),
		Encoding:   opts.Encoding.String(),
	}
}

// Fields rebuilds the entropy fields of the record.
func (r *Record) Fields() *lottery.Fields {
	return &lottery.Fields{
		Identifier: r.Identifier,
		Count:      r.Requested,
		Slot:       r.Slot,
		Timestamp:  r.Timestamp,
		Player:     r.Player,
		Signer:     r.Signer,
		Reference:  r.Reference,
	}
}

// Options returns the generator options named by the record.
func (r *Record) Options(limits lottery.Limits) (lottery.Options, error) {
	alg, err := lottery.ParseAlgorithm(r.Algorithm)
	if err != nil {
		return lottery.Options{}, err
	}
	enc, err := lottery.ParseEncoding(r.Encoding)
	if err != nil {
		return lottery.Options{}, err
	}
	return lottery.Options{Algorithm: alg, Encoding: enc, Limits: limits}, nil
}

// Truncated reports whether the batch ended at a rejected sample.
func (r *Record) Truncated() bool {
	return len(r.Values) < int(r.Requested)
}

// Line renders the record as the single log line observers parse: ID=<id> RANDOMS=[v1, v2].
func (r *Record) Line() string {
	var b strings.Builder
	b.WriteString("ID=")
	b.WriteString(r.Identifier)
	b.WriteString(" RANDOMS=[")
	for i, v := range r.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	b.WriteByte(']')
	return b.String()
}
