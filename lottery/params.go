// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import "math"

const (
	// MaxRange is the upper bound of a drawn value, values lie in [1, MaxRange].
	MaxRange uint64 = 100000

	// MaxSafe is the largest multiple of MaxRange representable in 64 bits.
	// Raw values at or above it are rejected so that every residue is equally likely.
	MaxSafe = math.MaxUint64 / MaxRange * MaxRange
)

// Limits bounds the inputs a draw accepts. They are checked before any hashing.
type Limits struct {
	MaxCount         uint8
	MaxIdentifierLen int // 0 means unbounded
}

var (
	// StrictLimits is the validated variant: at most 50 values and a 16 byte identifier.
	StrictLimits = Limits{MaxCount: 50, MaxIdentifierLen: 16}
	// RelaxedLimits only bounds count by its storage width.
	RelaxedLimits = Limits{MaxCount: math.MaxUint8}
)

// Check validates fields against the limits.
func (l Limits) Check(f *Fields) error {
	if l.MaxIdentifierLen > 0 && len(f.Identifier) > l.MaxIdentifierLen {
		return &ValidationError{
			Field:  "identifier",
			Reason: "exceeds " + itoa(l.MaxIdentifierLen) + " bytes",
		}
	}
	if f.Count > l.MaxCount {
		return &ValidationError{
			Field:  "count",
			Reason: "exceeds " + itoa(int(l.MaxCount)),
		}
	}
	return nil
}
