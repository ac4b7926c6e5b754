// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "time"

// Constants of the draw program.
const (
	SlotInterval = 400 * time.Millisecond // time interval between two consecutive slots.

	ProgramName = "lottery"
)

// ProgramID is the fixed deployment identity of the draw program.
// It has no effect on sampling and is only attached to emitted records.
var ProgramID = Blake2b([]byte(ProgramName), []byte("/v1"))

// GenesisTime is the reference point slot numbers are counted from.
var GenesisTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
