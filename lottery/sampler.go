// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

// Sample maps a raw value into [1, MaxRange] without modulo bias.
// It returns false when raw falls in the biased tail at or above MaxSafe;
// that is an expected outcome, not an error.
func Sample(raw uint64) (uint32, bool) {
	if raw >= MaxSafe {
		return 0, false
	}
	return uint32(raw%MaxRange) + 1, true
}
