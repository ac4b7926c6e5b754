// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lottery

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrReplayMismatch is returned by Verify when recorded values cannot be reproduced.
var ErrReplayMismatch = errors.New("replay mismatch")

// ValidationError rejects a draw request before any hashing happens.
// The caller may retry with corrected inputs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// IsValidationError reports whether err, or any error it wraps, is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func itoa(i int) string { return strconv.Itoa(i) }
