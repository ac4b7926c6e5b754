// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package notify

import (
	"github.com/pkg/errors"
	"github.com/vechain/lottery/log"
)

// Notifier publishes draw records.
type Notifier interface {
	Notify(r *Record) error
}

// Logger writes each record as an info line.
type Logger struct {
	log log.Logger
}

// NewLogger returns a notifier writing through l, or the package logger when l is nil.
func NewLogger(l log.Logger) *Logger {
	if l == nil {
		l = log.WithContext("pkg", "notify")
	}
	return &Logger{log: l}
}

func (l *Logger) Notify(r *Record) error {
	l.log.Info(r.Line(), "seed", r.Seed, "slot", r.Slot, "truncated", r.Truncated())
	return nil
}

// Multi fans a record out to every notifier, in order. All notifiers are called
// even when one fails; the first error is returned.
type Multi []Notifier

func (m Multi) Notify(r *Record) error {
	var first error
	for i, n := range m {
		if err := n.Notify(r); err != nil && first == nil {
			first = errors.WithMessagef(err, "notifier %d", i)
		}
	}
	return first
}
