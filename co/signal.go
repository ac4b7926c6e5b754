// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides a channel to wait on.
// A value read from the channel is true for Signal, false (closed) for Broadcast.
type Waiter interface {
	C() <-chan bool
}

// Signal is a channel based rendezvous, usable inside select unlike sync.Cond.
// The zero value is ready to use.
type Signal struct {
	l  sync.Mutex
	ch chan bool
}

func (s *Signal) channel() chan bool {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
	return s.ch
}

// Signal wakes at most one waiter. A signal with no waiter is kept until one arrives.
func (s *Signal) Signal() {
	s.l.Lock()
	defer s.l.Unlock()

	select {
	case s.channel() <- true:
	default:
	}
}

// Broadcast wakes every current waiter.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	close(s.channel())
	s.ch = make(chan bool, 1)
}

// NewWaiter creates a Waiter. Each call to C after the first one follows the latest
// generation, so a waiter can be reused in a loop without missing broadcasts.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.channel()
	s.l.Unlock()

	return waiterFunc(func() <-chan bool {
		ch := ref

		s.l.Lock()
		ref = s.channel()
		s.l.Unlock()

		return ch
	})
}

type waiterFunc func() <-chan bool

func (w waiterFunc) C() <-chan bool {
	return w()
}
