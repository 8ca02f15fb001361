// go-usbtin
// Copyright (c) 2026 The go-usbtin Authors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-usbtin.
//
// go-usbtin is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-usbtin is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-usbtin; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package usbtin

import "sync"

// txQueue is the pending-frame FIFO driven by the adapter's stop/go flow
// control. Only the head entry is ever on the wire; it stays queued until
// the receive loop sees the transmit acknowledgement and advances the
// queue, or is re-sent when the adapter signals BEL.
//
// Enqueue is called from caller goroutines while Advance and ResendHead are
// called from the receive loop, so every head operation holds the mutex.
type txQueue struct {
	send    func(*Frame) error
	pending []*Frame
	mu      sync.Mutex
}

func newTxQueue(send func(*Frame) error) *txQueue {
	return &txQueue{send: send}
}

// Enqueue appends a frame and, if the queue was empty, puts it on the wire
// immediately. A non-empty queue means a frame is already in flight; the
// new frame is sent when it becomes head.
func (q *txQueue) Enqueue(f *Frame) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, f)
	if len(q.pending) == 1 {
		return q.send(f)
	}
	return nil
}

// Advance removes the acknowledged head entry and sends the next one, if
// any. Called only by the receive loop on a transmit acknowledgement.
func (q *txQueue) Advance() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	q.pending = q.pending[1:]
	if len(q.pending) > 0 {
		return q.send(q.pending[0])
	}
	return nil
}

// ResendHead re-sends the in-flight head entry without removing it. Called
// only by the receive loop on the adapter's error marker.
func (q *txQueue) ResendHead() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	return q.send(q.pending[0])
}

// Len returns the number of pending frames, the in-flight head included.
func (q *txQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Reset drops all pending frames.
func (q *txQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}
