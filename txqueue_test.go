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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectQueue(t *testing.T) (*txQueue, *[]uint32) {
	t.Helper()
	sent := &[]uint32{}
	q := newTxQueue(func(f *Frame) error {
		*sent = append(*sent, f.ID())
		return nil
	})
	return q, sent
}

func mustFrame(t *testing.T, id uint32) *Frame {
	t.Helper()
	f, err := NewFrame(id, nil)
	require.NoError(t, err)
	return f
}

func TestTxQueue_SendsOnlyHead(t *testing.T) {
	t.Parallel()

	q, sent := collectQueue(t)

	require.NoError(t, q.Enqueue(mustFrame(t, 0x100)))
	require.NoError(t, q.Enqueue(mustFrame(t, 0x101)))
	require.NoError(t, q.Enqueue(mustFrame(t, 0x102)))

	// Only the first frame hits the wire; the rest wait for their ack.
	assert.Equal(t, []uint32{0x100}, *sent)
	assert.Equal(t, 3, q.Len())
}

func TestTxQueue_AdvanceOnAck(t *testing.T) {
	t.Parallel()

	q, sent := collectQueue(t)
	require.NoError(t, q.Enqueue(mustFrame(t, 0x100)))
	require.NoError(t, q.Enqueue(mustFrame(t, 0x101)))

	require.NoError(t, q.Advance())
	assert.Equal(t, []uint32{0x100, 0x101}, *sent)
	assert.Equal(t, 1, q.Len())

	require.NoError(t, q.Advance())
	assert.Equal(t, []uint32{0x100, 0x101}, *sent)
	assert.Equal(t, 0, q.Len())

	// Ack with nothing in flight is ignored.
	require.NoError(t, q.Advance())
	assert.Equal(t, 0, q.Len())
}

func TestTxQueue_ResendHead(t *testing.T) {
	t.Parallel()

	q, sent := collectQueue(t)
	require.NoError(t, q.Enqueue(mustFrame(t, 0x100)))
	require.NoError(t, q.Enqueue(mustFrame(t, 0x101)))

	require.NoError(t, q.ResendHead())
	require.NoError(t, q.ResendHead())

	// The head goes out again without being consumed.
	assert.Equal(t, []uint32{0x100, 0x100, 0x100}, *sent)
	assert.Equal(t, 2, q.Len())

	// Resend on an empty queue is a no-op.
	q.Reset()
	require.NoError(t, q.ResendHead())
	assert.Equal(t, []uint32{0x100, 0x100, 0x100}, *sent)
}

func TestTxQueue_Reset(t *testing.T) {
	t.Parallel()

	q, sent := collectQueue(t)
	require.NoError(t, q.Enqueue(mustFrame(t, 0x100)))
	require.NoError(t, q.Enqueue(mustFrame(t, 0x101)))

	q.Reset()
	assert.Equal(t, 0, q.Len())

	// A fresh enqueue is head again and goes straight out.
	require.NoError(t, q.Enqueue(mustFrame(t, 0x200)))
	assert.Equal(t, []uint32{0x100, 0x200}, *sent)
}
