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

func TestNewFrame(t *testing.T) {
	t.Parallel()

	t.Run("standard identifier", func(t *testing.T) {
		t.Parallel()
		f, err := NewFrame(0x100, []byte{1, 2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, uint32(0x100), f.ID())
		assert.False(t, f.Extended())
		assert.False(t, f.RTR())
		assert.Equal(t, 4, f.Len())
		assert.Equal(t, []byte{1, 2, 3, 4}, f.Bytes())
	})

	t.Run("extended inferred above 0x7FF", func(t *testing.T) {
		t.Parallel()
		f, err := NewFrame(0x800, nil)
		require.NoError(t, err)
		assert.True(t, f.Extended())
	})

	t.Run("identifier clamped to 29 bits", func(t *testing.T) {
		t.Parallel()
		f, err := NewFrame(0xFFFFFFFF, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(MaxExtendedID), f.ID())
	})

	t.Run("payload above 8 bytes rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewFrame(0x100, make([]byte, 9))
		require.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("extended override", func(t *testing.T) {
		t.Parallel()
		f, err := NewExtendedFrame(0x100, nil)
		require.NoError(t, err)
		assert.True(t, f.Extended())
	})
}

func TestNewRemoteFrame(t *testing.T) {
	t.Parallel()

	f, err := NewRemoteFrame(0x003, 7)
	require.NoError(t, err)
	assert.True(t, f.RTR())
	assert.Equal(t, 7, f.Len())

	_, err = NewRemoteFrame(0x003, 9)
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestNewTableFrame(t *testing.T) {
	t.Parallel()

	table := NewSignalTable(Message{ID: 0x300, Name: "Motor", Length: 6})

	t.Run("payload must match declared length", func(t *testing.T) {
		t.Parallel()
		_, err := NewTableFrame(table, 0x300, []byte{1, 2})

		var mismatch *DataMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, uint32(0x300), mismatch.ID)
		assert.Equal(t, 6, mismatch.Declared)
		assert.Equal(t, 2, mismatch.Got)
	})

	t.Run("nil payload adopts declared length", func(t *testing.T) {
		t.Parallel()
		f, err := NewTableFrame(table, 0x300, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, f.Len())
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, f.Bytes())
	})

	t.Run("matching payload accepted", func(t *testing.T) {
		t.Parallel()
		f, err := NewTableFrame(table, 0x300, []byte{1, 2, 3, 4, 5, 6})
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, f.Bytes())
	})

	t.Run("unknown identifier needs data", func(t *testing.T) {
		t.Parallel()
		_, err := NewTableFrame(table, 0x555, nil)
		require.ErrorIs(t, err, ErrLengthUnavailable)
	})

	t.Run("unknown identifier with data", func(t *testing.T) {
		t.Parallel()
		f, err := NewTableFrame(table, 0x555, []byte{1})
		require.NoError(t, err)
		assert.Equal(t, 1, f.Len())
	})
}

func TestFrame_ByteAccess(t *testing.T) {
	t.Parallel()

	f, err := NewFrame(0x100, make([]byte, 8))
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		want := byte(0x10 + i)
		require.NoError(t, f.SetByte(i, want))
		got, err := f.Byte(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, []byte{0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17}, f.Bytes())

	// Neighbouring bytes stay untouched.
	require.NoError(t, f.SetByte(3, 0xFF))
	b2, _ := f.Byte(2)
	b4, _ := f.Byte(4)
	assert.Equal(t, byte(0x12), b2)
	assert.Equal(t, byte(0x14), b4)

	for _, i := range []int{-1, 8, 100} {
		_, err := f.Byte(i)
		assert.ErrorIs(t, err, ErrIndexRange, "get index %d", i)
		assert.ErrorIs(t, f.SetByte(i, 0), ErrIndexRange, "set index %d", i)
	}
}

func TestFrame_String(t *testing.T) {
	t.Parallel()

	f, err := NewFrame(0x100, []byte{0x0A, 0x14})
	require.NoError(t, err)
	assert.Equal(t, "CAN frame { id = 0x100 len = 2 [ 0a 14 ] }", f.String())

	r, err := NewRemoteFrame(0x1234ABCD, 3)
	require.NoError(t, err)
	assert.Equal(t, "CAN frame { id = 0x1234abcd (extended) len = 3 RTR }", r.String())
}
