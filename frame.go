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
	"fmt"
	"strings"
)

// Identifier and payload limits for classical CAN.
const (
	MaxStandardID = 0x7FF
	MaxExtendedID = 0x1FFFFFFF
	maxDataLen    = 8
)

// Frame represents one classical CAN message: an 11-bit standard or 29-bit
// extended identifier, a remote-transmission-request flag, a data length of
// 0-8 and up to 8 payload bytes.
//
// The payload is stored as a single little-endian 64-bit value (byte 0 in
// bits 0..7) so that named signals can be extracted with one mask and shift.
// Identifier, extended and RTR flags are fixed at construction; the payload
// is mutable through SetByte and SetSignal.
type Frame struct {
	id       uint32
	data     uint64
	dlc      uint8
	extended bool
	rtr      bool
}

// NewFrame creates a data frame. Identifiers above 0x1FFFFFFF are clamped;
// identifiers above 0x7FF make the frame extended.
func NewFrame(id uint32, data []byte) (*Frame, error) {
	if len(data) > maxDataLen {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, len(data))
	}
	id = clampID(id)
	return &Frame{
		id:       id,
		extended: id > MaxStandardID,
		dlc:      uint8(len(data)),
		data:     packPayload(data),
	}, nil
}

// NewExtendedFrame creates a data frame that uses 29-bit addressing even if
// the identifier would fit in 11 bits.
func NewExtendedFrame(id uint32, data []byte) (*Frame, error) {
	f, err := NewFrame(id, data)
	if err != nil {
		return nil, err
	}
	f.extended = true
	return f, nil
}

// NewRemoteFrame creates a remote-transmission-request frame. Remote frames
// carry no payload; dlc announces the length of the requested reply.
func NewRemoteFrame(id uint32, dlc int) (*Frame, error) {
	if dlc < 0 || dlc > maxDataLen {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, dlc)
	}
	id = clampID(id)
	return &Frame{
		id:       id,
		extended: id > MaxStandardID,
		rtr:      true,
		dlc:      uint8(dlc),
	}, nil
}

// NewTableFrame creates a data frame validated against a signal table.
// For identifiers the table knows, the supplied payload length must equal
// the declared length; a nil payload adopts the declared length with a zero
// payload. For unknown identifiers a nil payload is an error, since no
// length information is available.
func NewTableFrame(table *SignalTable, id uint32, data []byte) (*Frame, error) {
	if len(data) > maxDataLen {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, len(data))
	}
	id = clampID(id)
	msg, known := table.Lookup(id)
	if !known && data == nil {
		return nil, fmt.Errorf("%w for CAN id 0x%x: data must be supplied", ErrLengthUnavailable, id)
	}
	if known && data != nil && len(data) != msg.Length {
		return nil, &DataMismatchError{ID: id, Declared: msg.Length, Got: len(data)}
	}
	f := &Frame{
		id:       id,
		extended: id > MaxStandardID,
		data:     packPayload(data),
	}
	if data == nil {
		f.dlc = uint8(msg.Length)
	} else {
		f.dlc = uint8(len(data))
	}
	return f, nil
}

func clampID(id uint32) uint32 {
	if id > MaxExtendedID {
		return MaxExtendedID
	}
	return id
}

func packPayload(data []byte) uint64 {
	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * i)
	}
	return v
}

// ID returns the CAN identifier.
func (f *Frame) ID() uint32 { return f.id }

// Extended reports whether the frame uses 29-bit addressing.
func (f *Frame) Extended() bool { return f.extended }

// RTR reports whether the frame is a remote-transmission request.
func (f *Frame) RTR() bool { return f.rtr }

// Len returns the data length code (0-8).
func (f *Frame) Len() int { return int(f.dlc) }

// Byte returns payload byte i. The index must be within 0..7 regardless of
// the frame's length; padding bytes read as zero.
func (f *Frame) Byte(i int) (byte, error) {
	if i < 0 || i > maxDataLen-1 {
		return 0, fmt.Errorf("%w: %d", ErrIndexRange, i)
	}
	return byte(f.data >> (8 * i)), nil
}

// SetByte sets payload byte i. The index must be within 0..7.
func (f *Frame) SetByte(i int, v byte) error {
	if i < 0 || i > maxDataLen-1 {
		return fmt.Errorf("%w: %d", ErrIndexRange, i)
	}
	shift := uint(8 * i)
	f.data = f.data&^(0xFF<<shift) | uint64(v)<<shift
	return nil
}

// Bytes returns a copy of the first Len() payload bytes.
func (f *Frame) Bytes() []byte {
	out := make([]byte, f.dlc)
	for i := range out {
		out[i] = byte(f.data >> (8 * i))
	}
	return out
}

// String renders the frame for diagnostics.
func (f *Frame) String() string {
	var b strings.Builder
	b.WriteString("CAN frame { id = 0x")
	if f.extended {
		fmt.Fprintf(&b, "%08x (extended)", f.id)
	} else {
		fmt.Fprintf(&b, "%03x", f.id)
	}
	fmt.Fprintf(&b, " len = %d", f.dlc)
	if f.rtr {
		b.WriteString(" RTR")
	} else {
		b.WriteString(" [")
		for _, v := range f.Bytes() {
			fmt.Fprintf(&b, " %02x", v)
		}
		b.WriteString(" ]")
	}
	b.WriteString(" }")
	return b.String()
}

// Dump renders the frame together with the decoded signal values the table
// declares for its identifier.
func (f *Frame) Dump(table *SignalTable) string {
	var b strings.Builder
	b.WriteString(f.String())
	msg, ok := table.Lookup(f.id)
	if !ok {
		return b.String()
	}
	for _, name := range msg.signalNames() {
		v, err := f.Signal(table, name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n\t%32s %g %s", name, v, msg.Signals[name].Unit)
	}
	return b.String()
}
