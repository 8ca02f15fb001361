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
	"math"
	"sort"
)

// Signal describes one named, scaled bit field within a frame's payload.
// The physical value of a signal is (raw - Offset) * Factor, where raw is
// the (optionally sign-extended) field extracted at StartBit with Size bits.
type Signal struct {
	Name     string
	Unit     string
	StartBit int
	Size     int
	// ByteOrder is the description file's byte order tag ('0' Motorola,
	// '1' Intel). It is carried for table consumers; field extraction
	// always operates on the little-endian packed payload.
	ByteOrder byte
	Signed    bool
	Factor    float64
	Offset    float64
	Min       float64
	Max       float64
}

// scale returns the factor, treating an unset factor as 1 so that tables
// built without explicit scaling behave as raw pass-through.
func (s Signal) scale() float64 {
	if s.Factor == 0 {
		return 1
	}
	return s.Factor
}

// Message describes one frame identifier: its name, declared payload length
// and signals, keyed by signal name.
type Message struct {
	Signals map[string]Signal
	Name    string
	ID      uint32
	Length  int
}

func (m Message) signalNames() []string {
	names := make([]string, 0, len(m.Signals))
	for name := range m.Signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SignalTable is an identifier-indexed set of message descriptions,
// typically produced by a description-file parser. A table is immutable
// once built; replacing the active table of a Device swaps the whole table
// atomically.
type SignalTable struct {
	messages map[uint32]Message
}

// NewSignalTable builds a table from message descriptions.
func NewSignalTable(messages ...Message) *SignalTable {
	t := &SignalTable{messages: make(map[uint32]Message, len(messages))}
	for _, m := range messages {
		t.messages[m.ID] = m
	}
	return t
}

// Lookup returns the message description for an identifier. Lookup on a nil
// table reports no match.
func (t *SignalTable) Lookup(id uint32) (Message, bool) {
	if t == nil {
		return Message{}, false
	}
	m, ok := t.messages[id]
	return m, ok
}

// Signal extracts the named signal from the frame's payload and returns its
// physical value. The frame's identifier must be present in the table and
// the signal defined for it.
func (f *Frame) Signal(table *SignalTable, name string) (float64, error) {
	sig, err := f.lookupSignal(table, name)
	if err != nil {
		return 0, err
	}
	mask := fieldMask(sig.Size) << sig.StartBit
	raw := int64((f.data & mask) >> sig.StartBit)
	if sig.Signed && raw&(1<<(sig.Size-1)) != 0 {
		raw -= 1 << sig.Size
	}
	factor := sig.scale()
	if factor == 1 && sig.Offset == 0 {
		return float64(raw), nil
	}
	return (float64(raw) - sig.Offset) * factor, nil
}

// SetSignal writes the physical value into the named signal's bit field.
// The raw value is rounded to the nearest scale step and masked to the
// field width, so an out-of-range value wraps within the field without
// touching adjacent bits.
func (f *Frame) SetSignal(table *SignalTable, name string, value float64) error {
	sig, err := f.lookupSignal(table, name)
	if err != nil {
		return err
	}
	raw := int64(math.Round(value/sig.scale() + sig.Offset))
	mask := fieldMask(sig.Size) << sig.StartBit
	f.data = f.data&^mask | (uint64(raw)<<sig.StartBit)&mask
	return nil
}

func (f *Frame) lookupSignal(table *SignalTable, name string) (Signal, error) {
	msg, ok := table.Lookup(f.id)
	if !ok {
		return Signal{}, fmt.Errorf("%w: 0x%x", ErrUnknownMessage, f.id)
	}
	sig, ok := msg.Signals[name]
	if !ok {
		return Signal{}, fmt.Errorf("%w: %q on 0x%x", ErrUnknownSignal, name, f.id)
	}
	return sig, nil
}

func fieldMask(size int) uint64 {
	if size >= 64 {
		return ^uint64(0)
	}
	return 1<<size - 1
}
