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
	"strconv"
	"strings"
)

// Line protocol framing bytes. Commands and frames are terminated with a
// carriage return; BEL is the adapter's error marker.
const (
	lineTerminator = '\r'
	bellMarker     = 0x07
)

// EncodeFrame renders the transmit command for a frame in the adapter's
// ASCII grammar, without the trailing carriage return:
//
//	t123411223344   standard data frame, id 123h, 4 bytes
//	T0000060023f00  extended data frame
//	r0037           standard remote frame, dlc 7
func EncodeFrame(f *Frame) string {
	var b strings.Builder
	switch {
	case f.rtr && f.extended:
		b.WriteByte('R')
	case f.rtr:
		b.WriteByte('r')
	case f.extended:
		b.WriteByte('T')
	default:
		b.WriteByte('t')
	}
	if f.extended {
		fmt.Fprintf(&b, "%08x", f.id)
	} else {
		fmt.Fprintf(&b, "%03x", f.id)
	}
	fmt.Fprintf(&b, "%01x", f.dlc)
	if !f.rtr {
		for _, v := range f.Bytes() {
			fmt.Fprintf(&b, "%02x", v)
		}
	}
	return b.String()
}

// DecodeFrame parses a received frame line. The adapter is treated as
// authoritative: malformed hex fields decode as zero instead of failing, so
// a corrupted line can never stall the receive loop. Payload parsing stops
// after dlc byte pairs; trailing characters are ignored as line noise. An
// empty line decodes to identifier 0 with length 0.
func DecodeFrame(line string) *Frame {
	f := &Frame{}
	if line == "" {
		return f
	}
	typ := line[0]
	f.rtr = typ == 'r' || typ == 'R'
	f.extended = typ == 'T' || typ == 'R'

	idDigits := 3
	if f.extended {
		idDigits = 8
	}
	f.id = clampID(uint32(hexField(line, 1, 1+idDigits)))
	if !f.extended && f.id > MaxStandardID {
		f.extended = true
	}

	dlc := hexField(line, 1+idDigits, 2+idDigits)
	if dlc > maxDataLen {
		dlc = maxDataLen
	}
	f.dlc = uint8(dlc)

	if !f.rtr {
		pos := 2 + idDigits
		for i := 0; i < int(dlc); i++ {
			f.data |= hexField(line, pos, pos+2) << (8 * i)
			pos += 2
		}
	}
	return f
}

// hexField parses line[from:to] as hex, returning 0 for missing or
// malformed input.
func hexField(line string, from, to int) uint64 {
	if from < 0 || to > len(line) || from >= to {
		return 0
	}
	v, err := strconv.ParseUint(line[from:to], 16, 64)
	if err != nil {
		return 0
	}
	return v
}
