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

// Package trace records received CAN frames as a CBOR stream, one record
// per frame, for later offline analysis or replay into tooling.
package trace

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	usbtin "github.com/usbtin/go-usbtin"
)

// Record is one captured frame. Integer keys keep the on-disk records
// compact for long captures.
type Record struct {
	Time     time.Time `cbor:"1,keyasint"`
	Data     []byte    `cbor:"5,keyasint,omitempty"`
	ID       uint32    `cbor:"2,keyasint"`
	Extended bool      `cbor:"3,keyasint,omitempty"`
	Remote   bool      `cbor:"4,keyasint,omitempty"`
	DLC      uint8     `cbor:"6,keyasint,omitempty"`
}

// Frame converts the record back into a CAN frame.
func (r Record) Frame() (*usbtin.Frame, error) {
	if r.Remote {
		return usbtin.NewRemoteFrame(r.ID, int(r.DLC))
	}
	if r.Extended {
		return usbtin.NewExtendedFrame(r.ID, r.Data)
	}
	return usbtin.NewFrame(r.ID, r.Data)
}

// Writer appends frame records to a CBOR stream. It is safe for use as a
// device listener; records are serialized under an internal lock.
type Writer struct {
	enc *cbor.Encoder
	now func() time.Time
	mu  sync.Mutex
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		enc: cbor.NewEncoder(w),
		now: time.Now,
	}
}

// Record appends one frame to the capture.
func (w *Writer) Record(f *usbtin.Frame) error {
	rec := Record{
		Time:     w.now(),
		ID:       f.ID(),
		Extended: f.Extended(),
		Remote:   f.RTR(),
	}
	if f.RTR() {
		rec.DLC = uint8(f.Len())
	} else {
		rec.Data = f.Bytes()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode trace record: %w", err)
	}
	return nil
}

// Listener adapts the writer into a device listener. Encoding errors are
// dropped; a capture must never stall the receive loop.
func (w *Writer) Listener() usbtin.Listener {
	return func(f *usbtin.Frame) {
		_ = w.Record(f)
	}
}

// ReadAll decodes every record from a capture stream.
func ReadAll(r io.Reader) ([]Record, error) {
	dec := cbor.NewDecoder(r)
	var records []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("failed to decode trace record: %w", err)
		}
		records = append(records, rec)
	}
}
