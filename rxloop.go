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

import "context"

// Listener receives frames decoded by the background receive loop.
type Listener func(*Frame)

// rxLoop tracks the single background goroutine draining the port while a
// channel is open.
type rxLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (d *Device) startRXLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	loop := &rxLoop{cancel: cancel, done: make(chan struct{})}
	d.rx = loop
	d.streaming.Store(true)
	go d.runRXLoop(ctx, loop.done)
}

// stopRXLoop requests termination and blocks until the loop goroutine has
// fully stopped. The port must not be closed before this returns.
func (d *Device) stopRXLoop() {
	if d.rx == nil {
		return
	}
	d.rx.cancel()
	<-d.rx.done
	d.rx = nil
	d.streaming.Store(false)
}

// runRXLoop drains raw bytes from the port, reassembles protocol lines and
// dispatches them. The port's short stream read timeout makes Read return
// (0, nil) periodically, which is how the loop observes cancellation
// without busy-spinning.
func (d *Device) runRXLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 64)
	var line []byte
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := d.port.Read(buf)
		if err != nil {
			if ctx.Err() == nil {
				debugf("receive loop: read failed: %v", err)
			}
			return
		}
		if n == 0 {
			continue
		}

		for _, b := range buf[:n] {
			switch {
			case b == lineTerminator && len(line) > 0:
				d.handleLine(string(line))
				line = line[:0]
			case b == bellMarker:
				// Transmit failed; the head entry stays queued
				// and goes out again.
				if err := d.tx.ResendHead(); err != nil {
					debugf("receive loop: resend failed: %v", err)
				}
			case b != lineTerminator:
				line = append(line, b)
			}
		}
	}
}

// handleLine classifies one complete line by its first character: frames
// are decoded and dispatched, transmit acknowledgements advance the TX
// queue, anything else is a synchronous-only response and is discarded.
func (d *Device) handleLine(line string) {
	switch line[0] {
	case 't', 'T', 'r', 'R':
		f := DecodeFrame(line)
		for _, fn := range d.snapshotListeners() {
			fn(f)
		}
	case 'z', 'Z':
		if err := d.tx.Advance(); err != nil {
			debugf("receive loop: send after ack failed: %v", err)
		}
	}
}
