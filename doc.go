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

/*
Package usbtin drives USBtin USB-to-CAN adapters over their ASCII serial
protocol.

The USBtin is an MCP2515-based adapter that exposes a Lawicel-style line
protocol on a USB CDC serial port. This library handles the session
handshake, CAN frame encoding/decoding including named-signal bit fields,
the adapter's acknowledgement-driven transmit flow control, bit-timing
register calculation for arbitrary bit rates, and hardware acceptance
filter programming.

Basic usage:

	import (
	    usbtin "github.com/usbtin/go-usbtin"
	    "github.com/usbtin/go-usbtin/transport/serial"
	)

	port, err := serial.Open("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := usbtin.Connect(port)
	if err != nil {
	    port.Close()
	    log.Fatal(err)
	}
	defer device.Disconnect()

	device.AddListener(func(f *usbtin.Frame) {
	    fmt.Println(f)
	})

	if err := device.OpenChannel(125000, usbtin.ModeActive); err != nil {
	    log.Fatal(err)
	}
	defer device.CloseChannel()

	frame, _ := usbtin.NewFrame(0x123, []byte{0x11, 0x22})
	if err := device.Send(frame); err != nil {
	    log.Fatal(err)
	}

Hardware filters are programmed between Connect and OpenChannel:

	mask := usbtin.NewStandardFilterMask(0x7F0, 0x00, 0x00)
	chain := usbtin.NewFilterChain(mask,
	    usbtin.NewStandardFilterMask(0x120, 0x00, 0x00))
	if err := device.SetFilters(chain); err != nil {
	    log.Fatal(err)
	}

Signal tables describe named, scaled bit fields within payloads. A table
is built once (typically by a DBC-style description parser, which is out of
scope for this package) and passed explicitly:

	table := usbtin.NewSignalTable(usbtin.Message{
	    ID:     0x300,
	    Name:   "Motor",
	    Length: 6,
	    Signals: map[string]usbtin.Signal{
	        "RPM": {Name: "RPM", StartBit: 0, Size: 16, Factor: 1},
	    },
	})
	frame, _ := usbtin.NewTableFrame(table, 0x300, nil)
	_ = frame.SetSignal(table, "RPM", 6000)

Error handling follows errors.Is/errors.As conventions:

	if errors.Is(err, usbtin.ErrBell) {
	    // the adapter rejected a command
	}

Concurrency: Send and the listener registry are safe for concurrent use
while a channel is open. Synchronous commands (Connect, OpenChannel,
CloseChannel, WriteRegister, SetFilters) must not race with each other and
are rejected while the background receive loop owns the stream. Listeners
run synchronously inside the receive loop and must not block.
*/
package usbtin
