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

// Package serial provides the serial-port transport for USBtin adapters.
package serial

import (
	"time"

	goserial "go.bug.st/serial"

	usbtin "github.com/usbtin/go-usbtin"
)

// controlBaudRate is the fixed rate of the adapter's USB CDC control
// channel. The CAN bit rate is configured separately over the protocol.
const controlBaudRate = 115200

// Port implements usbtin.Port on top of a physical serial port.
type Port struct {
	port goserial.Port
	name string
}

// Open opens the named serial port with the adapter's fixed framing
// (115200 8N1, no parity).
func Open(name string) (*Port, error) {
	mode := &goserial.Mode{
		BaudRate: controlBaudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	p, err := goserial.Open(name, mode)
	if err != nil {
		return nil, usbtin.NewTransportError("open", name, err, usbtin.ErrorTypePermanent)
	}
	return &Port{port: p, name: name}, nil
}

// Connect opens the named port and establishes a USBtin session on it. The
// port is closed again if the handshake fails.
func Connect(name string, opts ...usbtin.Option) (*usbtin.Device, error) {
	port, err := Open(name)
	if err != nil {
		return nil, err
	}
	device, err := usbtin.Connect(port, opts...)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return device, nil
}

// Read reads available bytes, returning (0, nil) when the read timeout
// expires with nothing received.
func (p *Port) Read(buf []byte) (int, error) {
	n, err := p.port.Read(buf)
	if err != nil {
		return n, usbtin.NewTransportError("read", p.name, err, usbtin.ErrorTypeTransient)
	}
	return n, nil
}

// Write writes buf to the port.
func (p *Port) Write(buf []byte) (int, error) {
	n, err := p.port.Write(buf)
	if err != nil {
		return n, usbtin.NewTransportError("write", p.name, err, usbtin.ErrorTypeTransient)
	}
	return n, nil
}

// Close closes the serial port.
func (p *Port) Close() error {
	if err := p.port.Close(); err != nil {
		return usbtin.NewTransportError("close", p.name, err, usbtin.ErrorTypePermanent)
	}
	return nil
}

// SetReadTimeout bounds how long a single Read may block.
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	if err := p.port.SetReadTimeout(timeout); err != nil {
		return usbtin.NewTransportError("set timeout", p.name, err, usbtin.ErrorTypePermanent)
	}
	return nil
}

// ResetInputBuffer discards bytes buffered by the OS driver.
func (p *Port) ResetInputBuffer() error {
	if err := p.port.ResetInputBuffer(); err != nil {
		return usbtin.NewTransportError("flush", p.name, err, usbtin.ErrorTypeTransient)
	}
	return nil
}

// Name returns the port's path.
func (p *Port) Name() string { return p.name }
