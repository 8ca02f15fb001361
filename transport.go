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
	"io"
	"time"
)

// Port is the byte-oriented duplex connection to the adapter. The serial
// implementation lives in transport/serial; tests use MockPort.
//
// Read must honour the configured read timeout and return (0, nil) when it
// expires with no data, so the background receive loop can poll without
// blocking forever.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds how long a single Read may block.
	SetReadTimeout(timeout time.Duration) error

	// ResetInputBuffer discards unread bytes buffered on the connection.
	ResetInputBuffer() error
}

// PortName returns the name of a port for error reporting, or "" when the
// implementation does not expose one.
func PortName(p Port) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
