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
	"time"
)

// Option is a functional option for Connect.
type Option func(*Device) error

// WithTimeout sets the timeout for synchronous command/response reads.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return fmt.Errorf("invalid timeout %v", timeout)
		}
		d.timeout = timeout
		return nil
	}
}

// WithRetryConfig sets the retry behavior of the connect handshake.
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		if config == nil {
			config = DefaultRetryConfig()
		}
		d.retry = config
		return nil
	}
}

// WithOscillator overrides the controller clock used by the bit-timing
// search, for adapters built around a non-standard crystal.
func WithOscillator(hz float64) Option {
	return func(d *Device) error {
		if hz <= 0 {
			return fmt.Errorf("invalid oscillator frequency %g", hz)
		}
		d.oscillator = hz
		return nil
	}
}

// WithSignalTable sets the active signal table at connect time.
func WithSignalTable(t *SignalTable) Option {
	return func(d *Device) error {
		d.table.Store(t)
		return nil
	}
}

// WithDebug enables protocol-level debug logging for the whole package.
func WithDebug(enable bool) Option {
	return func(*Device) error {
		SetDebug(enable)
		return nil
	}
}
