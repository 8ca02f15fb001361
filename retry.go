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

import "time"

// RetryConfig bounds how often the connect handshake is retried. USB CDC
// adapters tend to answer with timeouts for a moment right after
// enumeration, so a couple of spaced attempts make Connect reliable.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryConfig returns the default handshake retry behavior.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		Delay:       100 * time.Millisecond,
	}
}

// retryWithConfig runs op until it succeeds, fails permanently, or the
// attempt budget is spent. Only errors IsRetryable reports as transient
// are retried.
func retryWithConfig(config *RetryConfig, op func() error) error {
	attempts := 1
	if config != nil && config.MaxAttempts > 1 {
		attempts = config.MaxAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if !IsRetryable(err) || i == attempts-1 {
			return err
		}
		if config.Delay > 0 {
			time.Sleep(config.Delay)
		}
	}
	return err
}
