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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError(t *testing.T) {
	t.Parallel()

	inner := errors.New("device unplugged")
	err := NewTransportError("write", "/dev/ttyACM0", inner, ErrorTypePermanent)

	assert.ErrorIs(t, err, inner)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "/dev/ttyACM0")
	assert.Contains(t, err.Error(), "write")

	timeout := NewTimeoutError("read", "")
	assert.ErrorIs(t, timeout, ErrReadTimeout)
	assert.True(t, timeout.Retryable)
	assert.NotContains(t, timeout.Error(), "  ")
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", NewTimeoutError("read", "mock"), true},
		{"permanent transport", NewTransportError("open", "mock", errors.New("x"), ErrorTypePermanent), false},
		{"wrapped timeout", fmt.Errorf("connect: %w", NewTimeoutError("read", "mock")), true},
		{"bare read timeout", ErrReadTimeout, true},
		{"protocol bell", &ProtocolError{Op: "v", Err: ErrBell}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestProtocolError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &ProtocolError{Op: "S4", Err: ErrBell}
	assert.ErrorIs(t, err, ErrBell)
	assert.Contains(t, err.Error(), "S4")
}
