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

package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesUSBtin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		vidpid string
		want   bool
	}{
		{"exact", "04D8:000A", true},
		{"lowercase", "04d8:000a", true},
		{"padded", "  04d8:000A ", true},
		{"other microchip product", "04D8:00DD", false},
		{"ftdi", "0403:6001", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MatchesUSBtin(tt.vidpid))
		})
	}
}

func TestDeviceInfo_Confirmed(t *testing.T) {
	t.Parallel()

	assert.True(t, DeviceInfo{Path: "/dev/ttyACM0", VIDPID: "04d8:000a"}.Confirmed())
	assert.False(t, DeviceInfo{Path: "/dev/ttyACM1"}.Confirmed())
}

func TestNameSuggestsUSBtin(t *testing.T) {
	t.Parallel()

	assert.True(t, nameSuggestsUSBtin("USBtin CAN adapter"))
	assert.True(t, nameSuggestsUSBtin("usbtin"))
	assert.False(t, nameSuggestsUSBtin("USB Serial"))
	assert.False(t, nameSuggestsUSBtin(""))
}

func TestNormalizeVIDPID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "04D8:000A", normalizeVIDPID(" 04d8:000a "))
	assert.Equal(t, "", normalizeVIDPID(""))
}
