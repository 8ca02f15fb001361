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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingForBitrate_Presets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitrate uint32
		command string
	}{
		{10_000, "S0"},
		{20_000, "S1"},
		{50_000, "S2"},
		{100_000, "S3"},
		{125_000, "S4"},
		{250_000, "S5"},
		{500_000, "S6"},
		{800_000, "S7"},
		{1_000_000, "S8"},
	}

	for _, tt := range tests {
		timing := TimingForBitrate(tt.bitrate)
		assert.True(t, timing.Preset, "bitrate %d", tt.bitrate)
		assert.Equal(t, tt.command, timing.Command, "bitrate %d", tt.bitrate)
		assert.Equal(t, float64(tt.bitrate), timing.Achieved, "bitrate %d", tt.bitrate)
	}
}

func TestTimingForBitrate_Registers(t *testing.T) {
	t.Parallel()

	// 333 kbit/s at 24 MHz: 12 quanta * prescaler 6 gives 333333 bit/s,
	// the closest the controller can get. Equal deviation at 18 quanta
	// loses to the shorter bit because the search keeps the first hit.
	timing := TimingForBitrate(333_000)
	assert.False(t, timing.Preset)
	assert.Equal(t, 12, timing.Quanta)
	assert.Equal(t, 6, timing.Prescaler)
	assert.Equal(t, "sc29303", timing.Command)
	assert.InDelta(t, 333_333.3, timing.Achieved, 1)
}

func TestTimingForBitrate_SearchBounds(t *testing.T) {
	t.Parallel()

	for _, bitrate := range []uint32{5_000, 33_333, 47_619, 83_333, 333_000, 600_000, 2_000_000} {
		timing := timingForBitrate(bitrate, DefaultOscillator)
		assert.False(t, timing.Preset, "bitrate %d", bitrate)
		assert.GreaterOrEqual(t, timing.Quanta, 11, "bitrate %d", bitrate)
		assert.LessOrEqual(t, timing.Quanta, 23, "bitrate %d", bitrate)
		assert.GreaterOrEqual(t, timing.Prescaler, 2, "bitrate %d", bitrate)
		assert.LessOrEqual(t, timing.Prescaler, 128, "bitrate %d", bitrate)
		assert.Zero(t, timing.Prescaler%2, "bitrate %d: prescaler must be even", bitrate)
		assert.Len(t, timing.Command, 7, "bitrate %d", bitrate)
		assert.Equal(t, byte('s'), timing.Command[0], "bitrate %d", bitrate)
		assert.Positive(t, timing.Achieved, "bitrate %d", bitrate)
	}
}

func TestTimingForBitrate_CommonNonPreset(t *testing.T) {
	t.Parallel()

	// 83.333 kbit/s, a common body-bus rate: 12 quanta * prescaler 24.
	timing := TimingForBitrate(83_333)
	assert.Equal(t, 12, timing.Quanta)
	assert.Equal(t, 24, timing.Prescaler)
	assert.InDelta(t, 83_333.3, timing.Achieved, 1)
}
