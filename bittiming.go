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
	"math"
)

// DefaultOscillator is the adapter's controller clock in Hz.
const DefaultOscillator = 24_000_000

// presetRates maps the adapter's fixed-rate channel-open commands.
var presetRates = map[uint32]byte{
	10_000:    '0',
	20_000:    '1',
	50_000:    '2',
	100_000:   '3',
	125_000:   '4',
	250_000:   '5',
	500_000:   '6',
	800_000:   '7',
	1_000_000: '8',
}

// cnfValues holds the controller timing-segment configuration for each bit
// length, indexed by quanta-per-bit minus 11.
var cnfValues = [13]uint16{
	0x9203, 0x9303, 0x9B03, 0x9B04, 0x9C04, 0xA404, 0xA405,
	0xAC05, 0xAC06, 0xAD06, 0xB506, 0xB507, 0xBD07,
}

// BitTiming is the channel-open timing selected for a requested bit rate.
// For the nine preset rates Command is the preset form ("S4"); otherwise it
// carries the computed prescaler and segment registers ("sc29303"). The
// register search is an approximation: Achieved reports the bit rate the
// controller will actually run at, which may differ slightly from the
// request.
type BitTiming struct {
	Command   string
	Achieved  float64
	Quanta    int
	Prescaler int
	Preset    bool
}

// TimingForBitrate computes the channel-open timing for a bit rate at the
// default oscillator.
func TimingForBitrate(bitrate uint32) BitTiming {
	return timingForBitrate(bitrate, DefaultOscillator)
}

func timingForBitrate(bitrate uint32, fosc float64) BitTiming {
	if c, ok := presetRates[bitrate]; ok {
		return BitTiming{
			Command:  "S" + string(c),
			Achieved: float64(bitrate),
			Preset:   true,
		}
	}

	// Quanta per bit at prescaler 1; the search picks the bit length x
	// (11..23 quanta) and even prescaler whose product lands closest.
	desired := fosc / float64(bitrate)

	var bestQuanta, bestPrescaler int
	var bestDiff float64
	for x := 11; x <= 23; x++ {
		// Round the prescaler to the next even value, working at a
		// x10 scale so .5 steps survive the rounding.
		brp := desired * 10 / float64(x)
		m := math.Mod(brp, 20)
		if m >= 10 {
			brp += 20
		}
		brp -= m
		brp /= 10
		if brp < 2 {
			brp = 2
		}
		if brp > 128 {
			brp = 128
		}

		diff := math.Abs(desired - float64(x)*brp)
		// Strict < keeps the first (smallest bit length) candidate on
		// equal deviation.
		if bestQuanta == 0 || diff < bestDiff {
			bestQuanta = x
			bestPrescaler = int(brp)
			bestDiff = diff
		}
	}

	reg := bestPrescaler/2 - 1
	return BitTiming{
		Command:   fmt.Sprintf("s%02x%04x", reg|0xC0, cnfValues[bestQuanta-11]),
		Achieved:  fosc / float64((reg+1)*2) / float64(bestQuanta),
		Quanta:    bestQuanta,
		Prescaler: bestPrescaler,
	}
}
