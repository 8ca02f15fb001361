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

// Package detection enumerates serial ports that look like USBtin
// adapters. Detection is passive: it inspects port metadata only and never
// opens a port, so it is safe to run while other software holds devices.
package detection

import (
	"sort"
	"strings"
)

// USBtinVIDPID is the adapter's USB vendor/product id (a Microchip
// CDC-ACM identity).
const USBtinVIDPID = "04D8:000A"

// DeviceInfo describes one candidate serial port.
type DeviceInfo struct {
	// Path is the name to pass to transport/serial.Open.
	Path string
	// Name is a human-readable description, when the OS provides one.
	Name string
	// VIDPID is the USB vendor/product id as "VVVV:PPPP", or "".
	VIDPID string
}

// Confirmed reports whether the port's USB identity matches a USBtin.
func (d DeviceInfo) Confirmed() bool {
	return MatchesUSBtin(d.VIDPID)
}

// serialPort is what the per-OS scanners return.
type serialPort struct {
	Path   string
	Name   string
	VIDPID string
}

// Detect returns candidate USBtin ports, confirmed identities first. Ports
// whose USB identity is known and is not a USBtin are dropped; ports with
// no identity metadata are kept as unconfirmed candidates.
func Detect() ([]DeviceInfo, error) {
	ports, err := getSerialPorts()
	if err != nil {
		return nil, err
	}

	devices := make([]DeviceInfo, 0, len(ports))
	for _, p := range ports {
		if p.VIDPID != "" && !MatchesUSBtin(p.VIDPID) && !nameSuggestsUSBtin(p.Name) {
			continue
		}
		devices = append(devices, DeviceInfo{
			Path:   p.Path,
			Name:   p.Name,
			VIDPID: normalizeVIDPID(p.VIDPID),
		})
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confirmed() && !devices[j].Confirmed()
	})
	return devices, nil
}

// MatchesUSBtin reports whether a "VVVV:PPPP" identity is a USBtin.
func MatchesUSBtin(vidpid string) bool {
	return normalizeVIDPID(vidpid) == USBtinVIDPID
}

func nameSuggestsUSBtin(name string) bool {
	return strings.Contains(strings.ToLower(name), "usbtin")
}

func normalizeVIDPID(vidpid string) string {
	return strings.ToUpper(strings.TrimSpace(vidpid))
}
