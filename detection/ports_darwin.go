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

//go:build darwin

package detection

import (
	"fmt"
	"path/filepath"
)

// getSerialPorts returns USB modem callout devices on macOS. The CDC-ACM
// class driver exposes no VID/PID through the device name, so all ports
// are reported as unconfirmed candidates.
func getSerialPorts() ([]serialPort, error) {
	paths, err := filepath.Glob("/dev/cu.usbmodem*")
	if err != nil {
		return nil, fmt.Errorf("failed to list serial devices: %w", err)
	}

	ports := make([]serialPort, 0, len(paths))
	for _, path := range paths {
		ports = append(ports, serialPort{
			Path: path,
			Name: filepath.Base(path),
		})
	}
	return ports, nil
}
