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

//go:build linux

package detection

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// getSerialPorts returns CDC-ACM serial ports on Linux, reading USB
// identity from sysfs where available.
func getSerialPorts() ([]serialPort, error) {
	paths, err := filepath.Glob("/dev/ttyACM*")
	if err != nil {
		return nil, fmt.Errorf("failed to list serial devices: %w", err)
	}

	ports := make([]serialPort, 0, len(paths))
	for _, path := range paths {
		ports = append(ports, serialPort{
			Path:   path,
			Name:   byIDName(path),
			VIDPID: sysfsVIDPID(filepath.Base(path)),
		})
	}
	return ports, nil
}

// byIDName resolves the descriptive /dev/serial/by-id alias for a device
// path, or "".
func byIDName(devPath string) string {
	links, err := filepath.Glob("/dev/serial/by-id/*")
	if err != nil {
		return ""
	}
	for _, link := range links {
		target, err := filepath.EvalSymlinks(link)
		if err != nil {
			continue
		}
		if target == devPath {
			return filepath.Base(link)
		}
	}
	return ""
}

// sysfsVIDPID reads the USB vendor/product id for a tty from sysfs.
func sysfsVIDPID(tty string) string {
	// /sys/class/tty/ttyACM0/device is the interface; its parent is the
	// USB device holding idVendor/idProduct.
	base, err := filepath.EvalSymlinks(filepath.Join("/sys/class/tty", tty, "device"))
	if err != nil {
		return ""
	}
	usbDev := filepath.Dir(base)
	vid := readSysfsValue(filepath.Join(usbDev, "idVendor"))
	pid := readSysfsValue(filepath.Join(usbDev, "idProduct"))
	if vid == "" || pid == "" {
		return ""
	}
	return strings.ToUpper(vid + ":" + pid)
}

func readSysfsValue(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
