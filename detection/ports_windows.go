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

//go:build windows

package detection

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// getSerialPorts returns COM ports on Windows. Port names come from the
// SERIALCOMM device map; USB identity is recovered from the usbser
// enumerator entries, whose device ids embed VID_xxxx&PID_xxxx.
func getSerialPorts() ([]serialPort, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DEVICEMAP\SERIALCOMM`, registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("failed to open SERIALCOMM registry key: %w", err)
	}
	defer key.Close()

	values, err := key.ReadValueNames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate SERIALCOMM values: %w", err)
	}

	identities := usbserIdentities()

	ports := make([]serialPort, 0, len(values))
	for _, value := range values {
		portName, _, err := key.GetStringValue(value)
		if err != nil {
			continue
		}
		ports = append(ports, serialPort{
			Path:   portName,
			Name:   portName,
			VIDPID: identities[portName],
		})
	}
	return ports, nil
}

var vidpidPattern = regexp.MustCompile(`VID_([0-9A-Fa-f]{4})&PID_([0-9A-Fa-f]{4})`)

// usbserIdentities maps COM port names to VID:PID by walking the usbser
// enumerator tree under CurrentControlSet.
func usbserIdentities() map[string]string {
	identities := make(map[string]string)

	root, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Enum\USB`, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return identities
	}
	defer root.Close()

	deviceIDs, err := root.ReadSubKeyNames(-1)
	if err != nil {
		return identities
	}

	for _, deviceID := range deviceIDs {
		m := vidpidPattern.FindStringSubmatch(deviceID)
		if m == nil {
			continue
		}
		vidpid := strings.ToUpper(m[1] + ":" + m[2])

		instances, err := subKeyNames(root, deviceID)
		if err != nil {
			continue
		}
		for _, instance := range instances {
			portName := instancePortName(deviceID, instance)
			if portName != "" {
				identities[portName] = vidpid
			}
		}
	}
	return identities
}

func subKeyNames(root registry.Key, name string) ([]string, error) {
	key, err := registry.OpenKey(root, name, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer key.Close()
	return key.ReadSubKeyNames(-1)
}

func instancePortName(deviceID, instance string) string {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Enum\USB\`+deviceID+`\`+instance+`\Device Parameters`,
		registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer key.Close()

	portName, _, err := key.GetStringValue("PortName")
	if err != nil {
		return ""
	}
	return portName
}
