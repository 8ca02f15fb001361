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
	"log"
	"os"
	"sync/atomic"
)

var debugEnabled atomic.Bool

func init() {
	if os.Getenv("USBTIN_DEBUG") != "" {
		debugEnabled.Store(true)
	}
}

// SetDebug toggles protocol-level debug logging to the standard logger.
func SetDebug(enable bool) {
	debugEnabled.Store(enable)
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf("usbtin: "+format, args...)
	}
}
