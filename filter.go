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

import "fmt"

// The controller has two acceptance banks: mask bank 0 feeds 2 filter
// slots, mask bank 1 feeds 4.
const (
	bank0Slots = 2
	bank1Slots = 4
)

// maskRegisterBase is the first mask register; bank b occupies
// maskRegisterBase + 4*b .. +3.
const maskRegisterBase = 0x20

// filterStartRegisters holds the first register of each of the six filter
// slots.
var filterStartRegisters = [bank0Slots + bank1Slots]byte{0x00, 0x04, 0x08, 0x10, 0x14, 0x18}

// FilterMask is one pre-encoded 4-byte acceptance mask or filter register
// group. Mask bits select which identifier/data bits a filter must match;
// a zero mask accepts everything.
type FilterMask struct {
	registers [4]byte
}

// NewStandardFilterMask encodes a mask or filter for standard identifiers.
// d0 and d1 match against the first two payload bytes.
func NewStandardFilterMask(id uint16, d0, d1 byte) FilterMask {
	return FilterMask{registers: [4]byte{
		byte(id >> 3),
		byte(id&0x07) << 5,
		d0,
		d1,
	}}
}

// NewExtendedFilterMask encodes a mask or filter for extended identifiers.
func NewExtendedFilterMask(id uint32) FilterMask {
	return FilterMask{registers: [4]byte{
		byte(id >> 21),
		byte((id>>16)&0x03) | byte((id>>13)&0xE0),
		byte(id >> 8),
		byte(id),
	}}
}

// Registers returns the controller register values of the mask.
func (m FilterMask) Registers() [4]byte { return m.registers }

// FilterChain is one hardware acceptance chain: a mask plus an ordered list
// of filters checked under that mask. The adapter supports up to two
// chains, one per mask bank.
type FilterChain struct {
	filters []FilterMask
	mask    FilterMask
}

// NewFilterChain creates a filter chain.
func NewFilterChain(mask FilterMask, filters ...FilterMask) FilterChain {
	return FilterChain{mask: mask, filters: filters}
}

// Mask returns the chain's acceptance mask.
func (c FilterChain) Mask() FilterMask { return c.mask }

// Filters returns the chain's filters in order.
func (c FilterChain) Filters() []FilterMask { return c.filters }

// RegisterWrite is one controller register write (Waavv on the wire).
type RegisterWrite struct {
	Addr  byte
	Value byte
}

// filterRegisterWrites maps filter chains onto the controller's mask and
// filter registers.
//
// No chains writes all-zero masks to both banks so every frame is accepted.
// With two chains the one with fewer filters is placed on bank 0 (2 slots);
// chain lengths beyond the bank capacities (2/4) are configuration errors.
// Each bank's mask comes from the chain occupying it; the six filter slots
// are filled from the chains' filters in order, switching to the second
// chain once the first is exhausted and zero-padding any slots left over.
func filterRegisterWrites(chains []FilterChain) ([]RegisterWrite, error) {
	var writes []RegisterWrite
	writeGroup := func(start byte, regs [4]byte) {
		for i, v := range regs {
			writes = append(writes, RegisterWrite{Addr: start + byte(i), Value: v})
		}
	}

	if len(chains) == 0 {
		writeGroup(maskRegisterBase, [4]byte{})
		writeGroup(maskRegisterBase+4, [4]byte{})
		return writes, nil
	}
	if len(chains) > 2 {
		return nil, fmt.Errorf("%w: %d (maximum is 2)", ErrTooManyFilterChains, len(chains))
	}

	cs := append([]FilterChain(nil), chains...)
	if len(cs) == 2 {
		if len(cs[0].filters) > len(cs[1].filters) {
			cs[0], cs[1] = cs[1], cs[0]
		}
		if len(cs[0].filters) > bank0Slots || len(cs[1].filters) > bank1Slots {
			return nil, fmt.Errorf("%w: %d/%d (maximum is %d/%d)",
				ErrFilterChainTooLong, len(cs[0].filters), len(cs[1].filters), bank0Slots, bank1Slots)
		}
	} else if len(cs[0].filters) > bank1Slots {
		return nil, fmt.Errorf("%w: %d (maximum is %d)", ErrFilterChainTooLong, len(cs[0].filters), bank1Slots)
	}

	chain, next := 0, 0
	advance := func() {
		if next >= len(cs[chain].filters) && chain+1 < len(cs) {
			chain++
			next = 0
		}
	}

	slot := 0
	for bank := 0; bank < 2; bank++ {
		advance()
		writeGroup(maskRegisterBase+byte(4*bank), cs[chain].mask.registers)
		for i := 0; i < 2*(1+bank); i++ {
			advance()
			var regs [4]byte
			if next < len(cs[chain].filters) {
				regs = cs[chain].filters[next].registers
				next++
			}
			writeGroup(filterStartRegisters[slot], regs)
			slot++
		}
	}
	return writes, nil
}
