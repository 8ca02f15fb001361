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
)

// Sentinel errors returned by device and frame operations.
var (
	// ErrBell indicates the adapter answered a command with its BEL error
	// marker (the command was rejected or the controller reported a fault).
	ErrBell = errors.New("device signalled BEL")

	// ErrStreamActive is returned when a synchronous command/response
	// exchange is attempted while the background receive loop owns the
	// serial stream.
	ErrStreamActive = errors.New("synchronous command while receive loop is active")

	// ErrChannelClosed is returned by Send when no CAN channel is open.
	ErrChannelClosed = errors.New("CAN channel is not open")

	// ErrChannelOpen is returned by operations that are only valid in
	// configuration mode while a CAN channel is open.
	ErrChannelOpen = errors.New("CAN channel is already open")

	// ErrReadTimeout indicates a synchronous read did not complete within
	// the port's read timeout.
	ErrReadTimeout = errors.New("read timeout")

	// ErrIndexRange is returned for payload byte indices outside 0..7.
	ErrIndexRange = errors.New("byte index outside 0..7")

	// ErrInvalidLength is returned for payload lengths above 8 bytes.
	ErrInvalidLength = errors.New("payload length above 8 bytes")

	// ErrLengthUnavailable is returned when a frame is constructed for an
	// identifier the signal table does not know and neither payload data
	// nor an explicit length was supplied.
	ErrLengthUnavailable = errors.New("no length information available")

	// ErrListenerNotFound is returned when removing a listener that was
	// never registered.
	ErrListenerNotFound = errors.New("listener not registered")

	// ErrUnknownMessage is returned by signal access when the frame's
	// identifier is not present in the signal table.
	ErrUnknownMessage = errors.New("identifier not in signal table")

	// ErrUnknownSignal is returned by signal access when the signal name is
	// not defined for the frame's identifier.
	ErrUnknownSignal = errors.New("signal not defined for identifier")

	// ErrTooManyFilterChains is returned by SetFilters for more than two
	// filter chains (the controller has two hardware mask banks).
	ErrTooManyFilterChains = errors.New("too many filter chains")

	// ErrFilterChainTooLong is returned when a filter chain does not fit
	// its hardware bank (2 filters for bank 0, 4 for bank 1).
	ErrFilterChainTooLong = errors.New("filter chain too long")
)

// ErrorType classifies transport errors for retry decisions.
type ErrorType int

const (
	// ErrorTypeTransient marks errors worth retrying (timeouts, short
	// reads while the adapter enumerates).
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent marks errors that will not go away on retry.
	ErrorTypePermanent
)

// TransportError wraps a failure of the underlying serial connection.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// NewTransportError creates a TransportError for the given operation.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Err:       err,
		Op:        op,
		Port:      port,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient,
	}
}

// NewTimeoutError creates a retryable TransportError for a read timeout.
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrReadTimeout, ErrorTypeTransient)
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("usbtin: %s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("usbtin: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates the adapter violated the line protocol during a
// synchronous exchange, or that the exchange was attempted at the wrong
// time. It wraps ErrBell or ErrStreamActive.
type ProtocolError struct {
	Err error
	Op  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("usbtin: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// DataMismatchError indicates a frame's payload length disagrees with the
// length the signal table declares for its identifier.
type DataMismatchError struct {
	ID       uint32
	Declared int
	Got      int
}

func (e *DataMismatchError) Error() string {
	return fmt.Sprintf("usbtin: CAN id 0x%x length mismatch: table declares %d but %d was supplied",
		e.ID, e.Declared, e.Got)
}

// IsRetryable reports whether an operation that failed with err is worth
// retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return errors.Is(err, ErrReadTimeout)
}
