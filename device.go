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
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// defaultTimeout bounds synchronous command/response reads.
	defaultTimeout = 1 * time.Second

	// streamReadTimeout is the per-read timeout while the receive loop
	// runs; short enough that the loop observes shutdown promptly.
	streamReadTimeout = 4 * time.Millisecond

	// settleDelay follows the reset line during connect, giving the
	// adapter time to leave whatever state the previous session left it
	// in.
	settleDelay = 100 * time.Millisecond
)

// Mode selects how a CAN channel is opened.
type Mode int

const (
	// ModeActive takes part in bus traffic, acknowledging and sending.
	ModeActive Mode = iota
	// ModeListenOnly never drives the bus; sending is not possible.
	ModeListenOnly
	// ModeLoopback echoes sent frames back without touching the bus.
	ModeLoopback
)

// Device is one open session with a USBtin adapter.
//
// Synchronous commands (Connect, OpenChannel, CloseChannel, WriteRegister,
// SetFilters) are only valid while the background receive loop is stopped.
// Send and the listener registry may be used from any goroutine while a
// channel is open.
type Device struct {
	port Port

	timeout    time.Duration
	retry      *RetryConfig
	oscillator float64

	firmwareVersion string
	hardwareVersion string
	serialNumber    string

	table atomic.Pointer[SignalTable]

	listenerMu sync.RWMutex
	listeners  []Listener

	tx        *txQueue
	rx        *rxLoop
	timing    BitTiming
	streaming atomic.Bool
}

// Connect establishes a session over an open port: it forces the adapter
// into configuration mode, captures the firmware and hardware version and
// the serial number, and clears the controller's overflow flags. The caller
// keeps ownership of the port until Connect succeeds.
func Connect(port Port, opts ...Option) (*Device, error) {
	d := &Device{
		port:       port,
		timeout:    defaultTimeout,
		retry:      DefaultRetryConfig(),
		oscillator: DefaultOscillator,
	}
	d.tx = newTxQueue(d.writeFrame)

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if err := retryWithConfig(d.retry, d.handshake); err != nil {
		return nil, err
	}
	return d, nil
}

// handshake runs the connect sequence from §"configuration mode" of the
// adapter manual: reset line, settle, flush, close command, identity
// queries, overflow-flag clear.
func (d *Device) handshake() error {
	if err := d.port.SetReadTimeout(d.timeout); err != nil {
		return d.transportErr("set timeout", err, ErrorTypePermanent)
	}

	// \rC\r terminates any half-written command and closes the channel,
	// forcing configuration mode from any prior state.
	if err := d.writeRaw("\rC\r"); err != nil {
		return err
	}
	time.Sleep(settleDelay)
	if err := d.port.ResetInputBuffer(); err != nil {
		return d.transportErr("flush", err, ErrorTypeTransient)
	}

	if err := d.writeRaw("C\r"); err != nil {
		return err
	}
	if err := d.drainLine(); err != nil {
		return err
	}

	fw, err := d.command("v")
	if err != nil {
		return err
	}
	hw, err := d.command("V")
	if err != nil {
		return err
	}
	sn, err := d.command("N")
	if err != nil {
		return err
	}
	d.firmwareVersion = stripEcho(fw)
	d.hardwareVersion = stripEcho(hw)
	d.serialNumber = stripEcho(sn)
	debugf("connected to USBtin fw %s, hw %s (serial %s)",
		d.firmwareVersion, d.hardwareVersion, d.serialNumber)

	// Clear the controller's receive-overflow flags left from earlier
	// sessions.
	if _, err := d.command("W2D00"); err != nil {
		return err
	}
	return nil
}

// stripEcho drops the one-character command echo that prefixes every
// synchronous reply.
func stripEcho(resp string) string {
	if resp == "" {
		return resp
	}
	return resp[1:]
}

// Disconnect stops the receive loop, then closes the port. The loop is
// always terminated before the port is released, even if earlier
// operations failed.
func (d *Device) Disconnect() error {
	d.stopRXLoop()
	if err := d.port.Close(); err != nil {
		return d.transportErr("close", err, ErrorTypePermanent)
	}
	return nil
}

// OpenChannel configures the bit rate, opens the CAN channel in the given
// mode and starts the background receive loop. Unknown modes fall back to
// listen-only, the safest bus state.
func (d *Device) OpenChannel(bitrate uint32, mode Mode) error {
	if d.streaming.Load() {
		return ErrChannelOpen
	}

	timing := timingForBitrate(bitrate, d.oscillator)
	if !timing.Preset {
		debugf("no preset for bit rate %d, using %s (achieved %.0f bit/s)",
			bitrate, timing.Command, timing.Achieved)
	}
	if _, err := d.command(timing.Command); err != nil {
		return err
	}
	d.timing = timing

	if _, err := d.command(string(modeCommand(mode))); err != nil {
		return err
	}

	if err := d.port.SetReadTimeout(streamReadTimeout); err != nil {
		return d.transportErr("set timeout", err, ErrorTypePermanent)
	}
	d.startRXLoop()
	return nil
}

func modeCommand(mode Mode) byte {
	switch mode {
	case ModeActive:
		return 'O'
	case ModeLoopback:
		return 'l'
	case ModeListenOnly:
		return 'L'
	default:
		debugf("mode %d not supported, opening listen only", mode)
		return 'L'
	}
}

// CloseChannel stops the receive loop, closes the CAN channel and clears
// the cached identity strings. Pending transmit entries are dropped.
func (d *Device) CloseChannel() error {
	d.stopRXLoop()
	d.tx.Reset()
	if err := d.port.SetReadTimeout(d.timeout); err != nil {
		return d.transportErr("set timeout", err, ErrorTypePermanent)
	}
	if _, err := d.command("C"); err != nil {
		return err
	}
	d.firmwareVersion = ""
	d.hardwareVersion = ""
	d.serialNumber = ""
	return nil
}

// Send queues a frame for transmission. The head of the queue is on the
// wire; later frames follow as the adapter acknowledges. If a signal table
// is set and knows the frame's identifier, the payload length must match
// the declared length.
func (d *Device) Send(f *Frame) error {
	if !d.streaming.Load() {
		return ErrChannelClosed
	}
	if msg, ok := d.table.Load().Lookup(f.ID()); ok && f.Len() != msg.Length {
		return &DataMismatchError{ID: f.ID(), Declared: msg.Length, Got: f.Len()}
	}
	return d.tx.Enqueue(f)
}

// writeFrame puts one frame on the wire. Called by the TX queue with its
// lock held.
func (d *Device) writeFrame(f *Frame) error {
	return d.writeRaw(EncodeFrame(f) + string(lineTerminator))
}

// SetFilters programs the controller's acceptance filters. Valid only
// between Connect and OpenChannel. No chains accepts every frame.
func (d *Device) SetFilters(chains ...FilterChain) error {
	writes, err := filterRegisterWrites(chains)
	if err != nil {
		return err
	}
	for _, w := range writes {
		if err := d.WriteRegister(w.Addr, w.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegister writes one controller register. Valid only while the
// receive loop is stopped.
func (d *Device) WriteRegister(addr, value byte) error {
	_, err := d.command(fmt.Sprintf("W%02x%02x", addr, value))
	return err
}

// AddListener registers a callback invoked for every received frame, in
// registration order, from the receive loop. Listeners must return
// quickly: a blocking listener stalls all further receive processing.
func (d *Device) AddListener(fn Listener) {
	d.listenerMu.Lock()
	defer d.listenerMu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// RemoveListener unregisters a previously added callback. The argument
// must be the same function value that was registered.
func (d *Device) RemoveListener(fn Listener) error {
	d.listenerMu.Lock()
	defer d.listenerMu.Unlock()
	ptr := reflect.ValueOf(fn).Pointer()
	for i, l := range d.listeners {
		if reflect.ValueOf(l).Pointer() == ptr {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return nil
		}
	}
	return ErrListenerNotFound
}

func (d *Device) snapshotListeners() []Listener {
	d.listenerMu.RLock()
	defer d.listenerMu.RUnlock()
	return append([]Listener(nil), d.listeners...)
}

// SetSignalTable replaces the active signal table wholesale. A nil table
// disables table-backed length validation.
func (d *Device) SetSignalTable(t *SignalTable) {
	d.table.Store(t)
}

// SignalTable returns the active signal table, or nil.
func (d *Device) SignalTable() *SignalTable {
	return d.table.Load()
}

// FirmwareVersion returns the firmware version captured at connect time.
func (d *Device) FirmwareVersion() string { return d.firmwareVersion }

// HardwareVersion returns the hardware version captured at connect time.
func (d *Device) HardwareVersion() string { return d.hardwareVersion }

// SerialNumber returns the serial number captured at connect time.
func (d *Device) SerialNumber() string { return d.serialNumber }

// Timing returns the bit timing selected by the last OpenChannel.
func (d *Device) Timing() BitTiming { return d.timing }

// Port returns the underlying transport.
func (d *Device) Port() Port { return d.port }

// command performs one synchronous exchange: cmd plus terminator out, bytes
// in until the terminator. The adapter's BEL error marker surfaces as a
// ProtocolError. This path shares the stream with the receive loop and is
// a programming error while that loop runs.
func (d *Device) command(cmd string) (string, error) {
	if d.streaming.Load() {
		return "", &ProtocolError{Op: cmd, Err: ErrStreamActive}
	}
	debugf("sending [%s]", cmd)
	if err := d.writeRaw(cmd + string(lineTerminator)); err != nil {
		return "", err
	}
	return d.readResponse(cmd)
}

func (d *Device) readResponse(op string) (string, error) {
	var resp []byte
	buf := make([]byte, 1)
	for {
		n, err := d.port.Read(buf)
		if err != nil {
			return "", d.transportErr(op, err, ErrorTypeTransient)
		}
		if n == 0 {
			return "", NewTimeoutError(op, PortName(d.port))
		}
		switch buf[0] {
		case lineTerminator:
			return string(resp), nil
		case bellMarker:
			return "", &ProtocolError{Op: op, Err: ErrBell}
		default:
			resp = append(resp, buf[0])
		}
	}
}

// drainLine discards bytes until a terminator or error marker, ending the
// adapter's response to the initial close command.
func (d *Device) drainLine() error {
	buf := make([]byte, 1)
	for {
		n, err := d.port.Read(buf)
		if err != nil {
			return d.transportErr("drain", err, ErrorTypeTransient)
		}
		if n == 0 {
			return NewTimeoutError("drain", PortName(d.port))
		}
		if buf[0] == lineTerminator || buf[0] == bellMarker {
			return nil
		}
	}
}

func (d *Device) writeRaw(s string) error {
	if _, err := d.port.Write([]byte(s)); err != nil {
		return d.transportErr("write", err, ErrorTypeTransient)
	}
	return nil
}

func (d *Device) transportErr(op string, err error, errType ErrorType) error {
	return NewTransportError(op, PortName(d.port), err, errType)
}
