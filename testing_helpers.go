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
	"bytes"
	"sync"
	"time"
)

// MockPort is an in-memory Port for tests. Bytes queued with Feed (or as
// scripted command responses) are served to Read; everything the driver
// writes is captured and split into terminator-delimited lines.
//
// Read mimics a serial read timeout: with no data buffered it returns
// (0, nil) after a short delay, which is exactly what the receive loop
// needs to keep polling.
type MockPort struct {
	// Responses maps a written command line (terminator stripped) to the
	// raw bytes the mock feeds back, emulating the adapter's synchronous
	// replies.
	Responses map[string]string

	mu      sync.Mutex
	rx      bytes.Buffer
	partial []byte
	lines   []string
	closed  bool
	readErr error
	writes  int
}

// NewMockPort creates a mock port with an empty response script.
func NewMockPort() *MockPort {
	return &MockPort{Responses: make(map[string]string)}
}

// Feed queues bytes for the driver to read, as if the adapter had sent
// them asynchronously.
func (m *MockPort) Feed(data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx.WriteString(data)
}

// Lines returns every complete line written by the driver, terminators
// stripped, in order. The reset line's leading empty command is included.
func (m *MockPort) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// LastLine returns the most recently completed written line, or "".
func (m *MockPort) LastLine() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.lines) == 0 {
		return ""
	}
	return m.lines[len(m.lines)-1]
}

// WriteCount returns the number of Write calls.
func (m *MockPort) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailReads makes all further reads return err.
func (m *MockPort) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Read serves buffered bytes, or (0, nil) after a short delay when the
// buffer is empty.
func (m *MockPort) Read(p []byte) (int, error) {
	for i := 0; i < 50; i++ {
		m.mu.Lock()
		if m.readErr != nil {
			err := m.readErr
			m.mu.Unlock()
			return 0, err
		}
		if m.rx.Len() > 0 {
			n, _ := m.rx.Read(p)
			m.mu.Unlock()
			return n, nil
		}
		m.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	return 0, nil
}

// Write captures driver output and queues any scripted response for the
// completed command lines.
func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	for _, b := range p {
		if b != lineTerminator {
			m.partial = append(m.partial, b)
			continue
		}
		line := string(m.partial)
		m.partial = m.partial[:0]
		m.lines = append(m.lines, line)
		if resp, ok := m.Responses[line]; ok {
			m.rx.WriteString(resp)
		}
	}
	return len(p), nil
}

// Close marks the port closed.
func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockPort) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetReadTimeout is a no-op; the mock always behaves like a short timeout.
func (*MockPort) SetReadTimeout(time.Duration) error { return nil }

// ResetInputBuffer discards buffered unread bytes.
func (m *MockPort) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx.Reset()
	return nil
}

// Name identifies the mock in error messages.
func (*MockPort) Name() string { return "mock" }

// HandshakeResponses returns a response script covering the connect
// sequence for the given identity strings.
func HandshakeResponses(fw, hw, serial string) map[string]string {
	return map[string]string{
		"C":     "\r",
		"v":     "v" + fw + "\r",
		"V":     "V" + hw + "\r",
		"N":     "N" + serial + "\r",
		"W2D00": "\r",
	}
}
