// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"sync"
)

// maxPartial bounds the bytes kept for a line that has not been terminated yet.
const maxPartial = 4096

// LastLineWriter is an io.Writer that tracks the last complete line written to it.
// It is safe for concurrent use.
type LastLineWriter struct {
	mu       sync.RWMutex
	lastLine string
	partial  []byte
}

// NewLastLineWriter returns an empty LastLineWriter.
func NewLastLineWriter() *LastLineWriter {
	return &LastLineWriter{}
}

// Write implements io.Writer. It never fails.
func (lw *LastLineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	data := p

	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}

		lw.partial = append(lw.partial, data[:i]...)
		lw.lastLine = string(bytes.TrimSuffix(lw.partial, []byte{'\r'}))
		lw.partial = lw.partial[:0]
		data = data[i+1:]
	}

	lw.partial = append(lw.partial, data...)
	if len(lw.partial) > maxPartial {
		lw.partial = lw.partial[len(lw.partial)-maxPartial:]
	}

	return len(p), nil
}

// LastLine returns the last complete line that was written.
// Returns an empty string if no complete line has been written yet.
// If maxLength > 3 and the line is longer, it is truncated and "..." appended.
func (lw *LastLineWriter) LastLine(maxLength int) string {
	lw.mu.RLock()
	defer lw.mu.RUnlock()

	result := lw.lastLine
	if maxLength > 3 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// Partial returns the data written after the last newline.
func (lw *LastLineWriter) Partial() string {
	lw.mu.RLock()
	defer lw.mu.RUnlock()

	return string(lw.partial)
}

// Reset clears the writer.
func (lw *LastLineWriter) Reset() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.lastLine = ""
	lw.partial = lw.partial[:0]
}
