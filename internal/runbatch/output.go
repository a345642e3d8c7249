// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/matt-FFFFFF/chore/internal/teereader"
)

// readAllUpToMax reads r until EOF, keeping at most maxBufferSize bytes.
// Everything read, including discarded bytes, is copied to tee.
// The remainder is drained so that the writer never blocks on a full pipe.
func readAllUpToMax(r io.Reader, maxBufferSize int64, tee io.Writer) ([]byte, bool, error) {
	var buf bytes.Buffer

	src := io.TeeReader(r, tee)

	n, err := io.CopyN(&buf, src, maxBufferSize+1)
	if err != nil && !isEOF(err) {
		return buf.Bytes(), false, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n <= maxBufferSize {
		return buf.Bytes(), false, nil
	}

	if _, err := io.Copy(io.Discard, src); err != nil && !isEOF(err) {
		return buf.Bytes()[:maxBufferSize], true, errors.Join(ErrFailedToReadBuffer, err)
	}

	return buf.Bytes()[:maxBufferSize], true, nil
}

// isEOF also accepts a read end closed by the runner after the drain deadline.
func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed)
}

type stream struct {
	data      []byte
	truncated bool
	err       error
}

// tails tracks the last line of each output stream separately so that a
// partial stdout line is never joined to stderr output.
type tails struct {
	stdout *teereader.LastLineWriter
	stderr *teereader.LastLineWriter
}

func newTails() tails {
	return tails{
		stdout: teereader.NewLastLineWriter(),
		stderr: teereader.NewLastLineWriter(),
	}
}

// logAttrs returns the progress log attributes, omitting streams with no complete line.
func (t tails) logAttrs(maxLength int) []any {
	var attrs []any

	if line := t.stdout.LastLine(maxLength); line != "" {
		attrs = append(attrs, "lastLine", line)
	}

	if line := t.stderr.LastLine(maxLength); line != "" {
		attrs = append(attrs, "lastErrLine", line)
	}

	return attrs
}
