// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a writer that remembers the last complete line
// written to it. Command output is teed into it with io.MultiWriter so that
// long-running commands can report progress without holding the whole output.
package teereader
