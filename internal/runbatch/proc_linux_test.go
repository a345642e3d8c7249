// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build linux

package runbatch

import (
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processAlive reports whether pid exists and is not a zombie.
func processAlive(pid int) bool {
	b, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return false
	}

	// the state follows the parenthesised command name
	s := string(b)
	i := strings.LastIndexByte(s, ')')

	return i < 0 || i+2 >= len(s) || s[i+2] != 'Z'
}

func TestCommandRun_TimeoutKillsGrandchildren(t *testing.T) {
	unixOnly(t)

	opts := DefaultOptions()
	opts.Timeout = 500 * time.Millisecond

	res := RunCommand(testContext(t), "sleep 30 & echo $!; wait", opts)

	require.ErrorIs(t, res.Error, ErrTimeout)

	pid, err := strconv.Atoi(strings.TrimSpace(string(res.StdOut)))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return !processAlive(pid)
	}, 5*time.Second, 50*time.Millisecond, "grandchild %d should not outlive the timeout", pid)
}
