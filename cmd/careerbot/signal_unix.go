//go:build !windows

package main

import (
	"os"
	"syscall"
)

// terminationSignals trigger a graceful shutdown. Process managers send SIGTERM.
var terminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
