//go:build windows

package main

import (
	"os"
)

// terminationSignals trigger a graceful shutdown (Ctrl+C).
var terminationSignals = []os.Signal{os.Interrupt}
