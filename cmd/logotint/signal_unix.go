// Unix/Darwin signal handling for graceful watch shutdown.
//
// Compiled on all non-Windows platforms (Linux, macOS, *BSD). Both SIGINT
// (Ctrl+C) and SIGTERM are handled; process managers (systemd, launchd) and
// container runtimes send the latter to request a graceful stop.

//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// ///////////////////////////////////////////////
// Signal Handling
// ///////////////////////////////////////////////

// signalChannel returns a channel that receives SIGINT and SIGTERM. The
// one-slot buffer keeps a signal from being lost while the watch loop is
// mid-pass.
func signalChannel() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}
