// Windows signal handling for graceful watch shutdown.
//
// Compiled only on Windows, which has no POSIX SIGTERM; only [os.Interrupt]
// (Ctrl+C / CTRL_C_EVENT) is registered. The Go runtime maps
// CTRL_BREAK_EVENT and console-close events onto os.Interrupt as well.

//go:build windows

package main

import (
	"os"
	"os/signal"
)

// ///////////////////////////////////////////////
// Signal Handling
// ///////////////////////////////////////////////

// signalChannel returns a channel that receives os.Interrupt. The one-slot
// buffer keeps a signal from being lost while the watch loop is mid-pass.
func signalChannel() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch
}
