// Unix and Darwin file locking via flock(2).
//
// Compiled on all non-Windows platforms (Linux, macOS, *BSD). POSIX advisory
// locking via [syscall.Flock] keeps watch execution single-instance through
// the lock file.

//go:build !windows

package main

import (
	"fmt"
	"os"
	"syscall"
)

// ///////////////////////////////////////////////
// File Locking
// ///////////////////////////////////////////////

// lockFile takes an exclusive advisory lock on f with flock(2). LOCK_NB
// turns contention into an immediate EWOULDBLOCK, which is how a second
// watch invocation discovers the first.
func lockFile(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		return fmt.Errorf("lock file %s: %w", f.Name(), err)
	}
	return nil
}

// unlockFile drops the advisory flock on f. Closing the descriptor would
// drop it too; the explicit call keeps shutdown ordering visible.
func unlockFile(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("unlock file %s: %w", f.Name(), err)
	}
	return nil
}
