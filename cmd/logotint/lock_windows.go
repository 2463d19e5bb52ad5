// Windows file locking via LockFileEx and UnlockFileEx.
//
// Compiled only on Windows. The Win32 LockFileEx API via
// [golang.org/x/sys/windows] keeps watch execution single-instance through
// the lock file; LOCKFILE_FAIL_IMMEDIATELY mirrors LOCK_NB on Unix.

//go:build windows

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// ///////////////////////////////////////////////
// File Locking
// ///////////////////////////////////////////////

// lockFile takes an exclusive lock on f with LockFileEx, failing immediately
// when another process holds it, which is how a second watch invocation
// discovers the first. Only the first byte is locked (length 1, offset 0);
// the lock exists for mutual exclusion, not data protection.
func lockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	if err := windows.LockFileEx(
		windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1, 0,
		ol,
	); err != nil {
		return fmt.Errorf("lock file %s: %w", f.Name(), err)
	}
	return nil
}

// unlockFile drops the exclusive lock on f via UnlockFileEx. Closing the
// handle would drop it too; the explicit call keeps shutdown ordering
// visible.
func unlockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	if err := windows.UnlockFileEx(
		windows.Handle(f.Fd()),
		0,
		1, 0,
		ol,
	); err != nil {
		return fmt.Errorf("unlock file %s: %w", f.Name(), err)
	}
	return nil
}
