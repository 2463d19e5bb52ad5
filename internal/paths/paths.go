// Package paths centralizes file and directory names used across the
// project, the data directory resolution, and the default output naming
// for recolored images.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tools.zach/dev/logotint/internal/colorspec"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// File names kept inside the data directory.
const (
	ConfigFile = "config.toml"
	LogFile    = "logotint.log"
	PIDFile    = "watch.pid"
	LockFile   = "watch.lock"
)

// EnvDataDir is the environment variable overriding the data directory.
const EnvDataDir = "LOGOTINT_DATA_DIR"

// DataDirRel is the default data directory relative to $HOME.
const DataDirRel = ".logotint"

// BinaryName is the name of the main executable.
const BinaryName = "logotint"

// recoloredTag separates the input stem from the color in derived
// output filenames.
const recoloredTag = "_recolored_"

// ///////////////////////////////////////////////
// Data Directory
// ///////////////////////////////////////////////

// DefaultRoot returns the data directory root: $LOGOTINT_DATA_DIR when
// set, else ~/.logotint. Falls back to ./.logotint if the home
// directory cannot be determined.
func DefaultRoot() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DataDirRel)
	}
	return filepath.Join(home, DataDirRel)
}

// DataDir builds the paths of the files logotint keeps under one root.
type DataDir struct {
	Root string
}

// Config returns the config file path.
func (d DataDir) Config() string { return filepath.Join(d.Root, ConfigFile) }

// Log returns the log file path.
func (d DataDir) Log() string { return filepath.Join(d.Root, LogFile) }

// PID returns the full path to the watch-mode PID file.
func (d DataDir) PID() string { return filepath.Join(d.Root, PIDFile) }

// Lock returns the full path to the watch-mode lock file.
func (d DataDir) Lock() string { return filepath.Join(d.Root, LockFile) }

// ///////////////////////////////////////////////
// Output Naming
// ///////////////////////////////////////////////

// OutputPath derives the default output path for input recolored to
// target: the canonical color rendering goes before the input's
// extension, same directory. "logo.png" with rgb(0,0,255) becomes
// "logo_recolored_rgb(0,0,255).png". An input without an extension
// gets the tag appended (and encodes as PNG downstream).
func OutputPath(input string, target colorspec.Color) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	return fmt.Sprintf("%s%s%s%s", stem, recoloredTag, target, ext)
}

// OutputPathIn is [OutputPath] with the configured output placement
// applied: a non-empty dir moves the file there, a non-empty forceExt
// (leading dot included) replaces the input's extension.
func OutputPathIn(input string, target colorspec.Color, dir, forceExt string) string {
	out := OutputPath(input, target)
	if forceExt != "" {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + forceExt
	}
	if dir != "" {
		out = filepath.Join(dir, filepath.Base(out))
	}
	return out
}
