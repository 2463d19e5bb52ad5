// Package main implements the logotint command, which recolors a logo image
// toward a target color while preserving near-white pixels, either as a
// one-shot pass or resident in watch mode.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	rootpkg "tools.zach/dev/logotint"
	"tools.zach/dev/logotint/internal/colorspec"
	"tools.zach/dev/logotint/internal/config"
	"tools.zach/dev/logotint/internal/imageio"
	"tools.zach/dev/logotint/internal/logger"
	"tools.zach/dev/logotint/internal/paths"
	"tools.zach/dev/logotint/internal/recolor"
	"tools.zach/dev/logotint/internal/watch"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is stamped at build time via ldflags:
//   - release: -X main.version={{.Version}}  -> "0.1.0"
//   - make build: -X main.version=$(VERSION) -> "0.0.0-dev+05ffee5"
//
// A bare go build leaves it unset; [resolveVersion] then falls back to the
// VCS metadata the toolchain embeds, so dev builds still report something
// useful without git installed at runtime.
var version = "dev"

// resolveVersion returns the build version string: [version] verbatim when
// ldflags stamped it, otherwise a "dev+<hash>" tag built from the embedded
// VCS revision and dirty state.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Single Instance
// ///////////////////////////////////////////////

// pidToken returns a random 16-character hex token written alongside the
// PID. [removePID] checks it so one instance never deletes a PID file a
// different instance wrote.
func pidToken() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// checkRunning reports whether another watch instance already holds the lock
// file. It attempts to acquire the advisory lock; failure means a live owner,
// in which case pid is read from the PID file for the error message. If the
// lock succeeds, any previous instance is dead and its stale PID file is
// cleaned up.
func checkRunning(dp DataPaths) (alive bool, pid int) {
	f, err := os.OpenFile(dp.Lock(), os.O_RDWR, 0o600)
	if err != nil {
		return false, 0
	}

	if lockErr := lockFile(f); lockErr != nil {
		f.Close()
		return true, pidOwner(dp)
	}

	// Lock acquired -- previous instance is dead. Clean up stale PID file.
	_ = unlockFile(f)
	f.Close()
	os.Remove(dp.PID())
	return false, 0
}

// holdLock creates the lock file at [DataPaths.Lock] and takes the exclusive
// non-blocking advisory lock that enforces a single watch instance. The
// returned handle must stay open for the lifetime of the watch; pass it to
// [releaseLock] on shutdown.
func holdLock(dp DataPaths) (*os.File, error) {
	f, err := os.OpenFile(dp.Lock(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// releaseLock drops the advisory lock and closes the handle. The lock file
// itself stays in place; removing it would race against a concurrent
// [checkRunning] probe.
func releaseLock(f *os.File) {
	if f == nil {
		return
	}
	_ = unlockFile(f)
	f.Close()
}

// writePID records "PID:TOKEN" at [DataPaths.PID]. The lock file, not this
// one, enforces single-instance; the PID file exists for diagnostics, and the
// token lets [removePID] prove ownership before deleting it.
func writePID(dp DataPaths, token string) error {
	content := fmt.Sprintf("%d:%s", os.Getpid(), token)
	if err := os.WriteFile(dp.PID(), []byte(content), 0o600); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// removePID removes the PID file only if the stored token matches, preventing
// accidental removal of a file owned by a different watch instance.
func removePID(dp DataPaths, token string) {
	data, err := os.ReadFile(dp.PID())
	if err != nil {
		return
	}
	parts := strings.SplitN(string(data), ":", 2)
	if len(parts) == 2 && parts[1] == token {
		os.Remove(dp.PID())
	}
}

// pidOwner reads the process ID recorded in the PID file, returning 0 when
// the file is missing or malformed.
func pidOwner(dp DataPaths) int {
	data, err := os.ReadFile(dp.PID())
	if err != nil {
		return 0
	}
	parts := strings.SplitN(string(data), ":", 2)
	if p, convErr := strconv.Atoi(parts[0]); convErr == nil {
		return p
	}
	return 0
}

// ///////////////////////////////////////////////
// Usage
// ///////////////////////////////////////////////

// usage prints the command synopsis and flag defaults to the flag package's
// configured output (stderr by default).
func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s [flags] <input-image> <color>\n\n", paths.BinaryName)
	fmt.Fprintf(w, "Recolors <input-image> toward <color>, leaving near-white pixels alone.\n")
	fmt.Fprintf(w, "<color> accepts hex (\"#1D63ED\", \"F00\") or an RGB triple (\"29,99,237\",\n")
	fmt.Fprintf(w, "\"rgb(29, 99, 237)\"). The result lands next to the input under a\n")
	fmt.Fprintf(w, "_recolored_rgb(r,g,b) name tag unless -out is given.\n\nFlags:\n")
	flag.PrintDefaults()
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	var threshold int
	outPath := flag.String("out", "", "Write the result to this exact path instead of deriving one")
	flag.IntVar(&threshold, "threshold", recolor.DefaultThreshold, "Whitepoint 0-255: pixels whose darkest channel is at or above it keep their color")
	flag.IntVar(&threshold, "w", recolor.DefaultThreshold, "Shorthand for -threshold")
	watchMode := flag.Bool("watch", false, "Stay resident and re-run the recolor whenever the input changes")
	workers := flag.Int("workers", 0, "Row workers for the recolor pass (0 = one per CPU)")
	dataDir := flag.String("config", paths.DefaultRoot(), "Data directory for config, PID/lock files, and logs")
	showVersion := flag.Bool("version", false, "Print version and exit")
	quiet := flag.Bool("quiet", false, "Suppress the output path line on success")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(resolveVersion())
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}

	if threshold < 0 || threshold > 255 {
		fmt.Fprintf(os.Stderr, "threshold %d out of range [0, 255]\n\n", threshold)
		usage()
		os.Exit(2)
	}

	target, err := colorspec.Parse(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := runOptions{
		inputPath:    args[0],
		target:       target,
		outPath:      *outPath,
		threshold:    threshold,
		thresholdSet: thresholdFlagSet(),
		workers:      *workers,
		quiet:        *quiet,
	}

	dp := DataPaths{Root: *dataDir}

	if *watchMode {
		os.Exit(runWatch(dp, opts))
	}
	os.Exit(runOnce(dp, opts))
}

// thresholdFlagSet reports whether -threshold or its -w shorthand appeared on
// the command line. [config.Config.EffectiveThreshold] treats an explicit flag
// differently from the compiled-in default.
func thresholdFlagSet() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" || f.Name == "w" {
			set = true
		}
	})
	return set
}

// ///////////////////////////////////////////////
// One-Shot Run
// ///////////////////////////////////////////////

// runOnce performs a single recolor pass and prints the resolved output path.
// Warnings go to stderr through a console logger; the log file and PID/lock
// machinery are watch-mode concerns and are not touched here.
func runOnce(dp DataPaths, opts runOptions) int {
	slog.SetDefault(logger.NewConsoleLogger(os.Stderr, slog.LevelWarn))

	cfg, err := config.Load(dp.Config())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	outPath, err := recolorPass(cfg, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if !opts.quiet {
		fmt.Println(outPath)
	}
	return 0
}

// ///////////////////////////////////////////////
// Recolor Pass
// ///////////////////////////////////////////////

// runOptions carries the resolved command-line inputs shared by one-shot and
// watch runs.
type runOptions struct {
	inputPath    string
	target       colorspec.Color
	outPath      string
	threshold    int
	thresholdSet bool
	workers      int
	quiet        bool
}

// recolorPass decodes the input, applies the brightness-weighted recolor with
// the effective per-path settings from cfg, and writes the result atomically.
// Returns the path the output landed on.
func recolorPass(cfg *config.Config, opts runOptions) (string, error) {
	img, _, err := imageio.Decode(opts.inputPath)
	if err != nil {
		return "", err
	}

	target := opts.target
	if c, ok := cfg.EffectiveColor(opts.inputPath); ok {
		target = c
	}
	threshold := cfg.EffectiveThreshold(opts.inputPath, opts.threshold, opts.thresholdSet)

	workers := cfg.Recolor.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	out := recolor.ApplyWorkers(img, target, threshold, workers)

	outPath := opts.outPath
	if outPath == "" {
		outPath = paths.OutputPathIn(opts.inputPath, target, cfg.Output.Dir, cfg.ForcedExt())
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := imageio.Write(outPath, out); err != nil {
		return "", err
	}
	return outPath, nil
}

// ///////////////////////////////////////////////
// Watch Mode
// ///////////////////////////////////////////////

// runWatch sets up the data directory, single-instance lock, file logger, and
// watcher, then hands off to [runLoop]. Returns the process exit code.
func runWatch(dp DataPaths, opts runOptions) int {
	if err := os.MkdirAll(dp.Root, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: create data dir: %v\n", err)
		return 1
	}

	if alive, pid := checkRunning(dp); alive {
		fmt.Fprintf(os.Stderr, "watch already running (pid %d)\n", pid)
		return 1
	}

	if _, err := os.Stat(dp.Config()); os.IsNotExist(err) {
		if writeErr := os.WriteFile(dp.Config(), rootpkg.DefaultConfigTOML, 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write default config: %v\n", writeErr)
		}
	}

	cfg, err := config.Load(dp.Config())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: load config: %v\n", err)
		return 1
	}

	logLevel := logger.ParseLevel(cfg.Log.Level)
	log, logCloser, err := logger.NewLogger(dp.Log(), logLevel, cfg.Log.MaxSizeMB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: init logger: %v\n", err)
		return 1
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("logotint starting",
		"version", resolveVersion(),
		"input", opts.inputPath,
		"data_dir", dp.Root,
	)

	lock, err := holdLock(dp)
	if err != nil {
		slog.Error("failed to take watch lock", "error", err)
		return 1
	}
	defer releaseLock(lock)

	token := pidToken()
	if err := writePID(dp, token); err != nil {
		slog.Error("failed to write PID file", "error", err)
		return 1
	}
	defer removePID(dp, token)

	watcher, err := watch.NewWatcher(
		opts.inputPath,
		time.Duration(cfg.Watch.PollIntervalSeconds)*time.Second,
		time.Duration(cfg.Watch.DebounceMS)*time.Millisecond,
	)
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		return 1
	}
	defer watcher.Close()

	if watcher.Polling() {
		slog.Info("watching input by polling")
	}

	runLoop(watcher, cfg, opts)
	return 0
}

// ///////////////////////////////////////////////
// Event Loop
// ///////////////////////////////////////////////

// runLoop is the watch-mode event loop: one recolor pass up front, then one
// per debounced change event, until an interrupt/terminate signal arrives.
// A failed pass is logged at Fail level and the loop keeps going; the next
// change event retries it.
func runLoop(watcher *watch.Watcher, cfg *config.Config, opts runOptions) {
	sigCh := signalChannel()

	pass := func() {
		outPath, err := recolorPass(cfg, opts)
		if err != nil {
			logger.Fail(slog.Default(), "recolor pass failed", "input", opts.inputPath, "error", err)
			return
		}
		slog.Info("recolored", "input", opts.inputPath, "output", outPath)
	}

	pass()

	for {
		select {
		case <-sigCh:
			slog.Info("received shutdown signal")
			return

		case <-watcher.Events():
			slog.Debug("input changed", "path", opts.inputPath)
			pass()
		}
	}
}
