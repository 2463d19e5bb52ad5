package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc carries the annotation genconfig writes above one config field
// in the generated config.default.toml.
type FieldDoc struct {
	// Comment appears above the field, one "# " line per newline segment.
	Comment string

	// Alternatives render as commented-out example lines below the value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ConfigDocs keys TOML field paths (dot-separated, "recolor.threshold") to
// their annotations. Section headers document under their bare name
// ("recolor"); genconfig walks this map while writing config.default.toml.
var ConfigDocs = map[string]FieldDoc{
	// ── Root ──────────────────────────────────────────────────────
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	// ── Recolor ──────────────────────────────────────────────────
	"recolor": {
		Comment: "Recolor defaults, used when the command line doesn't say otherwise.",
	},
	"recolor.threshold": {
		Comment: "Whitepoint threshold (0-255). Pixels whose darkest channel is at or\nabove this value keep their original color; darker pixels blend toward\nthe target color. Lower values preserve more of the image.",
		Alternatives: []string{
			`threshold = 250`,
		},
	},
	"recolor.workers": {
		Comment: "Row workers for the recolor pass. 0 = one per CPU core.",
		Alternatives: []string{
			`workers = 4`,
		},
	},

	// ── Output ───────────────────────────────────────────────────
	"output": {
		Comment: "Where and how recolored files are written.",
	},
	"output.dir": {
		Comment: "Write outputs into this directory instead of next to the input.\nEmpty = same directory as the input.",
		Alternatives: []string{
			`dir = "C:/Users/Zach/recolored"`,
		},
	},
	"output.force_ext": {
		Comment: "Re-encode output in this format regardless of the input extension.\nOptions: \"png\", \"bmp\", \"tif\", \"tiff\", \"gif\", \"jpg\", \"jpeg\"\nEmpty keeps the input format.",
		Alternatives: []string{
			`force_ext = "png"`,
		},
	},

	// ── Watch ────────────────────────────────────────────────────
	"watch": {
		Comment: "Watch mode (-watch) timing.",
	},
	"watch.debounce_ms": {
		Comment: "Wait this long after the last change event before re-running (milliseconds).\nEditors often write a file several times in quick succession.",
	},
	"watch.poll_interval_seconds": {
		Comment: "How often to poll for input changes (seconds). fsnotify is primary,\nthis is the fallback interval.",
	},

	// ── Log ──────────────────────────────────────────────────────
	"log": {
		Comment: "Log output settings",
	},
	"log.level": {
		Comment: "Lowest level written to the log. One of \"trace\", \"debug\", \"info\", \"warn\", \"error\"",
		Alternatives: []string{
			`level = "debug"`,
			`level = "warn"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Log file size in megabytes at which rotation kicks in.",
	},

	// ── Overrides ────────────────────────────────────────────────
	"overrides": {
		Comment: "Per-path recolor overrides. Each entry matches a glob pattern against\nthe slash-normalized input path. The first matching entry that sets a\nfield wins; explicit command-line flags always win.",
		Alternatives: []string{
			`[[overrides]]`,
			`pattern = "**/logos/**"`,
			`threshold = 230`,
			`color = "#1D63ED"`,
		},
	},
}
