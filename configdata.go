// Package logotint provides embedded assets for the logotint tools.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML]. The logotint command writes this at startup to
// seed first-run defaults.
package logotint

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, embedded at
// build time. The logotint command copies this file to the data directory
// on first run.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
