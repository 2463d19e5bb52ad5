package main

import "tools.zach/dev/logotint/internal/paths"

// ///////////////////////////////////////////////
// Path Aliases
// ///////////////////////////////////////////////

// DataPaths re-exports [paths.DataDir] so command code can name path helpers
// without the internal package qualifier. No build constraints apply here:
// [filepath.Join] inside [paths.DataDir] already picks the right separator
// per OS.
type DataPaths = paths.DataDir
