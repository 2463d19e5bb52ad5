// Package migrate upgrades on-disk files written by older releases to the
// current schema. Each [Migration] rewrites raw file contents from one
// schema version to the next; a [Registry] tracks the chain for a single
// file kind.
package migrate

import (
	"fmt"
	"log/slog"
	"sort"
)

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Migration upgrades raw file contents to a specific schema version.
type Migration struct {
	// Version is the schema version the upgraded data conforms to.
	Version int
	// Description is a short label included in log output when the
	// migration runs.
	Description string
	// Upgrade rewrites data from the preceding version to [Migration.Version].
	Upgrade func(data []byte) ([]byte, error)
}

// ///////////////////////////////////////////////
// Public API
// ///////////////////////////////////////////////

// Run applies every migration whose version exceeds fromVersion, lowest
// first, and returns the rewritten data together with the version reached.
// On failure the version reported is that of the last successful step.
func Run(data []byte, fromVersion int, migrations []Migration) ([]byte, int, error) {
	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Version < ordered[j].Version
	})
	version := fromVersion
	for _, m := range ordered {
		if m.Version <= version {
			continue
		}
		slog.Info("applying schema migration", "to", m.Version, "description", m.Description)
		out, err := m.Upgrade(data)
		if err != nil {
			return nil, version, fmt.Errorf("migrate to v%d: %w", m.Version, err)
		}
		data = out
		version = m.Version
	}
	return data, version, nil
}

// NeedsMigration reports whether data at fileVersion would be rewritten by
// [Run] given currentVersion and the registered migrations. force requests
// a rewrite even at the current version, provided any migrations exist.
func NeedsMigration(fileVersion, currentVersion int, force bool, migrations []Migration) bool {
	if fileVersion != currentVersion {
		return true
	}
	if force && len(migrations) > 0 {
		return true
	}
	for _, m := range migrations {
		if fileVersion < m.Version {
			return true
		}
	}
	return false
}
