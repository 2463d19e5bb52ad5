package migrate

import (
	"fmt"
	"slices"
)

// Registry tracks the schema version and upgrade chain for one kind of
// on-disk file. Today only config.toml migrates (via [Config]), but each
// file kind gets its own instance so version numbers never collide.
type Registry struct {
	// CurrentVersion is the schema version freshly written files carry.
	CurrentVersion int
	// Migrations is the versioned upgrade chain. Exported so tests can
	// swap in their own list.
	Migrations []Migration
	// Dev holds local-only transforms that run without advancing the
	// schema version. See [Registry.RunDev].
	Dev []Migration
}

// Register adds m to the upgrade chain. It panics when the version is
// already taken, so conflicting migrations fail loudly at init time.
func (r *Registry) Register(m Migration) {
	taken := slices.ContainsFunc(r.Migrations, func(o Migration) bool {
		return o.Version == m.Version
	})
	if taken {
		panic(fmt.Sprintf("migrate: version %d registered twice (%q)", m.Version, m.Description))
	}
	r.Migrations = append(r.Migrations, m)
}

// RegisterDev adds a dev transform. It panics on a duplicate description.
func (r *Registry) RegisterDev(m Migration) {
	taken := slices.ContainsFunc(r.Dev, func(o Migration) bool {
		return o.Description == m.Description
	})
	if taken {
		panic(fmt.Sprintf("migrate: dev transform %q registered twice", m.Description))
	}
	r.Dev = append(r.Dev, m)
}

// NeedsMigration reports whether a file at fileVersion would be rewritten
// by this registry's chain.
func (r *Registry) NeedsMigration(fileVersion int, force bool) bool {
	return NeedsMigration(fileVersion, r.CurrentVersion, force, r.Migrations)
}

// Run upgrades data from fromVersion through the registered chain.
func (r *Registry) Run(data []byte, fromVersion int) ([]byte, int, error) {
	return Run(data, fromVersion, r.Migrations)
}

// RunDev applies dev transforms in registration order. The schema version
// is left alone; use these for one-off fixes to local files during
// development.
func (r *Registry) RunDev(data []byte) ([]byte, error) {
	for _, m := range r.Dev {
		var err error
		data, err = m.Upgrade(data)
		if err != nil {
			return nil, fmt.Errorf("dev transform %q: %w", m.Description, err)
		}
	}
	return data, nil
}

// HasDev reports whether the dev transform list is non-empty.
func (r *Registry) HasDev() bool {
	return len(r.Dev) > 0
}

// Config is the registry for config.toml schema upgrades.
var Config = &Registry{CurrentVersion: 2}
