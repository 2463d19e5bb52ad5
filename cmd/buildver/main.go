// Package main prints the SemVer build version the Makefile stamps into
// ldflags, replacing the Unix-only git describe + date pipeline so Windows
// builds get the same string.
//
// The shape follows git state:
//
//	No tags, clean:     0.1.0-dev+05ffee5
//	No tags, dirty:     0.1.0-dev+05ffee5.dirty
//	On tag v0.1.0:      0.1.0
//	Dirty tag:          0.1.0-dirty
//	3 past v0.1.0:      0.1.0-dev.3+g1234567
//	Same but dirty:     0.1.0-dev.3+g1234567.dirty
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func main() {
	fmt.Print(buildVersion())
}

// buildVersion queries git for the current version string: git describe
// against v-prefixed tags when any exist, else <base>-dev+<hash> with
// [baseVersion] as the prefix.
func buildVersion() string {
	base := baseVersion()

	// Tagged history describes cleanly
	if out, err := exec.Command("git", "describe", "--tags", "--match", "v*", "--dirty").Output(); err == nil {
		return formatTaggedVersion(strings.TrimSpace(string(out)))
	}

	// Untagged history falls back to the commit hash
	out, err := exec.Command("git", "rev-parse", "--short=7", "HEAD").Output()
	if err != nil {
		return base + "-dev"
	}
	hash := strings.TrimSpace(string(out))

	if isDirty() {
		return fmt.Sprintf("%s-dev+%s.dirty", base, hash)
	}
	return fmt.Sprintf("%s-dev+%s", base, hash)
}

// formatTaggedVersion reshapes git describe output ("v0.1.0-3-g1234567-dirty")
// into SemVer: the "v" prefix and "-dirty" flag come off, and a trailing
// <N>-g<hash> becomes "-dev.<N>+g<hash>" with ".dirty" appended to the
// metadata when the tree is dirty.
func formatTaggedVersion(desc string) string {
	dirty := strings.HasSuffix(desc, "-dirty")
	clean := strings.TrimPrefix(strings.TrimSuffix(desc, "-dirty"), "v")

	// Commits past the tag describe as <tag>-<N>-g<hash>. The tag itself may
	// contain dashes (v2.0.0-beta.1), so only the last two fields are
	// inspected: an all-digit count followed by a g-prefixed hash.
	if fields := strings.Split(clean, "-"); len(fields) >= 3 {
		n, hash := fields[len(fields)-2], fields[len(fields)-1]
		if isCount(n) && strings.HasPrefix(hash, "g") {
			tag := strings.Join(fields[:len(fields)-2], "-")
			if dirty {
				hash += ".dirty"
			}
			return fmt.Sprintf("%s-dev.%s+%s", tag, n, hash)
		}
	}

	// Exact tag
	if dirty {
		return clean + "-dirty"
	}
	return clean
}

// isCount reports whether s is a non-empty run of ASCII digits.
func isCount(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDirty reports whether git status --porcelain shows uncommitted changes.
func isDirty() bool {
	out, err := exec.Command("git", "status", "--porcelain").Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(out))) > 0
}

// baseVersion reads the release base from the VERSION file at the repo root.
// It returns "0.0.0" if the file is missing or blank.
func baseVersion() string {
	data, err := os.ReadFile("VERSION")
	if err != nil {
		return "0.0.0"
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "0.0.0"
	}
	return v
}
