// Package main is the genconfig tool. It renders config.ExampleConfig()
// into config.default.toml, annotating each field from [config.ConfigDocs].
//
// go generate runs it via the directive in internal/config/config.go.
package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/logotint/internal/config"
)

// outPath is relative to internal/config/, where go generate runs. With
// go.mod at root, ../../ reaches the repo root where configdata.go embeds
// config.default.toml -- single source of truth.
const outPath = "../../config.default.toml"

func main() {
	var raw bytes.Buffer
	if err := toml.NewEncoder(&raw).Encode(config.ExampleConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}

	result := strings.Join(annotate(raw.String()), "\n")
	result = strings.TrimRight(result, "\n") + "\n"

	if err := os.WriteFile(outPath, []byte(result), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote config.default.toml\n")
}

// annotate rewrites the encoder's plain TOML into the annotated default
// config: a file header, a banner and doc comment per section, a doc comment
// per key from [config.ConfigDocs], and commented-out blocks for documented
// fields the encoder omitted (omitempty fields at their zero value).
func annotate(raw string) []string {
	out := []string{
		"# ///////////////////////////////////////////////",
		"# Logotint Configuration",
		"# ///////////////////////////////////////////////",
		"",
	}

	var sectionStack []string
	emitted := map[string]bool{}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		// The encoder's own spacing is dropped; blocks below manage it.
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[["):
			// Entering a new section closes out the previous one.
			injectOmitted(&out, sectionStack, emitted)

			section := strings.Trim(trimmed, "[] ")
			sectionStack = parseSectionPath(section)
			emitted[section] = true

			out = append(out, "", fmt.Sprintf("# ///// %s /////", sectionName(section)), "")
			if doc, ok := config.ConfigDocs[section]; ok {
				out = appendDocComment(out, doc.Comment)
			}
			out = append(out, trimmed)

		case !strings.Contains(trimmed, "=") || strings.HasPrefix(trimmed, "#"):
			out = append(out, trimmed)

		default:
			key := strings.TrimSpace(strings.SplitN(trimmed, "=", 2)[0])
			path := key
			if len(sectionStack) > 0 {
				path = strings.Join(sectionStack, ".") + "." + key
			}
			emitted[path] = true

			doc, ok := config.ConfigDocs[path]
			if !ok {
				out = append(out, trimmed)
				continue
			}
			out = appendDocComment(out, doc.Comment)
			out = append(out, trimmed)
			out = appendCommented(out, doc.Alternatives)
		}
	}

	// Close out the last section, then the root-level docs that have no
	// section to live in.
	injectOmitted(&out, sectionStack, emitted)
	injectOmittedRoot(&out, emitted)

	return out
}

// appendDocComment appends text to out as "# "-prefixed lines, one per
// newline-separated segment. Empty text appends nothing.
func appendDocComment(out []string, text string) []string {
	if text == "" {
		return out
	}
	for _, l := range strings.Split(text, "\n") {
		out = append(out, "# "+l)
	}
	return out
}

// appendCommented appends each line as a "# "-prefixed comment.
func appendCommented(out []string, lines []string) []string {
	for _, l := range lines {
		out = append(out, "# "+l)
	}
	return out
}

// omittedDocKeys returns the sorted [config.ConfigDocs] keys directly under
// prefix (no further dots) that are not yet marked emitted. An empty prefix
// selects the dotless root-level keys.
func omittedDocKeys(prefix string, emitted map[string]bool) []string {
	var keys []string
	for path := range config.ConfigDocs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, ".") || emitted[path] {
			continue
		}
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// injectOmitted appends commented-out blocks for documented keys of the
// current section that the TOML encoder skipped (typically omitempty fields
// at their zero value), so every documented option appears in the generated
// file. No-op outside a section.
func injectOmitted(out *[]string, sectionStack []string, emitted map[string]bool) {
	if len(sectionStack) == 0 {
		return
	}
	for _, path := range omittedDocKeys(strings.Join(sectionStack, ".")+".", emitted) {
		doc := config.ConfigDocs[path]
		*out = append(*out, "")
		*out = appendDocComment(*out, doc.Comment)
		*out = appendCommented(*out, doc.Alternatives)
		emitted[path] = true
	}
}

// injectOmittedRoot appends commented-out blocks for dotless documented keys
// never emitted as a value or section header. Root-level omitempty fields
// (the overrides table array) land here, at the end of the file, so their
// example blocks cannot be mistaken for section content.
func injectOmittedRoot(out *[]string, emitted map[string]bool) {
	for _, path := range omittedDocKeys("", emitted) {
		doc := config.ConfigDocs[path]
		*out = append(*out, "")
		*out = appendDocComment(*out, doc.Comment)
		*out = appendCommented(*out, doc.Alternatives)
		emitted[path] = true
	}
}

// parseSectionPath splits a dotted TOML section header (e.g. "recolor")
// into its component path segments. The returned slice is used as a stack
// to track the current nesting depth during output generation.
func parseSectionPath(section string) []string {
	return strings.Split(section, ".")
}

// sectionName derives a display name for a TOML section header: the last
// dotted path segment with its first letter upper-cased.
// For example, "recolor" yields "Recolor".
func sectionName(section string) string {
	parts := strings.Split(section, ".")
	last := parts[len(parts)-1]
	if len(last) == 0 {
		return ""
	}
	return strings.ToUpper(last[:1]) + last[1:]
}
