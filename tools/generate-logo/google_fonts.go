// google_fonts.go fetches font binaries through the Google Fonts CSS API.
//
// Font specs look like "google:FAMILY:WEIGHT" (e.g. "google:Inter:600").
// Fetched fonts land in a local cache so repeat runs stay off the network.

package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tdewolff/font"
)

// fontURLRe pulls the font file URL out of the CSS body, e.g.
// url(https://fonts.gstatic.com/s/inter/v18/xxx.woff2).
var fontURLRe = regexp.MustCompile(`url\((https://fonts\.gstatic\.com/[^)]+)\)`)

// fontClient is shared by the CSS and font-file requests.
var fontClient = &http.Client{Timeout: 15 * time.Second}

// ParseGoogleFontSpec splits a "google:Family:Weight" spec into family and
// weight. ok is false when the spec does not have that shape.
func ParseGoogleFontSpec(spec string) (family, weight string, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] != "google" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// FetchGoogleFont resolves spec to raw SFNT (TTF/OTF) font bytes, converting
// from WOFF2 when Google serves that. The cache under cacheDir is consulted
// first and filled on a miss; the directory is created on demand.
func FetchGoogleFont(spec, cacheDir string) ([]byte, error) {
	family, weight, ok := ParseGoogleFontSpec(spec)
	if !ok {
		return nil, fmt.Errorf("invalid google font spec %q: want google:FAMILY:WEIGHT", spec)
	}

	cacheFile := filepath.Join(cacheDir, fmt.Sprintf("%s-%s.ttf", family, weight))
	if data, err := os.ReadFile(cacheFile); err == nil {
		return data, nil
	}

	fontURL, err := lookupFontURL(family, weight)
	if err != nil {
		return nil, err
	}

	data, err := fetchLimited(fontURL, 10<<20)
	if err != nil {
		return nil, fmt.Errorf("downloading font file: %w", err)
	}

	if isWOFF2(fontURL, data) {
		sfnt, err := font.ToSFNT(data)
		if err != nil {
			return nil, fmt.Errorf("converting WOFF2 to SFNT: %w", err)
		}
		data = sfnt
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating font cache dir: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0o644); err != nil {
		// The font bytes are already in hand; next run re-downloads
		fmt.Fprintf(os.Stderr, "warning: failed to cache font: %v\n", err)
	}

	return data, nil
}

// lookupFontURL asks the Google Fonts CSS API for the font file URL of the
// given family and weight. The request carries a modern browser User-Agent so
// the API answers with WOFF2 URLs, which [font.ToSFNT] can convert.
func lookupFontURL(family, weight string) (string, error) {
	cssURL := fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s:wght@%s",
		url.QueryEscape(family), weight)

	req, err := http.NewRequest("GET", cssURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := fontClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching CSS from Google Fonts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Google Fonts CSS API returned status %d for %s wght@%s", resp.StatusCode, family, weight)
	}

	css, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading CSS response: %w", err)
	}

	m := fontURLRe.FindSubmatch(css)
	if m == nil {
		return "", fmt.Errorf("no font URL found in Google Fonts CSS response for %s wght@%s", family, weight)
	}
	return string(m[1]), nil
}

// fetchLimited GETs a URL and returns at most limit bytes of the body.
func fetchLimited(rawURL string, limit int64) ([]byte, error) {
	resp, err := fontClient.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
