package migrate

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ///////////////////////////////////////////////
// config.toml upgrade chain
// ///////////////////////////////////////////////

func init() {
	Config.Register(Migration{
		Version:     2,
		Description: "move white_threshold into [recolor]",
		Upgrade:     configV2RecolorSection,
	})
}

// configV2RecolorSection relocates the v1 top-level white_threshold key to
// [recolor].threshold. Files that never set the key pass through with only
// a re-encode. An existing [recolor].threshold wins over the legacy key.
func configV2RecolorSection(data []byte) ([]byte, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse v1 config: %w", err)
	}
	if legacy, ok := raw["white_threshold"]; ok {
		delete(raw, "white_threshold")
		section, _ := raw["recolor"].(map[string]any)
		if section == nil {
			section = make(map[string]any)
		}
		if _, exists := section["threshold"]; !exists {
			section["threshold"] = legacy
		}
		raw["recolor"] = section
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("encode v2 config: %w", err)
	}
	return buf.Bytes(), nil
}
