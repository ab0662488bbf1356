package templates

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/calmday/internal/domain"
)

//go:embed templates.yaml
var raw []byte

var presets = mustParse(raw)

// Parse decodes a YAML list of templates
func Parse(data []byte) ([]domain.Template, error) {
	var out []domain.Template
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for i, t := range out {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("template %d: name is required", i+1)
		}
	}
	return out, nil
}

func mustParse(data []byte) []domain.Template {
	t, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

// All returns the built-in presets
func All() []domain.Template {
	out := make([]domain.Template, len(presets))
	copy(out, presets)
	return out
}

// Find looks a preset up by case-insensitive name or 1-based index
func Find(key string) (domain.Template, bool) {
	key = strings.TrimSpace(key)
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 1 && n <= len(presets) {
			return presets[n-1], true
		}
		return domain.Template{}, false
	}
	for _, t := range presets {
		if strings.EqualFold(t.Name, key) {
			return t, true
		}
	}
	return domain.Template{}, false
}

// Preview returns the first three activities joined by arrows
func Preview(t domain.Template) string {
	lines := strings.Split(t.Activities, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	return strings.Join(lines, " → ") + "..."
}
