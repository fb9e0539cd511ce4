package dictionary

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads a YAML mapping of character to raw pronunciation, e.g.
//
//	行: hang2
//	了: le5
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return overrides, nil
}

// WithOverrides returns a copy of the table with the overrides formatted and
// written on top. The receiver is left untouched.
func (t *Table) WithOverrides(overrides map[string]string, opts Options) (*Table, int) {
	out := &Table{entries: make(map[string]string, len(t.entries)+len(overrides))}
	for k, v := range t.entries {
		out.entries[k] = v
	}

	n := 0
	for k, v := range overrides {
		if k == "" {
			continue
		}
		out.entries[k] = FormatPronunciation(v, opts)
		n++
	}
	return out, n
}
