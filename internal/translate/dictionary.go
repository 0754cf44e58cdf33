package translate

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// EmbeddedDictionary serves translations from the JSON locale files compiled
// into the binary. Each file is a flat map of dotted key to localized string.
type EmbeddedDictionary struct {
	tables map[string]map[string]string
}

// LoadEmbedded parses every embedded locale file.
func LoadEmbedded() (*EmbeddedDictionary, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}
		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		tables[lang] = table
	}
	return &EmbeddedDictionary{tables: tables}, nil
}

// Lookup resolves key for lang. A missing language behaves like a missing key.
func (d *EmbeddedDictionary) Lookup(lang, key string) (string, bool) {
	table, ok := d.tables[lang]
	if !ok {
		return "", false
	}
	value, ok := table[key]
	return value, ok
}

// Languages lists the languages the dictionary carries.
func (d *EmbeddedDictionary) Languages() []string {
	langs := make([]string, 0, len(d.tables))
	for lang := range d.tables {
		langs = append(langs, lang)
	}
	return langs
}
