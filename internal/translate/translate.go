// Package translate localizes catalog strain attributes. Lookups go through
// an in-memory TTL cache keyed by (field, normalized value, language); misses
// fall back to a capitalized echo of the original value so untranslated data
// still renders.
package translate

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CacheTTL is how long a cached translation stays valid.
const CacheTTL = 30 * time.Minute

// FieldType names the kind of attribute being translated. It prefixes the
// cache key, so "happy" as an effect and "happy" as a flavor cache separately.
type FieldType string

const (
	FieldEffect     FieldType = "strain_effect"
	FieldFlavor     FieldType = "strain_flavor"
	FieldStrainType FieldType = "strain_type"
	FieldDifficulty FieldType = "strain_difficulty"
)

// dictPrefix maps a field type to its dictionary key namespace.
var dictPrefix = map[FieldType]string{
	FieldEffect:     "strains.effects",
	FieldFlavor:     "strains.flavors",
	FieldStrainType: "strains.types",
	FieldDifficulty: "strains.difficulty",
}

// Dictionary resolves a dictionary key for a language. Implementations must
// be safe for concurrent use.
type Dictionary interface {
	Lookup(lang, key string) (string, bool)
}

type cacheKey struct {
	lang string
	key  string
}

type cacheEntry struct {
	value     string
	createdAt time.Time
}

// Translator owns the dictionary, the target language, and the TTL cache.
// Construct one per app instead of sharing module-level state.
type Translator struct {
	dict  Dictionary
	caser cases.Caser
	now   func() time.Time

	mu      sync.Mutex
	lang    string
	entries map[cacheKey]cacheEntry
}

// New creates a translator targeting lang (ISO 639-1 code).
func New(lang string, dict Dictionary) *Translator {
	return &Translator{
		dict:    dict,
		caser:   cases.Title(language.Und),
		now:     time.Now,
		lang:    lang,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// Language returns the current target language.
func (t *Translator) Language() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lang
}

// SetLanguage switches the target language and clears the cache. The cache
// is dropped unconditionally rather than invalidated per language.
func (t *Translator) SetLanguage(lang string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lang = lang
	t.entries = make(map[cacheKey]cacheEntry)
}

// Translate localizes a single attribute value. The normalized value (trim +
// lowercase) forms the cache key together with the field type; a cached,
// unexpired entry is returned without consulting the dictionary. A dictionary
// miss echoes the original value capitalized, and that fallback is cached too.
func (t *Translator) Translate(field FieldType, value string) string {
	norm := strings.ToLower(strings.TrimSpace(value))
	if norm == "" {
		return ""
	}
	key := string(field) + ":" + norm

	t.mu.Lock()
	lang := t.lang
	ck := cacheKey{lang: lang, key: key}
	if entry, ok := t.entries[ck]; ok && t.now().Sub(entry.createdAt) < CacheTTL {
		t.mu.Unlock()
		return entry.value
	}
	t.mu.Unlock()

	result, ok := t.dict.Lookup(lang, dictPrefix[field]+"."+dictKey(norm))
	if !ok {
		result = t.caser.String(norm)
	}

	t.mu.Lock()
	t.entries[ck] = cacheEntry{value: result, createdAt: t.now()}
	t.mu.Unlock()

	return result
}

// TranslateAll localizes a slice of values, preserving order.
func (t *Translator) TranslateAll(field FieldType, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = t.Translate(field, v)
	}
	return out
}

// Clear removes all cached entries unconditionally.
func (t *Translator) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[cacheKey]cacheEntry)
}

// Sweep removes expired entries, returning how many were dropped.
func (t *Translator) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	dropped := 0
	cutoff := t.now().Add(-CacheTTL)
	for k, e := range t.entries {
		if e.createdAt.Before(cutoff) {
			delete(t.entries, k)
			dropped++
		}
	}
	return dropped
}

// dictKey converts a normalized value to a dictionary key segment:
// spaces become underscores.
func dictKey(norm string) string {
	return strings.ReplaceAll(norm, " ", "_")
}
