// Package i18n loads the embedded message packs (en, id). The language comes
// only from Accept-Language, see middleware.LanguageMiddleware.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed en/*.json id/*.json
var fs embed.FS

var (
	mu    sync.RWMutex
	packs = make(map[string]map[string]string) // lang -> key -> message
)

// Supported languages.
const (
	LangEN = "en"
	LangID = "id"
)

var languages = []string{LangEN, LangID}

// Languages returns the supported language tags, en first.
func Languages() []string { return append([]string(nil), languages...) }

// Supported reports whether lang has a message pack.
func Supported(lang string) bool {
	for _, l := range languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Load reads every embedded pack. A missing or broken pack is an error:
// the packs ship with the binary, so this only fails on a bad build.
func Load() error {
	loaded := make(map[string]map[string]string, len(languages))
	for _, lang := range languages {
		data, err := fs.ReadFile(lang + "/messages.json")
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", lang, err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("i18n: parse %s: %w", lang, err)
		}
		loaded[lang] = m
	}
	mu.Lock()
	packs = loaded
	mu.Unlock()
	return nil
}

// T returns the message for key in lang, falling back to en, then to the key itself.
func T(lang, key string) string {
	mu.RLock()
	defer mu.RUnlock()
	if m, ok := packs[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if m, ok := packs[LangEN]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return key
}
