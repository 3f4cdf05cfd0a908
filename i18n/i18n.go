package i18n

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var translations = make(map[string]map[string]string)
var DefaultLang = "en"

// LoadTranslations reads every <lang>.json file in path. The default
// language must be among them.
func LoadTranslations(path string) error {
	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return err
	}
	for _, file := range files {
		lang := strings.TrimSuffix(filepath.Base(file), ".json")
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		var t map[string]string
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		translations[lang] = t
	}
	if _, ok := translations[DefaultLang]; !ok {
		return fmt.Errorf("no translations for default language %q in %s", DefaultLang, path)
	}
	return nil
}

func T(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	// Fallback to English
	if lang != DefaultLang {
		return T(DefaultLang, key)
	}
	return key
}

func DetectLanguage(r *http.Request) string {
	// Example: fr-CH, fr;q=0.9, en;q=0.8, de;q=0.7, *;q=0.5
	accept := r.Header.Get("Accept-Language")
	for _, part := range strings.Split(accept, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		if len(lang) >= 2 {
			lang = lang[:2] // e.g., "en-US" -> "en"
			if _, ok := translations[lang]; ok {
				return lang
			}
		}
	}
	return DefaultLang
}
