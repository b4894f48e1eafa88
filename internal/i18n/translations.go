package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
)

//go:embed translations/*.json
var translationFiles embed.FS

// DefaultLanguage is used when no supported language is requested
const DefaultLanguage = "ar"

// Translation holds translations for a specific language
type Translation map[string]string

// Translations holds all loaded translations
type Translations map[string]Translation

var (
	translations Translations
	loadOnce     sync.Once
	loadErr      error
)

// LoadTranslations loads all translation files. It is safe to call more than once.
func LoadTranslations() error {
	loadOnce.Do(func() {
		translations, loadErr = readTranslations()
	})

	return loadErr
}

func readTranslations() (Translations, error) {
	entries, err := translationFiles.ReadDir("translations")
	if err != nil {
		return nil, err
	}

	loaded := make(Translations, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}

		data, err := translationFiles.ReadFile("translations/" + name)
		if err != nil {
			return nil, err
		}

		var trans Translation

		err = json.Unmarshal(data, &trans)
		if err != nil {
			return nil, fmt.Errorf("translation file %s: %w", name, err)
		}

		loaded[strings.TrimSuffix(name, ".json")] = trans
	}

	return loaded, nil
}

func catalog() Translations {
	if err := LoadTranslations(); err != nil {
		return Translations{}
	}

	return translations
}

// Resolve returns the first supported language among the candidates.
// Candidates may be plain codes ("ar"), tags ("ar-SA"), locale strings ("ar_SA.UTF-8")
// or Accept-Language style lists ("en-US,en;q=0.9").
func Resolve(candidates ...string) string {
	for _, candidate := range candidates {
		for _, item := range strings.Split(candidate, ",") {
			lang := normalize(item)
			if IsSupported(lang) {
				return lang
			}
		}
	}

	return DefaultLanguage
}

// normalize extracts the main language code
func normalize(lang string) string {
	lang = strings.TrimSpace(strings.Split(lang, ";")[0])

	parts := strings.FieldsFunc(lang, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	if len(parts) == 0 {
		return ""
	}

	return strings.ToLower(parts[0])
}

// IsSupported checks if the language is supported
func IsSupported(lang string) bool {
	_, exists := catalog()[lang]
	return exists
}

// Get returns the translation for a given key and language
func Get(lang, key string) string {
	all := catalog()

	if trans, exists := all[lang]; exists {
		if text, exists := trans[key]; exists {
			return text
		}
	}

	// Fallback to the default language
	if trans, exists := all[DefaultLanguage]; exists {
		if text, exists := trans[key]; exists {
			return text
		}
	}

	// Fallback to key if translation not found
	return key
}

// Format returns the translation for key with {name} placeholders replaced from vars
func Format(lang, key string, vars map[string]string) string {
	text := Get(lang, key)
	if len(vars) == 0 {
		return text
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
