package reviewintel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category is one complaint cluster: a name plus the keywords that pull a
// negative review into it. Categories are matched in slice order, which is
// what breaks ties for the top pain point.
type Category struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// TextConfig holds every locale-sensitive word list the analytics use, so
// the matching logic itself stays locale-agnostic.
type TextConfig struct {
	Clusters          []Category `json:"clusters"`
	WishlistPatterns  []string   `json:"wishlist_patterns"`
	WishFallback      string     `json:"wish_fallback"`
	SizeVariesMarkers []string   `json:"size_varies_markers"`
	Stopwords         []string   `json:"stopwords"`
}

// TextTable maps locale codes to their text configuration.
type TextTable struct {
	DefaultLocale string                `json:"default_locale"`
	Locales       map[string]TextConfig `json:"locales"`
}

// For returns the configuration for a locale, falling back to the default
// locale entry when the requested one is missing.
func (t TextTable) For(locale string) TextConfig {
	if cfg, ok := t.Locales[locale]; ok {
		return cfg
	}
	if cfg, ok := t.Locales[t.DefaultLocale]; ok {
		return cfg
	}
	return defaultTextTable().Locales["id"]
}

// LoadTextTable reads the locale text tables from a JSON file. A missing
// file yields the built-in defaults; a malformed one is an error.
func LoadTextTable(path string) (TextTable, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return defaultTextTable(), nil
		}
		return TextTable{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return TextTable{}, err
	}
	var table TextTable
	if err := json.Unmarshal(data, &table); err != nil {
		return TextTable{}, fmt.Errorf("failed to parse locale text config: %w", err)
	}
	if len(table.Locales) == 0 {
		return defaultTextTable(), nil
	}
	if table.DefaultLocale == "" {
		table.DefaultLocale = "id"
	}
	return table, nil
}

func defaultTextTable() TextTable {
	return TextTable{
		DefaultLocale: "id",
		Locales: map[string]TextConfig{
			"id": {
				Clusters: []Category{
					{Category: "Performance", Keywords: []string{"lambat", "lag", "macet", "lemot", "slow", "crash", "freeze"}},
					{Category: "Ads", Keywords: []string{"iklan", "ads", "ganggu", "annoying", "pop up"}},
					{Category: "UX", Keywords: []string{"bingung", "jelek", "sulit", "complex", "ugly", "difficult", "hard", "bad ui"}},
					{Category: "Connectivity", Keywords: []string{"internet", "koneksi", "sinyal", "login", "masuk", "daftar"}},
					{Category: "Pricing", Keywords: []string{"mahal", "bayar", "uang", "money", "price", "pay", "purchase"}},
				},
				WishlistPatterns: []string{
					"wish", "please", "add", "could you", "want", "hope", "missing",
					"tolong", "tambah", "harap", "kurang", "kapan",
				},
				WishFallback:      "Fitur simpel & tanpa iklan",
				SizeVariesMarkers: []string{"Varies", "Bervariasi"},
				Stopwords: []string{
					"yang", "dan", "di", "ini", "itu", "ke", "ga", "gak", "tidak",
					"nya", "aja", "saya", "ada", "juga", "tapi", "udah", "sudah",
					"the", "and", "for", "not", "this", "that", "with", "app",
				},
			},
		},
	}
}
