package entities

import (
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is displayed for optional fields that are absent.
const NotAvailable = "N/A"

// Currency describes a single currency used by a country.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// NativeName is a country name in one of its own languages.
type NativeName struct {
	Common   string `json:"common"`
	Official string `json:"official,omitempty"`
}

// Country is a read-only record from the remote catalog.
// Code (cca3) is the only identity: membership and equality checks never look at
// any other field.
type Country struct {
	Code            string                `json:"code"`
	CommonName      string                `json:"common_name"`
	OfficialName    string                `json:"official_name"`
	Region          string                `json:"region"`
	Subregion       string                `json:"subregion,omitempty"`
	Languages       map[string]string     `json:"languages,omitempty"` // language code -> display name
	Capital         []string              `json:"capital,omitempty"`
	Borders         []string              `json:"borders,omitempty"` // neighbouring cca3 codes
	FlagImageURL    string                `json:"flag_image_url"`
	Population      int64                 `json:"population"`
	AreaKm2         float64               `json:"area_km2"`
	Currencies      map[string]Currency   `json:"currencies,omitempty"`
	NativeNames     map[string]NativeName `json:"native_names,omitempty"`
	TopLevelDomains []string              `json:"top_level_domains,omitempty"`
}

// HasLanguage reports whether name is one of the country's language display names.
func (c Country) HasLanguage(name string) bool {
	for _, lang := range c.Languages {
		if lang == name {
			return true
		}
	}
	return false
}

// LanguageNames returns the language display names ordered by language code.
func (c Country) LanguageNames() []string {
	keys := sortedKeys(c.Languages)
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, c.Languages[k])
	}
	return names
}

// LanguageDisplay joins the language names for the detail page.
func (c Country) LanguageDisplay() string {
	return strings.Join(c.LanguageNames(), ", ")
}

// NativeName returns the first available native common name.
func (c Country) NativeName() string {
	for _, k := range sortedKeys(c.NativeNames) {
		if name := c.NativeNames[k].Common; name != "" {
			return name
		}
	}
	return NotAvailable
}

func (c Country) CapitalDisplay() string {
	return joinOrNA(c.Capital)
}

func (c Country) SubregionDisplay() string {
	if c.Subregion == "" {
		return NotAvailable
	}
	return c.Subregion
}

func (c Country) TopLevelDomainDisplay() string {
	return joinOrNA(c.TopLevelDomains)
}

// CurrencyDisplay formats currencies as "Name (Symbol)", ordered by currency
// code. The parenthetical is dropped when a currency has no symbol.
func (c Country) CurrencyDisplay() string {
	parts := make([]string, 0, len(c.Currencies))
	for _, k := range sortedKeys(c.Currencies) {
		cur := c.Currencies[k]
		if cur.Symbol == "" {
			parts = append(parts, cur.Name)
			continue
		}
		parts = append(parts, cur.Name+" ("+cur.Symbol+")")
	}
	return strings.Join(parts, ", ")
}

func (c Country) PopulationDisplay() string {
	return humanize.Comma(c.Population)
}

func (c Country) AreaDisplay() string {
	return humanize.CommafWithDigits(c.AreaKm2, 2) + " km²"
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return NotAvailable
	}
	return strings.Join(values, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
