package restcountries

import (
	"strings"

	"github.com/mrlokans/atlas/internal/entities"
)

// apiCountry mirrors the REST Countries v3.1 record. Every field is optional
// on the wire.
type apiCountry struct {
	Name struct {
		Common     string                 `json:"common"`
		Official   string                 `json:"official"`
		NativeName map[string]apiNamepair `json:"nativeName"`
	} `json:"name"`
	CCA3       string                 `json:"cca3"`
	Region     string                 `json:"region"`
	Subregion  string                 `json:"subregion"`
	Languages  map[string]string      `json:"languages"`
	Capital    []string               `json:"capital"`
	Borders    []string               `json:"borders"`
	Flags      apiFlags               `json:"flags"`
	Population int64                  `json:"population"`
	Area       float64                `json:"area"`
	Currencies map[string]apiCurrency `json:"currencies"`
	TLD        []string               `json:"tld"`
}

type apiNamepair struct {
	Official string `json:"official"`
	Common   string `json:"common"`
}

type apiFlags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt"`
}

type apiCurrency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func convertAll(raw []apiCountry) []entities.Country {
	countries := make([]entities.Country, 0, len(raw))
	for i := range raw {
		c, ok := convert(&raw[i])
		if !ok {
			continue
		}
		countries = append(countries, c)
	}
	return countries
}

// convert maps an API record to a Country. Records without a cca3 code are
// rejected since nothing can reference them.
func convert(r *apiCountry) (entities.Country, bool) {
	code := strings.ToUpper(strings.TrimSpace(r.CCA3))
	if code == "" {
		return entities.Country{}, false
	}

	c := entities.Country{
		Code:            code,
		CommonName:      r.Name.Common,
		OfficialName:    r.Name.Official,
		Region:          r.Region,
		Subregion:       r.Subregion,
		Languages:       nonEmptyMap(r.Languages),
		Capital:         nonEmptySlice(r.Capital),
		Borders:         nonEmptySlice(r.Borders),
		FlagImageURL:    r.Flags.SVG,
		Population:      max(r.Population, 0),
		AreaKm2:         max(r.Area, 0),
		TopLevelDomains: nonEmptySlice(r.TLD),
	}
	if c.FlagImageURL == "" {
		c.FlagImageURL = r.Flags.PNG
	}
	if c.CommonName == "" {
		c.CommonName = code
	}
	if c.OfficialName == "" {
		c.OfficialName = c.CommonName
	}

	if len(r.Currencies) > 0 {
		c.Currencies = make(map[string]entities.Currency, len(r.Currencies))
		for k, v := range r.Currencies {
			c.Currencies[k] = entities.Currency{Name: v.Name, Symbol: v.Symbol}
		}
	}
	if len(r.Name.NativeName) > 0 {
		c.NativeNames = make(map[string]entities.NativeName, len(r.Name.NativeName))
		for k, v := range r.Name.NativeName {
			c.NativeNames[k] = entities.NativeName{Common: v.Common, Official: v.Official}
		}
	}

	return c, true
}

func nonEmptyMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

func nonEmptySlice(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
