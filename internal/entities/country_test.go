package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryDisplayHelpers(t *testing.T) {
	switzerland := Country{
		Code:            "CHE",
		CommonName:      "Switzerland",
		Subregion:       "Western Europe",
		Languages:       map[string]string{"roh": "Romansh", "deu": "German", "fra": "French"},
		Capital:         []string{"Bern"},
		Population:      8654622,
		AreaKm2:         41284,
		Currencies:      map[string]Currency{"CHF": {Name: "Swiss franc", Symbol: "Fr."}},
		NativeNames:     map[string]NativeName{"fra": {Common: "Suisse"}, "deu": {Common: "Schweiz"}},
		TopLevelDomains: []string{".ch"},
	}

	assert.Equal(t, []string{"German", "French", "Romansh"}, switzerland.LanguageNames())
	assert.Equal(t, "German, French, Romansh", switzerland.LanguageDisplay())
	assert.Equal(t, "Schweiz", switzerland.NativeName())
	assert.Equal(t, "Bern", switzerland.CapitalDisplay())
	assert.Equal(t, "Western Europe", switzerland.SubregionDisplay())
	assert.Equal(t, "Swiss franc (Fr.)", switzerland.CurrencyDisplay())
	assert.Equal(t, ".ch", switzerland.TopLevelDomainDisplay())
	assert.Equal(t, "8,654,622", switzerland.PopulationDisplay())
	assert.Equal(t, "41,284 km²", switzerland.AreaDisplay())
	assert.True(t, switzerland.HasLanguage("French"))
	assert.False(t, switzerland.HasLanguage("fra"))
}

func TestCountryDisplayHelpers_MissingFields(t *testing.T) {
	var c Country

	assert.Equal(t, NotAvailable, c.NativeName())
	assert.Equal(t, NotAvailable, c.CapitalDisplay())
	assert.Equal(t, NotAvailable, c.SubregionDisplay())
	assert.Equal(t, NotAvailable, c.TopLevelDomainDisplay())
	assert.Equal(t, "", c.CurrencyDisplay())
	assert.Empty(t, c.LanguageNames())
	assert.False(t, c.HasLanguage("English"))
}

func TestCountryCurrencyDisplay_MissingSymbol(t *testing.T) {
	c := Country{Currencies: map[string]Currency{
		"EUR": {Name: "Euro", Symbol: "€"},
		"XDR": {Name: "Special drawing rights"},
	}}

	assert.Equal(t, "Euro (€), Special drawing rights", c.CurrencyDisplay())
}

func TestCountryJSONRoundTrip(t *testing.T) {
	c := Country{Code: "JPN", CommonName: "Japan", Region: "Asia", Languages: map[string]string{"jpn": "Japanese"}}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "borders", "absent optional fields are omitted")

	var decoded Country
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)
}
