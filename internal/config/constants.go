package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./atlas.db"

	// DefaultRestCountriesBaseURL is the public REST Countries API
	DefaultRestCountriesBaseURL = "https://restcountries.com"

	// DefaultCatalogRefreshSchedule refreshes the catalog every six hours
	DefaultCatalogRefreshSchedule = "0 */6 * * *"
)
