package storage

import (
	"context"

	"mcpdemo/internal/models"
)

// Text returns the value of an optional filter and whether the predicate applies.
// A nil filter and an empty filter both mean "do not filter".
func Text(f *string) (string, bool) {
	if f == nil || *f == "" {
		return "", false
	}
	return *f, true
}

// WorldStore defines the lookups over the world geography dataset
type WorldStore interface {
	// Country operations
	SearchCountries(ctx context.Context, name *string) ([]models.Country, error)

	// ListCountries caps at 10 rows when name is set and 197 rows otherwise
	ListCountries(ctx context.Context, name *string) ([]models.Country, error)

	// GetCountry returns nil when no country has the given iso2 code
	GetCountry(ctx context.Context, iso2 string) (*models.Country, error)
	GetCountriesByCurrency(ctx context.Context, currency string) ([]models.Country, error)
	GetCountriesByRegion(ctx context.Context, region string) ([]models.Country, error)

	// City and state operations
	SearchCities(ctx context.Context, name *string) ([]models.City, error)
	GetCitiesByCountry(ctx context.Context, countryCode string, name *string) ([]models.City, error)
	SearchStates(ctx context.Context, name *string) ([]models.State, error)
	GetStatesByCountry(ctx context.Context, countryCode string) ([]models.State, error)

	// Region operations
	GetRegions(ctx context.Context) ([]models.Region, error)
	GetSubregions(ctx context.Context, regionID int64) ([]models.Subregion, error)

	// Aggregates

	// DatabaseStats returns one total_<table> count per world table
	DatabaseStats(ctx context.Context) (map[string]int64, error)

	// PopularCurrencies returns up to 20 currencies ordered by country count
	PopularCurrencies(ctx context.Context) ([]models.CurrencyUsage, error)
}

// CommunityStore defines the lookups over the chat message counts
type CommunityStore interface {
	// TopChatters returns every chatter ordered by message count, highest first
	TopChatters(ctx context.Context) ([]models.Chatter, error)

	Close() error
}

// Query caps shared by every WorldStore implementation.
const (
	SearchCountriesLimit   = 20
	ListCountriesLimit     = 10
	ListAllCountriesLimit  = 197
	SearchCitiesLimit      = 30
	CitiesByCountryLimit   = 50
	SearchStatesLimit      = 30
	PopularCurrenciesLimit = 20
	DatabaseStatsKeyPrefix = "total_"
)

// StatsTables lists the tables counted by DatabaseStats, in output order.
var StatsTables = []string{"countries", "cities", "states", "regions", "subregions"}

// Logical store names. Each maps to <name>.db under the data directory.
const (
	World     = "world"
	Community = "community"
)
