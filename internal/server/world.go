package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"
)

type noInput struct{}

type nameInput struct {
	Name *string `json:"name,omitempty" jsonschema:"case-insensitive substring of the name; omit or leave empty to match every row"`
}

type iso2Input struct {
	ISO2 string `json:"iso2" jsonschema:"two-letter ISO country code in any case"`
}

type currencyInput struct {
	Currency string `json:"currency" jsonschema:"ISO 4217 currency code in any case"`
}

type regionInput struct {
	Region string `json:"region" jsonschema:"case-insensitive substring of the region name"`
}

type countryCodeInput struct {
	CountryCode string `json:"country_code" jsonschema:"two-letter ISO country code in any case"`
}

type citiesByCountryInput struct {
	CountryCode string  `json:"country_code" jsonschema:"two-letter ISO country code in any case"`
	Name        *string `json:"name,omitempty" jsonschema:"case-insensitive substring of the city name"`
}

type subregionsInput struct {
	RegionID int64 `json:"region_id" jsonschema:"id of the parent region"`
}

type countriesOutput struct {
	Countries []models.Country `json:"countries"`
}

type citiesOutput struct {
	Cities []models.City `json:"cities"`
}

type statesOutput struct {
	States []models.State `json:"states"`
}

type regionsOutput struct {
	Regions []models.Region `json:"regions"`
}

type subregionsOutput struct {
	Subregions []models.Subregion `json:"subregions"`
}

type currenciesOutput struct {
	Currencies []models.CurrencyUsage `json:"currencies"`
}

func countries(rows []models.Country, err error) (countriesOutput, error) {
	return countriesOutput{Countries: rows}, err
}

func cities(rows []models.City, err error) (citiesOutput, error) {
	return citiesOutput{Cities: rows}, err
}

func states(rows []models.State, err error) (statesOutput, error) {
	return statesOutput{States: rows}, err
}

// NewWorld creates the server exposing the world geography lookups
func NewWorld(store storage.WorldStore, logger *zap.Logger) *mcp.Server {
	s := newServer(WorldName, DefaultVersion, logger)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_countries",
		Description: "Search countries by name. Returns up to 20 countries ordered by name.",
	}, handle(func(ctx context.Context, in nameInput) (countriesOutput, error) {
		return countries(store.SearchCountries(ctx, in.Name))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_countries",
		Description: "List countries ordered by name, optionally filtered by name. Returns up to 10 matches when filtered.",
	}, handle(func(ctx context.Context, in nameInput) (countriesOutput, error) {
		return countries(store.ListCountries(ctx, in.Name))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_country",
		Description: "Get one country by its two-letter ISO code. Returns an empty object when no country matches.",
	}, handle(func(ctx context.Context, in iso2Input) (*models.Country, error) {
		return store.GetCountry(ctx, in.ISO2)
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_countries_by_currency",
		Description: "Get the countries that use a currency code.",
	}, handle(func(ctx context.Context, in currencyInput) (countriesOutput, error) {
		return countries(store.GetCountriesByCurrency(ctx, in.Currency))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_countries_by_region",
		Description: "Get the countries whose region name contains the given text.",
	}, handle(func(ctx context.Context, in regionInput) (countriesOutput, error) {
		return countries(store.GetCountriesByRegion(ctx, in.Region))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_cities",
		Description: "Search cities by name. Returns up to 30 cities.",
	}, handle(func(ctx context.Context, in nameInput) (citiesOutput, error) {
		return cities(store.SearchCities(ctx, in.Name))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_cities_by_country",
		Description: "Get the cities of a country, optionally filtered by name. Returns up to 50 cities.",
	}, handle(func(ctx context.Context, in citiesByCountryInput) (citiesOutput, error) {
		return cities(store.GetCitiesByCountry(ctx, in.CountryCode, in.Name))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_states",
		Description: "Search states and provinces by name. Returns up to 30 states.",
	}, handle(func(ctx context.Context, in nameInput) (statesOutput, error) {
		return states(store.SearchStates(ctx, in.Name))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_states_by_country",
		Description: "Get every state or province of a country.",
	}, handle(func(ctx context.Context, in countryCodeInput) (statesOutput, error) {
		return states(store.GetStatesByCountry(ctx, in.CountryCode))
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_regions",
		Description: "Get every world region.",
	}, handle(func(ctx context.Context, _ noInput) (regionsOutput, error) {
		rows, err := store.GetRegions(ctx)
		return regionsOutput{Regions: rows}, err
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_subregions",
		Description: "Get the subregions of a region.",
	}, handle(func(ctx context.Context, in subregionsInput) (subregionsOutput, error) {
		rows, err := store.GetSubregions(ctx, in.RegionID)
		return subregionsOutput{Subregions: rows}, err
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_database_stats",
		Description: "Count the rows of the countries, cities, states, regions and subregions tables.",
	}, handle(func(ctx context.Context, _ noInput) (map[string]int64, error) {
		return store.DatabaseStats(ctx)
	}))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_popular_currencies",
		Description: "Get the 20 currencies used by the most countries.",
	}, handle(func(ctx context.Context, _ noInput) (currenciesOutput, error) {
		rows, err := store.PopularCurrencies(ctx)
		return currenciesOutput{Currencies: rows}, err
	}))

	return s
}
