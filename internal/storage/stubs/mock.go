package stubs

import (
	"context"
	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"
	"sort"
	"strings"
	"sync"
)

func strPtr(s string) *string {
	return &s
}

// containsFold reports whether value contains filter, ignoring case.
// A nil or empty filter matches everything.
func containsFold(value string, filter *string) bool {
	f, ok := storage.Text(filter)
	if !ok {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(f))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func limitRows[T any](rows []T, limit int) []T {
	if limit > 0 && limit < len(rows) {
		return rows[:limit]
	}
	return rows
}

// MockWorldDB is an in-memory implementation of the WorldStore interface for testing
type MockWorldDB struct {
	mu         sync.RWMutex
	countries  []models.Country
	cities     []models.City
	states     []models.State
	regions    []models.Region
	subregions []models.Subregion
	err        error
}

var _ storage.WorldStore = (*MockWorldDB)(nil)

// NewMockWorldDB creates a new empty mock world database
func NewMockWorldDB() *MockWorldDB {
	return &MockWorldDB{}
}

// Initialize loads a small sample of the world dataset
func (m *MockWorldDB) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regions = []models.Region{
		{ID: 2, Name: "Americas"},
		{ID: 4, Name: "Europe"},
	}
	m.subregions = []models.Subregion{
		{ID: 6, RegionID: 2, Name: "Northern America"},
		{ID: 16, RegionID: 4, Name: "Western Europe"},
		{ID: 17, RegionID: 4, Name: "Northern Europe"},
	}
	m.countries = []models.Country{
		{ID: 233, Name: "United States", ISO2: "US", ISO3: strPtr("USA"), Capital: strPtr("Washington"),
			Currency: strPtr("USD"), CurrencyName: strPtr("United States dollar"),
			Region: strPtr("Americas"), Subregion: strPtr("Northern America")},
		{ID: 39, Name: "Canada", ISO2: "CA", ISO3: strPtr("CAN"), Capital: strPtr("Ottawa"),
			Currency: strPtr("CAD"), CurrencyName: strPtr("Canadian dollar"),
			Region: strPtr("Americas"), Subregion: strPtr("Northern America")},
		{ID: 232, Name: "United Kingdom", ISO2: "GB", ISO3: strPtr("GBR"), Capital: strPtr("London"),
			Currency: strPtr("GBP"), CurrencyName: strPtr("British pound"),
			Region: strPtr("Europe"), Subregion: strPtr("Northern Europe")},
		{ID: 75, Name: "France", ISO2: "FR", ISO3: strPtr("FRA"), Capital: strPtr("Paris"),
			Currency: strPtr("EUR"), CurrencyName: strPtr("Euro"),
			Region: strPtr("Europe"), Subregion: strPtr("Western Europe")},
		{ID: 82, Name: "Germany", ISO2: "DE", ISO3: strPtr("DEU"), Capital: strPtr("Berlin"),
			Currency: strPtr("EUR"), CurrencyName: strPtr("Euro"),
			Region: strPtr("Europe"), Subregion: strPtr("Western Europe")},
	}
	m.states = []models.State{
		{ID: 1416, Name: "California", CountryCode: "US", ISO2: strPtr("CA"), Type: strPtr("state")},
		{ID: 1407, Name: "Texas", CountryCode: "US", ISO2: strPtr("TX"), Type: strPtr("state")},
		{ID: 866, Name: "Ontario", CountryCode: "CA", ISO2: strPtr("ON"), Type: strPtr("province")},
	}
	m.cities = []models.City{
		{ID: 1, Name: "San Francisco", StateCode: strPtr("CA"), CountryCode: "US"},
		{ID: 2, Name: "Los Angeles", StateCode: strPtr("CA"), CountryCode: "US"},
		{ID: 3, Name: "Austin", StateCode: strPtr("TX"), CountryCode: "US"},
		{ID: 4, Name: "Toronto", StateCode: strPtr("ON"), CountryCode: "CA"},
		{ID: 5, Name: "Paris", CountryCode: "FR"},
	}

	return nil
}

// AddCountry inserts a country row
func (m *MockWorldDB) AddCountry(c models.Country) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countries = append(m.countries, c)
}

// AddCity inserts a city row
func (m *MockWorldDB) AddCity(c models.City) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = append(m.cities, c)
}

// FailWith makes every following call return err. A nil err restores normal behavior.
func (m *MockWorldDB) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockWorldDB) countriesWhere(match func(models.Country) bool, limit int) ([]models.Country, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	countries := make([]models.Country, 0)
	for _, c := range m.countries {
		if match(c) {
			countries = append(countries, c)
		}
	}

	// Sort by name
	sort.SliceStable(countries, func(i, j int) bool {
		return countries[i].Name < countries[j].Name
	})

	return limitRows(countries, limit), nil
}

func (m *MockWorldDB) citiesWhere(match func(models.City) bool, limit int) ([]models.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	cities := make([]models.City, 0)
	for _, c := range m.cities {
		if match(c) {
			cities = append(cities, c)
		}
	}
	sort.SliceStable(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})

	return limitRows(cities, limit), nil
}

func (m *MockWorldDB) statesWhere(match func(models.State) bool, limit int) ([]models.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	states := make([]models.State, 0)
	for _, s := range m.states {
		if match(s) {
			states = append(states, s)
		}
	}
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Name < states[j].Name
	})

	return limitRows(states, limit), nil
}

// SearchCountries returns up to 20 countries whose name contains name
func (m *MockWorldDB) SearchCountries(ctx context.Context, name *string) ([]models.Country, error) {
	return m.countriesWhere(func(c models.Country) bool {
		return containsFold(c.Name, name)
	}, storage.SearchCountriesLimit)
}

// ListCountries returns up to 10 matching countries, or up to 197 when unfiltered
func (m *MockWorldDB) ListCountries(ctx context.Context, name *string) ([]models.Country, error) {
	limit := storage.ListAllCountriesLimit
	if _, ok := storage.Text(name); ok {
		limit = storage.ListCountriesLimit
	}
	return m.countriesWhere(func(c models.Country) bool {
		return containsFold(c.Name, name)
	}, limit)
}

// GetCountry returns the country with the given iso2 code, or nil
func (m *MockWorldDB) GetCountry(ctx context.Context, iso2 string) (*models.Country, error) {
	code := strings.ToUpper(iso2)
	countries, err := m.countriesWhere(func(c models.Country) bool {
		return c.ISO2 == code
	}, 1)
	if err != nil || len(countries) == 0 {
		return nil, err
	}
	return &countries[0], nil
}

// GetCountriesByCurrency returns the countries using the currency code
func (m *MockWorldDB) GetCountriesByCurrency(ctx context.Context, currency string) ([]models.Country, error) {
	code := strings.ToUpper(currency)
	return m.countriesWhere(func(c models.Country) bool {
		return c.Currency != nil && *c.Currency == code
	}, 0)
}

// GetCountriesByRegion returns the countries whose region contains region
func (m *MockWorldDB) GetCountriesByRegion(ctx context.Context, region string) ([]models.Country, error) {
	return m.countriesWhere(func(c models.Country) bool {
		return c.Region != nil && containsFold(*c.Region, &region)
	}, 0)
}

// SearchCities returns up to 30 cities whose name contains name
func (m *MockWorldDB) SearchCities(ctx context.Context, name *string) ([]models.City, error) {
	return m.citiesWhere(func(c models.City) bool {
		return containsFold(c.Name, name)
	}, storage.SearchCitiesLimit)
}

// GetCitiesByCountry returns up to 50 cities of a country, optionally filtered by name
func (m *MockWorldDB) GetCitiesByCountry(ctx context.Context, countryCode string, name *string) ([]models.City, error) {
	code := strings.ToUpper(countryCode)
	return m.citiesWhere(func(c models.City) bool {
		return c.CountryCode == code && containsFold(c.Name, name)
	}, storage.CitiesByCountryLimit)
}

// SearchStates returns up to 30 states whose name contains name
func (m *MockWorldDB) SearchStates(ctx context.Context, name *string) ([]models.State, error) {
	return m.statesWhere(func(s models.State) bool {
		return containsFold(s.Name, name)
	}, storage.SearchStatesLimit)
}

// GetStatesByCountry returns every state of a country
func (m *MockWorldDB) GetStatesByCountry(ctx context.Context, countryCode string) ([]models.State, error) {
	code := strings.ToUpper(countryCode)
	return m.statesWhere(func(s models.State) bool {
		return s.CountryCode == code
	}, 0)
}

// GetRegions returns every region
func (m *MockWorldDB) GetRegions(ctx context.Context) ([]models.Region, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	regions := make([]models.Region, len(m.regions))
	copy(regions, m.regions)
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].ID < regions[j].ID
	})
	return regions, nil
}

// GetSubregions returns the subregions of a region
func (m *MockWorldDB) GetSubregions(ctx context.Context, regionID int64) ([]models.Subregion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	subregions := make([]models.Subregion, 0)
	for _, s := range m.subregions {
		if s.RegionID == regionID {
			subregions = append(subregions, s)
		}
	}
	sort.SliceStable(subregions, func(i, j int) bool {
		return subregions[i].Name < subregions[j].Name
	})
	return subregions, nil
}

// DatabaseStats counts the rows of each table
func (m *MockWorldDB) DatabaseStats(ctx context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	counts := map[string]int{
		"countries":  len(m.countries),
		"cities":     len(m.cities),
		"states":     len(m.states),
		"regions":    len(m.regions),
		"subregions": len(m.subregions),
	}
	stats := make(map[string]int64, len(storage.StatsTables))
	for _, table := range storage.StatsTables {
		stats[storage.DatabaseStatsKeyPrefix+table] = int64(counts[table])
	}
	return stats, nil
}

// PopularCurrencies groups countries by currency, most used first
func (m *MockWorldDB) PopularCurrencies(ctx context.Context) ([]models.CurrencyUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	type key struct{ code, name string }
	counts := make(map[key]int64)
	names := make(map[key]*string)
	for _, c := range m.countries {
		if c.Currency == nil {
			continue
		}
		k := key{code: *c.Currency, name: deref(c.CurrencyName)}
		counts[k]++
		names[k] = c.CurrencyName
	}

	usage := make([]models.CurrencyUsage, 0, len(counts))
	for k, count := range counts {
		usage = append(usage, models.CurrencyUsage{
			Currency:     k.code,
			CurrencyName: names[k],
			CountryCount: count,
		})
	}

	// Sort by count descending, then by code
	sort.SliceStable(usage, func(i, j int) bool {
		if usage[i].CountryCount != usage[j].CountryCount {
			return usage[i].CountryCount > usage[j].CountryCount
		}
		return usage[i].Currency < usage[j].Currency
	})

	return limitRows(usage, storage.PopularCurrenciesLimit), nil
}

// MockCommunityDB is an in-memory implementation of the CommunityStore interface
type MockCommunityDB struct {
	mu       sync.RWMutex
	messages map[string]int64
}

var _ storage.CommunityStore = (*MockCommunityDB)(nil)

// NewMockCommunityDB creates a new mock community database
func NewMockCommunityDB() *MockCommunityDB {
	return &MockCommunityDB{
		messages: make(map[string]int64),
	}
}

// Initialize sets up default chatters for testing
func (m *MockCommunityDB) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages["alice"] = 1542
	m.messages["bob"] = 873
	m.messages["charlie"] = 2210

	return nil
}

// SetMessages stores the message count of one chatter
func (m *MockCommunityDB) SetMessages(name string, messages int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[name] = messages
}

// TopChatters returns every chatter sorted by number of messages
func (m *MockCommunityDB) TopChatters(ctx context.Context) ([]models.Chatter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chatters := make([]models.Chatter, 0, len(m.messages))
	for name, messages := range m.messages {
		chatters = append(chatters, models.Chatter{Name: name, Messages: messages})
	}

	sort.SliceStable(chatters, func(i, j int) bool {
		if chatters[i].Messages != chatters[j].Messages {
			return chatters[i].Messages > chatters[j].Messages
		}
		return chatters[i].Name < chatters[j].Name
	})

	return chatters, nil
}

// Close does nothing for mock DB
func (m *MockCommunityDB) Close() error {
	return nil
}
