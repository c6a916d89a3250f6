package stubs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"
)

func newInitializedWorld(t *testing.T) *MockWorldDB {
	t.Helper()
	db := NewMockWorldDB()
	if err := db.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func TestMockWorldDB_GetCountry(t *testing.T) {
	db := newInitializedWorld(t)
	ctx := context.Background()

	lower, err := db.GetCountry(ctx, "us")
	if err != nil {
		t.Fatalf("Failed to get country: %v", err)
	}
	if lower == nil || lower.Name != "United States" {
		t.Fatalf("Expected United States, got %+v", lower)
	}

	upper, err := db.GetCountry(ctx, "US")
	if err != nil {
		t.Fatalf("Failed to get country: %v", err)
	}
	if upper == nil || upper.ID != lower.ID {
		t.Errorf("Expected case-insensitive lookup to return the same row")
	}

	missing, err := db.GetCountry(ctx, "xx")
	if err != nil {
		t.Fatalf("Failed to get country: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown code, got %+v", missing)
	}
}

func TestMockWorldDB_SearchCountriesCap(t *testing.T) {
	db := NewMockWorldDB()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		db.AddCountry(models.Country{ID: int64(i), Name: fmt.Sprintf("Country %02d", i), ISO2: fmt.Sprintf("Q%d", i)})
	}

	countries, err := db.SearchCountries(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to search countries: %v", err)
	}
	if len(countries) != storage.SearchCountriesLimit {
		t.Errorf("Expected %d countries, got %d", storage.SearchCountriesLimit, len(countries))
	}

	listed, err := db.ListCountries(ctx, strPtr("country"))
	if err != nil {
		t.Fatalf("Failed to list countries: %v", err)
	}
	if len(listed) != storage.ListCountriesLimit {
		t.Errorf("Expected %d countries, got %d", storage.ListCountriesLimit, len(listed))
	}

	all, err := db.ListCountries(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list countries: %v", err)
	}
	if len(all) != 25 {
		t.Errorf("Expected 25 countries, got %d", len(all))
	}
}

func TestMockWorldDB_EmptyResultsAreNotNil(t *testing.T) {
	db := NewMockWorldDB()
	ctx := context.Background()

	countries, err := db.SearchCountries(ctx, strPtr("atlantis"))
	if err != nil {
		t.Fatalf("Failed to search countries: %v", err)
	}
	if countries == nil {
		t.Error("Expected empty slice, got nil")
	}

	subregions, err := db.GetSubregions(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get subregions: %v", err)
	}
	if subregions == nil {
		t.Error("Expected empty slice, got nil")
	}
}

func TestMockWorldDB_PopularCurrencies(t *testing.T) {
	db := newInitializedWorld(t)
	db.AddCountry(models.Country{ID: 8, Name: "Antarctica", ISO2: "AQ"})

	usage, err := db.PopularCurrencies(context.Background())
	if err != nil {
		t.Fatalf("Failed to rank currencies: %v", err)
	}

	if len(usage) != 4 {
		t.Fatalf("Expected 4 currencies, got %d", len(usage))
	}
	if usage[0].Currency != "EUR" || usage[0].CountryCount != 2 {
		t.Errorf("Expected EUR with 2 countries first, got %+v", usage[0])
	}
	for _, u := range usage {
		if u.Currency == "" {
			t.Error("Expected countries without currency to be excluded")
		}
	}
}

func TestMockWorldDB_DatabaseStats(t *testing.T) {
	db := newInitializedWorld(t)

	stats, err := db.DatabaseStats(context.Background())
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	expected := map[string]int64{
		"total_countries":  5,
		"total_cities":     5,
		"total_states":     3,
		"total_regions":    2,
		"total_subregions": 3,
	}
	for key, want := range expected {
		if stats[key] != want {
			t.Errorf("Expected %s=%d, got %d", key, want, stats[key])
		}
	}
}

func TestMockWorldDB_FailWith(t *testing.T) {
	db := newInitializedWorld(t)
	boom := errors.New("boom")
	db.FailWith(boom)

	if _, err := db.GetRegions(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected injected error, got %v", err)
	}

	db.FailWith(nil)
	if _, err := db.GetRegions(context.Background()); err != nil {
		t.Errorf("Expected no error after reset, got %v", err)
	}
}

func TestMockCommunityDB_TopChatters(t *testing.T) {
	db := NewMockCommunityDB()
	ctx := context.Background()

	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	db.SetMessages("dave", 2210)

	chatters, err := db.TopChatters(ctx)
	if err != nil {
		t.Fatalf("Failed to list chatters: %v", err)
	}

	want := []string{"charlie", "dave", "alice", "bob"}
	if len(chatters) != len(want) {
		t.Fatalf("Expected %d chatters, got %d", len(want), len(chatters))
	}
	for i, name := range want {
		if chatters[i].Name != name {
			t.Errorf("Expected %s at position %d, got %s", name, i, chatters[i].Name)
		}
	}
}

func TestMockWorldDB_NameTiesKeepInsertionOrder(t *testing.T) {
	db := NewMockWorldDB()
	ctx := context.Background()

	states := []string{"IL", "MA", "MO", "OR", "OH", "VT"}
	for i, state := range states {
		db.AddCity(models.City{ID: int64(i + 1), Name: "Springfield", StateCode: strPtr(state), CountryCode: "US"})
	}
	db.AddCity(models.City{ID: 100, Name: "Albany", CountryCode: "US"})
	for i := 0; i < storage.CitiesByCountryLimit; i++ {
		db.AddCity(models.City{ID: int64(200 + i), Name: fmt.Sprintf("Zeta %02d", i), CountryCode: "US"})
	}

	cities, err := db.SearchCities(ctx, strPtr("springfield"))
	if err != nil {
		t.Fatalf("Failed to search cities: %v", err)
	}
	if len(cities) != len(states) {
		t.Fatalf("Expected %d cities, got %d", len(states), len(cities))
	}
	for i, c := range cities {
		if deref(c.StateCode) != states[i] {
			t.Errorf("Expected city %d in state %s, got %s", i, states[i], deref(c.StateCode))
		}
	}

	byCountry, err := db.GetCitiesByCountry(ctx, "us", nil)
	if err != nil {
		t.Fatalf("Failed to get cities by country: %v", err)
	}
	if len(byCountry) != storage.CitiesByCountryLimit {
		t.Fatalf("Expected %d cities, got %d", storage.CitiesByCountryLimit, len(byCountry))
	}
	if byCountry[0].Name != "Albany" || deref(byCountry[1].StateCode) != "IL" {
		t.Errorf("Expected Albany then the first Springfield, got %s and %s", byCountry[0].Name, deref(byCountry[1].StateCode))
	}
}
