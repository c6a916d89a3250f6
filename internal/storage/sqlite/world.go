package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"mcpdemo/internal/models"
	"mcpdemo/internal/storage"
)

// Countries, cities and states carry more columns than the lookups rely on,
// and which ones varies between stores. They are selected whole and decoded
// through an unsafe sqlx handle: absent columns leave the optional fields
// empty and unknown columns are dropped.
const (
	countryColumns   = `*`
	cityColumns      = `*`
	stateColumns     = `*`
	regionColumns    = `id, name`
	subregionColumns = `id, region_id, name`
)

// WorldDB runs the world dataset lookups
type WorldDB struct {
	provider *Provider
}

var _ storage.WorldStore = (*WorldDB)(nil)

// NewWorldDB creates a world store backed by the provider's world file
func NewWorldDB(provider *Provider) *WorldDB {
	return &WorldDB{provider: provider}
}

// selectBuilder assembles one parameterized SELECT
type selectBuilder struct {
	columns string
	table   string
	where   []string
	args    []any
	orderBy string
	limit   int
}

func newSelect(columns, table string) *selectBuilder {
	return &selectBuilder{columns: columns, table: table}
}

func (b *selectBuilder) equals(column string, value any) *selectBuilder {
	b.where = append(b.where, column+" = ?")
	b.args = append(b.args, value)
	return b
}

// contains adds a case-insensitive substring predicate.
// instr avoids treating % and _ in the value as LIKE wildcards.
func (b *selectBuilder) contains(column, value string) *selectBuilder {
	b.where = append(b.where, "instr(lower("+column+"), lower(?)) > 0")
	b.args = append(b.args, value)
	return b
}

// containsOptional adds the predicate only when the filter applies
func (b *selectBuilder) containsOptional(column string, filter *string) *selectBuilder {
	if value, ok := storage.Text(filter); ok {
		b.contains(column, value)
	}
	return b
}

func (b *selectBuilder) order(columns string) *selectBuilder {
	b.orderBy = columns
	return b
}

func (b *selectBuilder) take(limit int) *selectBuilder {
	b.limit = limit
	return b
}

func (b *selectBuilder) build() (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", b.columns, b.table)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	args := b.args
	if b.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
	}
	return sb.String(), args
}

func selectAll[T any](ctx context.Context, w *WorldDB, b *selectBuilder) ([]T, error) {
	query, args := b.build()
	var rows []T
	err := w.provider.with(ctx, storage.World, func(db *sqlx.DB) error {
		var err error
		rows, err = projectRows[T](ctx, db.Unsafe(), query, args...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", b.table, err)
	}
	return rows, nil
}

// SearchCountries returns up to 20 countries whose name contains name
func (w *WorldDB) SearchCountries(ctx context.Context, name *string) ([]models.Country, error) {
	return selectAll[models.Country](ctx, w,
		newSelect(countryColumns, "countries").
			containsOptional("name", name).
			order("name").
			take(storage.SearchCountriesLimit))
}

// ListCountries returns up to 10 matching countries, or up to 197 when unfiltered
func (w *WorldDB) ListCountries(ctx context.Context, name *string) ([]models.Country, error) {
	limit := storage.ListAllCountriesLimit
	if _, ok := storage.Text(name); ok {
		limit = storage.ListCountriesLimit
	}
	return selectAll[models.Country](ctx, w,
		newSelect(countryColumns, "countries").
			containsOptional("name", name).
			order("name").
			take(limit))
}

// GetCountry returns the country with the given iso2 code, or nil
func (w *WorldDB) GetCountry(ctx context.Context, iso2 string) (*models.Country, error) {
	query, args := newSelect(countryColumns, "countries").
		equals("iso2", strings.ToUpper(iso2)).
		take(1).
		build()

	var country *models.Country
	err := w.provider.with(ctx, storage.World, func(db *sqlx.DB) error {
		var err error
		country, err = projectRow[models.Country](ctx, db.Unsafe(), query, args...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get country %q: %w", iso2, err)
	}
	return country, nil
}

// GetCountriesByCurrency returns the countries using the currency code
func (w *WorldDB) GetCountriesByCurrency(ctx context.Context, currency string) ([]models.Country, error) {
	return selectAll[models.Country](ctx, w,
		newSelect(countryColumns, "countries").
			equals("currency", strings.ToUpper(currency)).
			order("name"))
}

// GetCountriesByRegion returns the countries whose region contains region
func (w *WorldDB) GetCountriesByRegion(ctx context.Context, region string) ([]models.Country, error) {
	return selectAll[models.Country](ctx, w,
		newSelect(countryColumns, "countries").
			contains("region", region).
			order("name"))
}

// SearchCities returns up to 30 cities whose name contains name
func (w *WorldDB) SearchCities(ctx context.Context, name *string) ([]models.City, error) {
	return selectAll[models.City](ctx, w,
		newSelect(cityColumns, "cities").
			containsOptional("name", name).
			order("name").
			take(storage.SearchCitiesLimit))
}

// GetCitiesByCountry returns up to 50 cities of a country, optionally filtered by name
func (w *WorldDB) GetCitiesByCountry(ctx context.Context, countryCode string, name *string) ([]models.City, error) {
	return selectAll[models.City](ctx, w,
		newSelect(cityColumns, "cities").
			equals("country_code", strings.ToUpper(countryCode)).
			containsOptional("name", name).
			order("name").
			take(storage.CitiesByCountryLimit))
}

// SearchStates returns up to 30 states whose name contains name
func (w *WorldDB) SearchStates(ctx context.Context, name *string) ([]models.State, error) {
	return selectAll[models.State](ctx, w,
		newSelect(stateColumns, "states").
			containsOptional("name", name).
			order("name").
			take(storage.SearchStatesLimit))
}

// GetStatesByCountry returns every state of a country
func (w *WorldDB) GetStatesByCountry(ctx context.Context, countryCode string) ([]models.State, error) {
	return selectAll[models.State](ctx, w,
		newSelect(stateColumns, "states").
			equals("country_code", strings.ToUpper(countryCode)).
			order("name"))
}

// GetRegions returns every region
func (w *WorldDB) GetRegions(ctx context.Context) ([]models.Region, error) {
	return selectAll[models.Region](ctx, w,
		newSelect(regionColumns, "regions").order("id"))
}

// GetSubregions returns the subregions of a region
func (w *WorldDB) GetSubregions(ctx context.Context, regionID int64) ([]models.Subregion, error) {
	return selectAll[models.Subregion](ctx, w,
		newSelect(subregionColumns, "subregions").
			equals("region_id", regionID).
			order("name"))
}

// DatabaseStats counts the rows of each world table
func (w *WorldDB) DatabaseStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64, len(storage.StatsTables))
	err := w.provider.with(ctx, storage.World, func(db *sqlx.DB) error {
		for _, table := range storage.StatsTables {
			var count int64
			// table comes from a fixed list, never from input
			if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
				return fmt.Errorf("failed to count %s: %w", table, err)
			}
			stats[storage.DatabaseStatsKeyPrefix+table] = count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// PopularCurrencies groups countries by currency, most used first
func (w *WorldDB) PopularCurrencies(ctx context.Context) ([]models.CurrencyUsage, error) {
	const query = `
		SELECT currency, currency_name, COUNT(*) AS country_count
		FROM countries
		WHERE currency IS NOT NULL
		GROUP BY currency, currency_name
		ORDER BY country_count DESC
		LIMIT ?`

	var usage []models.CurrencyUsage
	err := w.provider.with(ctx, storage.World, func(db *sqlx.DB) error {
		var err error
		usage, err = projectRows[models.CurrencyUsage](ctx, db, query, storage.PopularCurrenciesLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank currencies: %w", err)
	}
	return usage, nil
}
