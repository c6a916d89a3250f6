package models

// Country represents a row of the countries table.
// Only iso2, name, region, currency, currency_name and capital are guaranteed
// by every store. Every field is omitempty so a missing country renders as an empty object.
type Country struct {
	ID           int64   `db:"id" json:"id,omitempty"`
	Name         string  `db:"name" json:"name,omitempty"`
	ISO2         string  `db:"iso2" json:"iso2,omitempty"`
	ISO3         *string `db:"iso3" json:"iso3,omitempty"`
	Capital      *string `db:"capital" json:"capital,omitempty"`
	Currency     *string `db:"currency" json:"currency,omitempty"`
	CurrencyName *string `db:"currency_name" json:"currency_name,omitempty"`
	Region       *string `db:"region" json:"region,omitempty"`
	Subregion    *string `db:"subregion" json:"subregion,omitempty"`
}

// City represents a row of the cities table.
// Only Name and CountryCode are guaranteed by every store.
type City struct {
	ID          int64   `db:"id" json:"id,omitempty"`
	Name        string  `db:"name" json:"name"`
	StateCode   *string `db:"state_code" json:"state_code,omitempty"`
	CountryCode string  `db:"country_code" json:"country_code"`
}

// State represents a row of the states table.
// Only Name and CountryCode are guaranteed by every store.
type State struct {
	ID          int64   `db:"id" json:"id,omitempty"`
	Name        string  `db:"name" json:"name"`
	CountryCode string  `db:"country_code" json:"country_code"`
	ISO2        *string `db:"iso2" json:"iso2,omitempty"`
	Type        *string `db:"type" json:"type,omitempty"`
}

// Region represents a row of the regions table
type Region struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Subregion represents a row of the subregions table
type Subregion struct {
	ID       int64  `db:"id" json:"id"`
	RegionID int64  `db:"region_id" json:"region_id"`
	Name     string `db:"name" json:"name"`
}

// CurrencyUsage is one group of countries sharing a currency
type CurrencyUsage struct {
	Currency     string  `db:"currency" json:"currency"`
	CurrencyName *string `db:"currency_name" json:"currency_name,omitempty"`
	CountryCount int64   `db:"country_count" json:"country_count"`
}

// Chatter represents a community member and their message count
type Chatter struct {
	Name     string `db:"name" json:"name"`
	Messages int64  `db:"messages" json:"messages"`
}
