// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package models

import "time"

// WorldBankObservation is one indicator value for a country and year.
// Value may be nil: the row exists but the World Bank published no number.
type WorldBankObservation struct {
	CountryCode   string    `json:"country"`
	CountryName   string    `json:"country_name,omitempty"`
	IndicatorCode string    `json:"indicator"`
	IndicatorName string    `json:"indicator_name,omitempty"`
	Year          int       `json:"year"`
	Value         *float64  `json:"value"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HappinessObservation is one World Happiness Report row for a country and year.
type HappinessObservation struct {
	CountryCode string  `json:"country"`
	CountryName string  `json:"country_name,omitempty"`
	Region      *string `json:"region,omitempty"` // populated by region-aware reads only
	Year        int     `json:"year"`

	HappinessScore                 *float64 `json:"happiness_score"`
	GDPPerCapita                   *float64 `json:"gdp_per_capita"`
	SocialSupport                  *float64 `json:"social_support"`
	HealthyLifeExpectancy          *float64 `json:"healthy_life_expectancy"`
	FreedomToMakeLifeChoices       *float64 `json:"freedom_to_make_life_choices"`
	Generosity                     *float64 `json:"generosity"`
	PerceptionsOfCorruption        *float64 `json:"perceptions_of_corruption"`
	ConfidenceInNationalGovernment *float64 `json:"confidence_in_national_government"`
	DystopiaResidual               *float64 `json:"dystopia_residual"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegionalAggregate is a materialized average happiness score for a region.
type RegionalAggregate struct {
	Region            string    `json:"region"`
	Year              int       `json:"year"`
	AvgHappinessScore *float64  `json:"avg_happiness_score"`
	CountriesCount    int       `json:"countries_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// YearValue is a single point of a fetched World Bank series.
type YearValue struct {
	Year  int
	Value float64
}

// YearRange is an inclusive [Start, End] window.
type YearRange struct {
	Start int
	End   int
}

// Contains reports whether year lies within the window.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// ObservationFilter narrows observation listings. Zero values mean "any".
// Year takes precedence over the Start/End window when set.
type ObservationFilter struct {
	CountryCode   string
	IndicatorCode string
	Region        string
	Year          int
	StartYear     int
	EndYear       int
}

// Float returns a pointer to v. Handy for building nullable values.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
