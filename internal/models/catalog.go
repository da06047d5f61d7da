// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package models

import "time"

// Country is a catalog entry keyed by Code. Name, Region and IncomeGroup are
// mutable and overwritten on upsert.
type Country struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Region      *string   `json:"region"`
	IncomeGroup *string   `json:"income_group"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName falls back to the code when the name is empty.
func (c *Country) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Name == "" {
		return c.Code
	}
	return c.Name
}

// Indicator is a World Bank development indicator keyed by Code.
type Indicator struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Topic       string    `json:"topic"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName falls back to the code when the name is empty.
func (i *Indicator) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.Name == "" {
		return i.Code
	}
	return i.Name
}

// CountryFilter narrows catalog listings.
type CountryFilter struct {
	Region string
}

// IndicatorFilter narrows catalog listings.
type IndicatorFilter struct {
	Topic string
}
