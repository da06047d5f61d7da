// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

// Package catalog holds the static seed tables: the starter country and
// indicator catalog, the happiness-report name overrides, the upstream data
// sources and a small sample of happiness rows.
//
// Every accessor returns a fresh copy. Callers pass these values into
// constructors (the happiness fetcher takes the override table, the store
// seeder takes the catalog) so nothing reads package-level mutable state.
package catalog

import (
	"maps"

	"github.com/tomtom215/worldpulse/internal/models"
)

// Catalog bundles the seed tables loaded at process start.
type Catalog struct {
	Countries     []models.Country
	Indicators    []models.Indicator
	NameOverrides map[string]string
	DataSources   []models.DataSource
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Countries:     Countries(),
		Indicators:    Indicators(),
		NameOverrides: NameOverrides(),
		DataSources:   DataSources(),
	}
}

// NameOverrides maps happiness-report country names that differ from the
// World Bank naming to country codes.
func NameOverrides() map[string]string {
	return maps.Clone(nameOverrides)
}

var nameOverrides = map[string]string{
	"United States":  "US",
	"United Kingdom": "GB",
	"South Korea":    "KR",
	"Russia":         "RU",
	"Czech Republic": "CZ",
	"Slovakia":       "SK",
	"Taiwan":         "TW",
	"Hong Kong":      "HK",
}

type countrySeed struct {
	code, name, region, income string
}

var countrySeeds = []countrySeed{
	{"US", "United States", "North America", "High income"},
	{"CN", "China", "East Asia & Pacific", "Upper middle income"},
	{"IN", "India", "South Asia", "Lower middle income"},
	{"DE", "Germany", "Europe & Central Asia", "High income"},
	{"JP", "Japan", "East Asia & Pacific", "High income"},
	{"GB", "United Kingdom", "Europe & Central Asia", "High income"},
	{"FR", "France", "Europe & Central Asia", "High income"},
	{"BR", "Brazil", "Latin America & Caribbean", "Upper middle income"},
	{"CA", "Canada", "North America", "High income"},
	{"AU", "Australia", "East Asia & Pacific", "High income"},
	{"RU", "Russian Federation", "Europe & Central Asia", "Upper middle income"},
	{"KR", "Korea, Rep.", "East Asia & Pacific", "High income"},
	{"MX", "Mexico", "Latin America & Caribbean", "Upper middle income"},
	{"ID", "Indonesia", "East Asia & Pacific", "Lower middle income"},
	{"TR", "Turkey", "Europe & Central Asia", "Upper middle income"},
	{"SA", "Saudi Arabia", "Middle East & North Africa", "High income"},
	{"AR", "Argentina", "Latin America & Caribbean", "Upper middle income"},
	{"ZA", "South Africa", "Sub-Saharan Africa", "Upper middle income"},
	{"EG", "Egypt, Arab Rep.", "Middle East & North Africa", "Lower middle income"},
	{"NG", "Nigeria", "Sub-Saharan Africa", "Lower middle income"},
	{"PK", "Pakistan", "South Asia", "Lower middle income"},
	{"BD", "Bangladesh", "South Asia", "Lower middle income"},
	{"VN", "Vietnam", "East Asia & Pacific", "Lower middle income"},
	{"PH", "Philippines", "East Asia & Pacific", "Lower middle income"},
	{"MY", "Malaysia", "East Asia & Pacific", "Upper middle income"},
	{"TH", "Thailand", "East Asia & Pacific", "Upper middle income"},
	{"SG", "Singapore", "East Asia & Pacific", "High income"},
	{"AE", "United Arab Emirates", "Middle East & North Africa", "High income"},
	{"IL", "Israel", "Middle East & North Africa", "High income"},
	{"NO", "Norway", "Europe & Central Asia", "High income"},
	{"SE", "Sweden", "Europe & Central Asia", "High income"},
	{"DK", "Denmark", "Europe & Central Asia", "High income"},
	{"FI", "Finland", "Europe & Central Asia", "High income"},
	{"CH", "Switzerland", "Europe & Central Asia", "High income"},
	{"AT", "Austria", "Europe & Central Asia", "High income"},
	{"BE", "Belgium", "Europe & Central Asia", "High income"},
	{"NL", "Netherlands", "Europe & Central Asia", "High income"},
	{"IE", "Ireland", "Europe & Central Asia", "High income"},
	{"NZ", "New Zealand", "East Asia & Pacific", "High income"},
	{"CL", "Chile", "Latin America & Caribbean", "High income"},
}

// Countries returns the starter country catalog.
func Countries() []models.Country {
	out := make([]models.Country, 0, len(countrySeeds))
	for _, s := range countrySeeds {
		out = append(out, models.Country{
			Code:        s.code,
			Name:        s.name,
			Region:      models.String(s.region),
			IncomeGroup: models.String(s.income),
		})
	}
	return out
}

var indicatorSeeds = []models.Indicator{
	{
		Code:        "NY.GDP.PCAP.CD",
		Name:        "GDP per capita (current US$)",
		Unit:        "US$",
		Description: "GDP per capita is gross domestic product divided by midyear population.",
		Topic:       "Economy & Growth",
	},
	{
		Code:        "SI.POV.DDAY",
		Name:        "Poverty headcount ratio at $1.90 a day (2011 PPP) (% of population)",
		Unit:        "% of population",
		Description: "Poverty headcount ratio at $1.90 a day is the percentage of the population living on less than $1.90 a day.",
		Topic:       "Poverty",
	},
	{
		Code:        "SP.POP.TOTL",
		Name:        "Population, total",
		Unit:        "persons",
		Description: "Total population is based on the de facto definition of population.",
		Topic:       "Population",
	},
	{
		Code:        "SL.UEM.TOTL.ZS",
		Name:        "Unemployment, total (% of total labor force)",
		Unit:        "% of labor force",
		Description: "Unemployment refers to the share of the labor force that is without work but available for and seeking employment.",
		Topic:       "Labor & Social Protection",
	},
	{
		Code:        "SE.PRM.NENR",
		Name:        "School enrollment, primary (% net)",
		Unit:        "%",
		Description: "Net enrollment rate is the ratio of children of official school age who are enrolled in school to the population of the corresponding official school age.",
		Topic:       "Education",
	},
	{
		Code:        "SH.DYN.MORT",
		Name:        "Mortality rate, under-5 (per 1,000 live births)",
		Unit:        "per 1,000 live births",
		Description: "Under-five mortality rate is the probability per 1,000 that a newborn baby will die before reaching age five.",
		Topic:       "Health",
	},
	{
		Code:        "SH.XPD.CHEX.GD.ZS",
		Name:        "Current health expenditure (% of GDP)",
		Unit:        "% of GDP",
		Description: "Level of current health expenditure expressed as a percentage of GDP.",
		Topic:       "Health",
	},
	{
		Code:        "EG.USE.ELEC.KH.PC",
		Name:        "Electric power consumption (kWh per capita)",
		Unit:        "kWh per capita",
		Description: "Electric power consumption measures the production of power plants and combined heat and power plants.",
		Topic:       "Energy",
	},
	{
		Code:        "EN.ATM.CO2E.PC",
		Name:        "CO2 emissions (metric tons per capita)",
		Unit:        "metric tons per capita",
		Description: "Carbon dioxide emissions are those stemming from the burning of fossil fuels.",
		Topic:       "Environment",
	},
	{
		Code:        "IT.NET.USER.ZS",
		Name:        "Individuals using the Internet (% of population)",
		Unit:        "% of population",
		Description: "Internet users are individuals who have used the Internet in the last 3 months.",
		Topic:       "Infrastructure",
	},
}

// Indicators returns the starter indicator catalog.
func Indicators() []models.Indicator {
	out := make([]models.Indicator, len(indicatorSeeds))
	copy(out, indicatorSeeds)
	for i := range out {
		out[i].Source = "World Bank"
	}
	return out
}

// DataSources returns the upstream providers.
func DataSources() []models.DataSource {
	return []models.DataSource{
		{
			Name:            models.DataSourceWorldBank,
			SourceType:      models.SourceTypeWorldBank,
			URL:             "https://api.worldbank.org/v2",
			UpdateFrequency: "on demand",
			Description:     "World Bank development indicators, fetched per country and indicator when missing.",
			IsActive:        true,
		},
		{
			Name:            models.DataSourceHappiness,
			SourceType:      models.SourceTypeHappiness,
			URL:             "https://worldhappiness.report",
			UpdateFrequency: "yearly",
			Description:     "World Happiness Report country rankings, one CSV per report year.",
			IsActive:        true,
		},
	}
}

// SampleHappiness returns demo happiness rows for six countries, 2020-2023.
func SampleHappiness() []models.HappinessObservation {
	type row struct {
		code                          string
		year                          int
		score, gdp, social, lifeExpct float64
	}
	rows := []row{
		{"US", 2020, 6.94, 1.398, 1.471, 0.879},
		{"US", 2021, 6.95, 1.414, 1.459, 0.884},
		{"US", 2022, 6.92, 1.446, 1.454, 0.879},
		{"US", 2023, 6.89, 1.456, 1.448, 0.877},
		{"IN", 2020, 3.82, 0.745, 0.765, 0.588},
		{"IN", 2021, 3.78, 0.751, 0.761, 0.594},
		{"IN", 2022, 3.85, 0.774, 0.771, 0.601},
		{"IN", 2023, 4.04, 0.789, 0.782, 0.606},
		{"DE", 2020, 7.04, 1.373, 1.454, 0.861},
		{"DE", 2021, 7.16, 1.385, 1.467, 0.867},
		{"DE", 2022, 7.18, 1.395, 1.471, 0.873},
		{"DE", 2023, 7.22, 1.402, 1.475, 0.878},
		{"JP", 2020, 5.94, 1.302, 1.317, 0.986},
		{"JP", 2021, 5.91, 1.298, 1.315, 0.988},
		{"JP", 2022, 5.95, 1.305, 1.319, 0.991},
		{"JP", 2023, 5.97, 1.312, 1.322, 0.994},
		{"BR", 2020, 6.11, 0.986, 1.415, 0.776},
		{"BR", 2021, 6.08, 0.981, 1.411, 0.773},
		{"BR", 2022, 6.13, 0.994, 1.418, 0.778},
		{"BR", 2023, 6.16, 1.001, 1.422, 0.781},
		{"NO", 2020, 7.49, 1.566, 1.533, 0.863},
		{"NO", 2021, 7.39, 1.554, 1.526, 0.866},
		{"NO", 2022, 7.42, 1.561, 1.529, 0.869},
		{"NO", 2023, 7.43, 1.564, 1.531, 0.872},
	}

	out := make([]models.HappinessObservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.HappinessObservation{
			CountryCode:           r.code,
			Year:                  r.year,
			HappinessScore:        models.Float(r.score),
			GDPPerCapita:          models.Float(r.gdp),
			SocialSupport:         models.Float(r.social),
			HealthyLifeExpectancy: models.Float(r.lifeExpct),
		})
	}
	return out
}
