// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package sync

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

const sourceHappiness = "happiness"

// Column synonyms, in priority order. Report editions rename columns freely.
var (
	countryColumns    = []string{"Country", "Country name"}
	scoreColumns      = []string{"Happiness Score", "Life Ladder", "Score", "Ladder score"}
	gdpColumns        = []string{"GDP per capita", "Log GDP per capita", "Explained by: Log GDP per capita"}
	socialColumns     = []string{"Social support", "Explained by: Social support"}
	lifeColumns       = []string{"Healthy life expectancy", "Healthy life expectancy at birth", "Explained by: Healthy life expectancy"}
	freedomColumns    = []string{"Freedom to make life choices", "Explained by: Freedom to make life choices"}
	generosityColumns = []string{"Generosity", "Explained by: Generosity"}
	corruptionColumns = []string{"Perceptions of corruption", "Explained by: Perceptions of corruption"}
	confidenceColumns = []string{"Confidence in national government"}
	dystopiaColumns   = []string{"Dystopia residual", "Dystopia + residual"}
)

// CountryResolver finds a stored country by display name, case-insensitively.
// It returns nil, nil when nothing matches.
type CountryResolver interface {
	FindCountryByName(ctx context.Context, name string) (*models.Country, error)
}

// HappinessClient downloads one World Happiness Report CSV per year.
type HappinessClient struct {
	urlTemplate string
	client      *http.Client
	overrides   map[string]string
	resolver    CountryResolver
}

// NewHappinessClient builds a client. overrides maps report country names
// that differ from catalog names to country codes; it is copied.
func NewHappinessClient(cfg *config.HappinessConfig, overrides map[string]string, resolver CountryResolver) *HappinessClient {
	return &HappinessClient{
		urlTemplate: cfg.URLTemplate,
		client:      &http.Client{Timeout: cfg.Timeout},
		overrides:   maps.Clone(overrides),
		resolver:    resolver,
	}
}

// yearURL substitutes year into the configured template.
func (c *HappinessClient) yearURL(year int) string {
	return strings.ReplaceAll(c.urlTemplate, "{year}", strconv.Itoa(year))
}

// Year downloads and parses the report for year. Rows with an unknown
// country or without a usable score are dropped.
func (c *HappinessClient) Year(ctx context.Context, year int) ([]models.HappinessObservation, error) {
	body, err := getBody(ctx, c.client, c.yearURL(year), "text/csv")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return c.parse(ctx, body, year)
}

// parse reads a report CSV. A malformed line is skipped; only a broken
// header aborts the parse.
func (c *HappinessClient) parse(ctx context.Context, r io.Reader, year int) ([]models.HappinessObservation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []models.HappinessObservation
	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.RecordSkippedRow(sourceHappiness, "malformed")
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}

		obs, reason := c.rowToObservation(ctx, row, year)
		if reason != "" {
			metrics.RecordSkippedRow(sourceHappiness, reason)
			continue
		}
		if _, dup := seen[obs.CountryCode]; dup {
			metrics.RecordSkippedRow(sourceHappiness, "duplicate")
			continue
		}
		seen[obs.CountryCode] = struct{}{}
		out = append(out, obs)
	}
	return out, nil
}

// rowToObservation maps one CSV row. A non-empty reason means the row is dropped.
func (c *HappinessClient) rowToObservation(ctx context.Context, row map[string]string, year int) (models.HappinessObservation, string) {
	name := firstPresent(row, countryColumns)
	if name == "" {
		return models.HappinessObservation{}, "no_country"
	}
	code := c.resolveCountry(ctx, name)
	if code == "" {
		return models.HappinessObservation{}, "unknown_country"
	}

	score, ok := resolve(row, scoreColumns)
	if !ok || score <= 0 || score > 10 {
		return models.HappinessObservation{}, "no_score"
	}

	return models.HappinessObservation{
		CountryCode:                    code,
		CountryName:                    name,
		Year:                           year,
		HappinessScore:                 models.Float(score),
		GDPPerCapita:                   resolvePtr(row, gdpColumns),
		SocialSupport:                  resolvePtr(row, socialColumns),
		HealthyLifeExpectancy:          resolvePtr(row, lifeColumns),
		FreedomToMakeLifeChoices:       resolvePtr(row, freedomColumns),
		Generosity:                     resolvePtr(row, generosityColumns),
		PerceptionsOfCorruption:        resolvePtr(row, corruptionColumns),
		ConfidenceInNationalGovernment: resolvePtr(row, confidenceColumns),
		DystopiaResidual:               resolvePtr(row, dystopiaColumns),
	}, ""
}

// resolveCountry tries the override table, then the stored catalog.
func (c *HappinessClient) resolveCountry(ctx context.Context, name string) string {
	if code, ok := c.overrides[name]; ok {
		return code
	}
	if c.resolver == nil {
		return ""
	}
	country, err := c.resolver.FindCountryByName(ctx, name)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("country_name", name).Msg("Country lookup failed")
		return ""
	}
	if country == nil {
		return ""
	}
	return country.Code
}

// firstPresent returns the first non-empty value among candidates.
func firstPresent(row map[string]string, candidates []string) string {
	for _, col := range candidates {
		if v := row[col]; v != "" {
			return v
		}
	}
	return ""
}

// resolve returns the first candidate column that is present and parses as
// a number.
func resolve(row map[string]string, candidates []string) (float64, bool) {
	for _, col := range candidates {
		v, ok := row[col]
		if !ok {
			continue
		}
		if f, ok := safeFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func resolvePtr(row map[string]string, candidates []string) *float64 {
	if v, ok := resolve(row, candidates); ok {
		return &v
	}
	return nil
}

// safeFloat parses s, reporting false for blanks and garbage instead of failing.
// Some editions use a decimal comma.
func safeFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
