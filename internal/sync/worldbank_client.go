// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

const (
	sourceWorldBank = "worldbank"

	countryCatalogPageSize   = 300
	indicatorCatalogPageSize = 1000

	aggregatesLabel = "Aggregates"
)

// WorldBankClient talks to the World Bank v2 REST API.
type WorldBankClient struct {
	baseURL       string
	perPage       int
	client        *http.Client
	catalogClient *http.Client
	limiter       *rate.Limiter
}

// NewWorldBankClient builds a client from configuration. Requests are paced to
// cfg.RequestsPerSecond; zero disables pacing.
func NewWorldBankClient(cfg *config.WorldBankConfig) *WorldBankClient {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	catalogTimeout := cfg.CatalogTimeout
	if catalogTimeout <= 0 {
		catalogTimeout = cfg.Timeout
	}
	return &WorldBankClient{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		perPage:       perPage,
		client:        &http.Client{Timeout: cfg.Timeout},
		catalogClient: &http.Client{Timeout: catalogTimeout},
		limiter:       rate.NewLimiter(limit, 1),
	}
}

// pageMeta is the first element of every World Bank envelope.
type pageMeta struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage any `json:"per_page"` // string or number depending on endpoint
	Total   int `json:"total"`
}

type idValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type seriesRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type countryRecord struct {
	ID          string  `json:"id"`
	ISO2Code    string  `json:"iso2Code"`
	Name        string  `json:"name"`
	Region      idValue `json:"region"`
	IncomeLevel idValue `json:"incomeLevel"`
	CapitalCity string  `json:"capitalCity"`
}

type indicatorRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	SourceNote string    `json:"sourceNote"`
	Source     idValue   `json:"source"`
	Topics     []idValue `json:"topics"`
}

// getEnvelope fetches reqURL and decodes the [metadata, records] envelope.
// A payload without a records element (the API's error shape) decodes to no
// records and no error.
func getEnvelope[T any](ctx context.Context, c *WorldBankClient, client *http.Client, reqURL string) (pageMeta, []T, error) {
	var meta pageMeta
	if err := c.limiter.Wait(ctx); err != nil {
		return meta, nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := getBody(ctx, client, reqURL, "application/json")
	if err != nil {
		return meta, nil, err
	}
	defer body.Close()

	var envelope []json.RawMessage
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return meta, nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if len(envelope) == 0 {
		return meta, nil, nil
	}
	// The error shape is [{"message": [...]}]; meta decoding tolerates it.
	_ = json.Unmarshal(envelope[0], &meta)
	if len(envelope) < 2 {
		return meta, nil, nil
	}

	var records []T
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return meta, nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return meta, records, nil
}

func (c *WorldBankClient) seriesURL(country, indicator string, r models.YearRange) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("date", fmt.Sprintf("%d:%d", r.Start, r.End))
	params.Set("per_page", strconv.Itoa(c.perPage))
	return fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.baseURL, url.PathEscape(country), url.PathEscape(indicator), params.Encode())
}

// Series returns the non-null (year, value) pairs of one indicator for one
// country within r, in payload order. Only the first page is read.
func (c *WorldBankClient) Series(ctx context.Context, country, indicator string, r models.YearRange) ([]models.YearValue, error) {
	meta, records, err := getEnvelope[seriesRecord](ctx, c, c.client, c.seriesURL(country, indicator, r))
	if err != nil {
		return nil, err
	}
	if meta.Total > len(records) {
		logging.Debug().
			Str("country", country).
			Str("indicator", indicator).
			Int("total", meta.Total).
			Int("received", len(records)).
			Msg("World Bank series truncated to first page")
	}

	values := make([]models.YearValue, 0, len(records))
	for _, rec := range records {
		if rec.Value == nil {
			metrics.RecordSkippedRow(sourceWorldBank, "null_value")
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec.Date))
		if err != nil {
			metrics.RecordSkippedRow(sourceWorldBank, "bad_year")
			continue
		}
		values = append(values, models.YearValue{Year: year, Value: *rec.Value})
	}
	return values, nil
}

// Countries returns the World Bank country list. Aggregate entries (those
// without a capital city) are skipped and "Aggregates" classifications become
// null.
func (c *WorldBankClient) Countries(ctx context.Context) ([]models.Country, error) {
	reqURL := fmt.Sprintf("%s/country?format=json&per_page=%d", c.baseURL, countryCatalogPageSize)
	_, records, err := getEnvelope[countryRecord](ctx, c, c.client, reqURL)
	if err != nil {
		return nil, err
	}

	countries := make([]models.Country, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.CapitalCity) == "" {
			continue
		}
		code := strings.TrimSpace(rec.ISO2Code)
		if code == "" {
			code = strings.TrimSpace(rec.ID)
		}
		if code == "" || len(code) > 3 {
			metrics.RecordSkippedRow(sourceWorldBank, "bad_country_code")
			continue
		}
		countries = append(countries, models.Country{
			Code:        code,
			Name:        strings.TrimSpace(rec.Name),
			Region:      classification(rec.Region.Value),
			IncomeGroup: classification(rec.IncomeLevel.Value),
		})
	}
	return countries, nil
}

// Indicators returns the first page of the World Bank indicator catalog.
func (c *WorldBankClient) Indicators(ctx context.Context) ([]models.Indicator, error) {
	reqURL := fmt.Sprintf("%s/indicator?format=json&per_page=%d", c.baseURL, indicatorCatalogPageSize)
	_, records, err := getEnvelope[indicatorRecord](ctx, c, c.catalogClient, reqURL)
	if err != nil {
		return nil, err
	}

	indicators := make([]models.Indicator, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" || len(rec.ID) > 50 {
			metrics.RecordSkippedRow(sourceWorldBank, "bad_indicator_code")
			continue
		}
		source := strings.TrimSpace(rec.Source.Value)
		if source == "" {
			source = "World Bank"
		}
		topic := ""
		if len(rec.Topics) > 0 {
			topic = strings.TrimSpace(rec.Topics[0].Value)
		}
		indicators = append(indicators, models.Indicator{
			Code:        rec.ID,
			Name:        strings.TrimSpace(rec.Name),
			Unit:        rec.Unit,
			Description: rec.SourceNote,
			Source:      source,
			Topic:       topic,
		})
	}
	return indicators, nil
}

// classification maps the World Bank "Aggregates" marker and blanks to nil.
func classification(v string) *string {
	v = strings.TrimSpace(v)
	if v == aggregatesLabel {
		return nil
	}
	return models.String(v)
}
