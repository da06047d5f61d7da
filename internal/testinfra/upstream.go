// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

//go:build integration

package testinfra

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultUpstreamImage serves static files only.
	DefaultUpstreamImage = "nginx:1.27-alpine"

	upstreamPort = "80/tcp"
	webRoot      = "/usr/share/nginx/html"
)

// UpstreamContainer is an nginx instance standing in for both upstream
// providers. World Bank paths live under /v2, report CSVs under /whr.
type UpstreamContainer struct {
	testcontainers.Container
	BaseURL string
}

type upstreamConfig struct {
	image        string
	startTimeout time.Duration
	files        map[string][]byte
}

// UpstreamOption configures NewUpstreamContainer.
type UpstreamOption func(*upstreamConfig)

// WithUpstreamImage overrides the nginx image.
func WithUpstreamImage(image string) UpstreamOption {
	return func(c *upstreamConfig) { c.image = image }
}

// WithUpstreamStartTimeout bounds container startup.
func WithUpstreamStartTimeout(d time.Duration) UpstreamOption {
	return func(c *upstreamConfig) { c.startTimeout = d }
}

// WithHappinessCSV serves body as the report for year.
func WithHappinessCSV(year int, body []byte) UpstreamOption {
	return func(c *upstreamConfig) {
		c.files[path.Join("whr", strconv.Itoa(year)+".csv")] = body
	}
}

// WithWorldBankSeries serves envelope for one country/indicator series.
// nginx ignores the query string, so every date window gets the same body.
func WithWorldBankSeries(country, indicator string, envelope []byte) UpstreamOption {
	return func(c *upstreamConfig) {
		c.files[path.Join("v2", "country", country, "indicator", indicator)] = envelope
	}
}

// WithWorldBankCatalog serves the country and indicator catalog envelopes.
func WithWorldBankCatalog(countries, indicators []byte) UpstreamOption {
	return func(c *upstreamConfig) {
		c.files[path.Join("v2", "country", "index.json")] = countries
		c.files[path.Join("v2", "indicator", "index.json")] = indicators
	}
}

// nginxConf maps the extensionless World Bank catalog paths onto the
// index.json files written by WithWorldBankCatalog.
const nginxConf = `server {
    listen 80;
    root /usr/share/nginx/html;
    default_type application/json;
    location = /v2/country { try_files /v2/country/index.json =404; }
    location = /v2/indicator { try_files /v2/indicator/index.json =404; }
    location /whr/ { default_type text/csv; }
}
`

// NewUpstreamContainer starts nginx with the configured files in place.
func NewUpstreamContainer(ctx context.Context, opts ...UpstreamOption) (*UpstreamContainer, error) {
	cfg := &upstreamConfig{
		image:        DefaultUpstreamImage,
		startTimeout: 60 * time.Second,
		files:        make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	files := []testcontainers.ContainerFile{{
		Reader:            bytes.NewReader([]byte(nginxConf)),
		ContainerFilePath: "/etc/nginx/conf.d/default.conf",
		FileMode:          0o644,
	}}
	for rel, body := range cfg.files {
		files = append(files, testcontainers.ContainerFile{
			Reader:            bytes.NewReader(body),
			ContainerFilePath: path.Join(webRoot, rel),
			FileMode:          0o644,
		})
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.image,
			ExposedPorts: []string{upstreamPort},
			Files:        files,
			WaitingFor: wait.ForHTTP("/").
				WithPort(upstreamPort).
				WithStatusCodeMatcher(func(status int) bool { return status < 500 }).
				WithStartupTimeout(cfg.startTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create upstream container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, upstreamPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &UpstreamContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

// WorldBankURL is the base URL for config.WorldBankConfig.
func (c *UpstreamContainer) WorldBankURL() string {
	return c.BaseURL + "/v2"
}

// HappinessURLTemplate is the template for config.HappinessConfig.
func (c *UpstreamContainer) HappinessURLTemplate() string {
	return c.BaseURL + "/whr/{year}.csv"
}
