// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/worldpulse/internal/aggregate"
	"github.com/tomtom215/worldpulse/internal/catalog"
	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/database"
	"github.com/tomtom215/worldpulse/internal/models"
	"github.com/tomtom215/worldpulse/internal/reconcile"
	"github.com/tomtom215/worldpulse/internal/sync"
)

const report2023 = `Country name,Ladder score,Explained by: Log GDP per capita,Explained by: Social support,Explained by: Healthy life expectancy
Finland,7.741,1.844,1.572,0.695
Denmark,7.583,1.908,1.520,0.699
India,4.036,1.159,0.563,0.385
Atlantis,5.000,1.000,1.000,1.000
`

const gdpIndia = `[
  {"page":1,"pages":1,"per_page":100,"total":3},
  [
    {"indicator":{"id":"NY.GDP.PCAP.CD","value":"GDP per capita (current US$)"},"country":{"id":"IN","value":"India"},"date":"2022","value":2410.9},
    {"indicator":{"id":"NY.GDP.PCAP.CD","value":"GDP per capita (current US$)"},"country":{"id":"IN","value":"India"},"date":"2021","value":2250.2},
    {"indicator":{"id":"NY.GDP.PCAP.CD","value":"GDP per capita (current US$)"},"country":{"id":"IN","value":"India"},"date":"2020","value":null}
  ]
]`

func TestUpstreamPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	up, err := NewUpstreamContainer(ctx,
		WithHappinessCSV(2023, []byte(report2023)),
		WithWorldBankSeries("IN", "NY.GDP.PCAP.CD", []byte(gdpIndia)),
	)
	if err != nil {
		t.Fatalf("Failed to start upstream container: %v", err)
	}
	defer CleanupContainer(t, ctx, up.Container)

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	defer db.Close()

	cat := catalog.Default()
	if err := db.SeedCatalog(ctx, cat); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	wb := sync.NewWorldBankClient(&config.WorldBankConfig{
		BaseURL:        up.WorldBankURL(),
		Timeout:        10 * time.Second,
		CatalogTimeout: 10 * time.Second,
		PerPage:        100,
	})
	hc := sync.NewHappinessClient(&config.HappinessConfig{
		URLTemplate: up.HappinessURLTemplate(),
		Timeout:     10 * time.Second,
	}, cat.NameOverrides, db)
	svc := reconcile.NewService(db, sync.NewFetcher(wb, hc), nil)

	t.Run("world bank series fetched on miss and stored", func(t *testing.T) {
		window := models.YearRange{Start: 2020, End: 2022}
		rows, err := svc.GetWorldBankSeries(ctx, "IN", "NY.GDP.PCAP.CD", window)
		if err != nil {
			t.Fatalf("GetWorldBankSeries: %v\n%s", err, ContainerLogs(ctx, up.Container))
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2 non-null years", len(rows))
		}

		stored, err := db.GetWorldBankSeries(ctx, "IN", "NY.GDP.PCAP.CD", window)
		if err != nil || len(stored) != 2 {
			t.Errorf("stored rows = %d, err = %v", len(stored), err)
		}
	})

	t.Run("bulk happiness import materializes regional averages", func(t *testing.T) {
		res, err := svc.ImportHappiness(ctx, []int{2023})
		if err != nil {
			t.Fatalf("ImportHappiness: %v", err)
		}
		if res.Processed == 0 {
			t.Fatalf("nothing imported: %+v", res)
		}

		aggs, err := db.ListRegionalAggregates(ctx, models.ObservationFilter{Year: 2023, Region: "Europe & Central Asia"})
		if err != nil {
			t.Fatalf("ListRegionalAggregates: %v", err)
		}
		if len(aggs) != 1 {
			t.Fatalf("got %d aggregates, want 1", len(aggs))
		}
		if aggs[0].CountriesCount != 2 || aggs[0].AvgHappinessScore == nil || *aggs[0].AvgHappinessScore != 7.66 {
			t.Errorf("aggregate = %+v", aggs[0])
		}
	})

	t.Run("charts read the imported data", func(t *testing.T) {
		engine := aggregate.NewEngine(db, svc, nil)
		chart, err := engine.RegionalHappiness(ctx, 2023)
		if err != nil {
			t.Fatalf("RegionalHappiness: %v", err)
		}
		if len(chart.Labels) < 2 {
			t.Errorf("labels = %v, want at least South Asia and Europe & Central Asia", chart.Labels)
		}
	})

	t.Run("breakers stay closed", func(t *testing.T) {
		for name, state := range sync.NewFetcher(wb, hc).BreakerStates() {
			if state != "closed" {
				t.Errorf("breaker %s = %s", name, state)
			}
		}
	})
}
