// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

// Package testinfra provides container fixtures for integration tests.
//
// Files in this package carry the integration build tag; run them with:
//
//	go test -tags integration ./internal/testinfra/...
//
// # Upstream Container
//
// UpstreamContainer runs nginx serving canned World Bank JSON envelopes and
// World Happiness Report CSVs, so the real HTTP clients, circuit breakers and
// parsers are exercised over a real socket:
//
//	up, err := testinfra.NewUpstreamContainer(ctx,
//	    testinfra.WithHappinessCSV(2023, csvBytes),
//	    testinfra.WithWorldBankSeries("IN", "NY.GDP.PCAP.CD", envelope),
//	)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer up.Terminate(ctx)
//
//	wb := sync.NewWorldBankClient(&config.WorldBankConfig{BaseURL: up.WorldBankURL(), PerPage: 100})
//	hc := sync.NewHappinessClient(&config.HappinessConfig{URLTemplate: up.HappinessURLTemplate()}, nil, db)
//
// Tests call SkipIfNoDocker first so they degrade to a skip on machines
// without a Docker daemon.
package testinfra
