// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package main is the entry point for the WorldPulse server.

WorldPulse caches World Bank indicator series and World Happiness Report
scores in DuckDB, fetching missing data upstream on demand, and serves them
as chart-ready JSON.

# Application Architecture

	RootSupervisor ("worldpulse")
	├── IngestSupervisor ("ingest-layer")
	│   └── Refresh service (catalog refresh, happiness import)
	├── EventsSupervisor ("events-layer")
	│   └── Update-log recorder (watermill subscriber)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB, schema migrations, catalog seed
 4. Upstream clients: World Bank API and happiness CSV behind circuit breakers
 5. Event bus and update-log recorder
 6. Reconciler and chart engine
 7. Supervisor tree and HTTP server

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8000
	DUCKDB_PATH=/data/worldpulse.duckdb
	LOG_LEVEL=info
	LOG_FORMAT=json
	WORLDBANK_BASE_URL=https://api.worldbank.org/v2
	HAPPINESS_URL_TEMPLATE=https://host/whr/{year}.csv
	HAPPINESS_YEARS=2021,2022,2023
	IMPORT_ON_STARTUP=true
	SYNC_INTERVAL=24h
	DASHBOARD_COUNTRY=IN

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for up to 10 seconds, then the database is closed.
*/
package main
