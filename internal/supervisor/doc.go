// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package supervisor runs the long-lived WorldPulse services under a suture v4
supervisor tree.

# Overview

Services are grouped into three layers so a failure in one does not take the
others down:

	RootSupervisor ("worldpulse")
	├── IngestSupervisor ("ingest-layer")
	│   └── RefreshService (catalog refresh and happiness import)
	├── EventsSupervisor ("events-layer")
	│   └── events.Recorder (fetch events to update log)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing refresh run is restarted with backoff while the API keeps
answering from the store. Supervisor events (start, stop, panic, backoff) are
logged through sutureslog into the zerolog sink.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEventsService(recorder)
	tree.AddIngestService(services.NewRefreshService(reconciler, recorder, cfg.Sync, cfg.Happiness.Years))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Shutdown

Cancelling the context stops every layer. Services that do not return within
TreeConfig.ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
