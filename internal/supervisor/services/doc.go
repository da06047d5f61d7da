// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package services adapts WorldPulse components to suture.Service.

Each wrapper implements:

	type Service interface {
	    Serve(ctx context.Context) error
	}

  - HTTPServerService runs an *http.Server and shuts it down gracefully when
    the context is canceled.
  - RefreshService runs the catalog refresh and bulk happiness import once at
    startup and then on a fixed interval.

The update-log recorder (events.Recorder) already implements Serve and is
added to the tree directly.
*/
package services
