// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package database

import (
	"errors"
	"io"
)

var (
	// ErrUnknownCountry is returned when an observation references a country
	// code that is not in the catalog.
	ErrUnknownCountry = errors.New("unknown country")

	// ErrUnknownIndicator is returned when an observation references an
	// indicator code that is not in the catalog.
	ErrUnknownIndicator = errors.New("unknown indicator")

	// ErrOutOfRange is returned for years or scores outside the stored bounds.
	ErrOutOfRange = errors.New("value out of range")
)

// closeQuietly closes a resource on an error path where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
