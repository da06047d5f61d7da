// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUpstreamStatus is wrapped by every non-200 upstream response.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// maxErrorBodySize limits how much of an error response is read for logging.
const maxErrorBodySize = 64 * 1024

// maxBodySize bounds a successful upstream payload.
const maxBodySize = 32 << 20

const userAgent = "worldpulse/1.0 (+https://github.com/tomtom215/worldpulse)"

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// getBody issues a GET and returns the body of a 200 response. The caller
// closes it.
func getBody(ctx context.Context, client *http.Client, reqURL, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%w %d: %s", ErrUpstreamStatus, resp.StatusCode, string(body))
	}

	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxBodySize), resp.Body}, nil
}
