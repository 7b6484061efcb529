// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the fetch adapters.
// The scholarly APIs (arXiv, OpenAlex, NCBI E-utilities) all rate-limit
// with HTTP 429, so every adapter routes its requests through DoWithRetry.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff on HTTP 429
// responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// DoWithRetry executes req and retries on HTTP 429 (Too Many Requests)
// with exponential backoff: RetryBaseDelay doubled each attempt
// (10 s, 20 s, 40 s, 80 s, 160 s). Any other status, including 5xx, is
// returned to the caller on the first attempt; the per-query tolerance in
// the fetcher handles those.
//
// When maxRetries is 0 the default (5) is used. Each 429 body is drained
// and closed before sleeping. A context cancellation during the backoff
// wait returns ctx.Err(). After exhausting retries the last 429 response
// is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Retries exhausted: hand the 429 response back as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
