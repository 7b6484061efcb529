// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model abstracts the Generative AI API behind an injectable
// capability interface so every pipeline stage is testable against
// deterministic substitutes.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Client completes a prompt and returns the raw model text. Implementations
// must honor ctx cancellation.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DecodeJSON parses a model response into v. Models occasionally wrap JSON
// in Markdown code fences; those are stripped before decoding.
func DecodeJSON(raw string, v any) error {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parsing model response JSON: %w", err)
	}
	return nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// CompleteWithRetry calls the client with exponential backoff between
// attempts. maxRetries <= 0 means no retries.
func CompleteWithRetry(ctx context.Context, c Client, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := c.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
