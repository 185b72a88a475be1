package transport

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

// DecodeResponse decodes a JSON response body into the target structure.
// Non-2xx statuses become an *errors.APIError carrying the service,
// status, endpoint, and a truncated body excerpt; the API error status
// mapping then lets callers test for token, rate limit, and availability
// failures with errors.Is.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxBodyBytes))
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Endpoint:   endpointOf(resp),
			Message:    excerpt(body),
		}
	}

	if target == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", service+" response", err)
	}
	return nil
}

// RetryAfter extracts the Retry-After delay from a 429 response. Both the
// delta-seconds and HTTP-date forms are honored. A missing or unreadable
// header yields the fallback, and the result is clamped to max so a
// misbehaving server cannot stall a run.
func RetryAfter(resp *http.Response, fallback, max time.Duration) time.Duration {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return fallback
	}

	wait := fallback
	if secs, err := strconv.Atoi(value); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		wait = time.Until(at)
	}

	if wait < 0 {
		wait = fallback
	}
	if wait > max {
		wait = max
	}
	return wait
}

func endpointOf(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.Path
	}
	return ""
}

// excerpt trims an error body for log and error messages.
func excerpt(body []byte) string {
	const limit = 300
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
