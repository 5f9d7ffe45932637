// Package health provides reachability checks for the commander's
// call backend, surfaced through the daemon's /health endpoint.
package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LiveKitChecker implements health checking for the LiveKit server.
type LiveKitChecker struct {
	url    string
	client *http.Client
}

// NewLiveKitChecker creates a new LiveKit health checker. The url
// should be the base URL of the LiveKit server; ws:// and wss://
// schemes are normalized to their HTTP equivalents.
func NewLiveKitChecker(url string) *LiveKitChecker {
	if strings.HasPrefix(url, "ws://") {
		url = "http://" + strings.TrimPrefix(url, "ws://")
	} else if strings.HasPrefix(url, "wss://") {
		url = "https://" + strings.TrimPrefix(url, "wss://")
	}
	return &LiveKitChecker{
		url: url,
		client: &http.Client{
			Timeout: 3 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// HealthCheck reports whether the LiveKit server is reachable. LiveKit
// has no dedicated health endpoint, so any successful (2xx) response
// from the base URL counts as healthy.
func (l *LiveKitChecker) HealthCheck(ctx context.Context) error {
	if l.url == "" {
		return fmt.Errorf("livekit url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach livekit server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("livekit unhealthy: unexpected status code %d", resp.StatusCode)
	}
	return nil
}
