package dalil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Health fetches the aggregated service health report. An unhealthy
// service answers 503 but still carries a report body, so a decoded
// report with Status "error" is returned without error.
func (c *Client) Health(ctx context.Context) (h Health, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("dalil: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("dalil: health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return Health{}, decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("dalil: decode health: %w", err)
	}
	return h, nil
}
