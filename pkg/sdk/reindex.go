package dalil

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// StartReindex starts a background reindex job and returns its initial
// state. Admin key required. Poll Job() for progress.
func (c *Client) StartReindex(ctx context.Context, req ReindexRequest) (j Job, err error) {
	start := time.Now()
	defer func() { c.obs.observe("start_reindex", start, err) }()

	err = c.do(ctx, http.MethodPost, "/v1/reindex", req, &j, true)
	return j, err
}

// Job fetches the current state of a reindex job.
func (c *Client) Job(ctx context.Context, id string) (j Job, err error) {
	start := time.Now()
	defer func() { c.obs.observe("job", start, err) }()

	if id == "" {
		return Job{}, errors.New("dalil: job id required")
	}
	err = c.do(ctx, http.MethodGet, "/v1/reindex/"+url.PathEscape(id), nil, &j, false)
	return j, err
}

// WaitForJob polls a job until it reaches a terminal state or the context
// is done.
func (c *Client) WaitForJob(ctx context.Context, id string, interval time.Duration) (Job, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		j, err := c.Job(ctx, id)
		if err != nil {
			return Job{}, err
		}
		if j.State == "completed" || j.State == "failed" {
			return j, nil
		}

		select {
		case <-ctx.Done():
			return j, ctx.Err()
		case <-ticker.C:
		}
	}
}
