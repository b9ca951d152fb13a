package dalil

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Search runs a hybrid search query.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (page SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	if req == nil || req.Query == "" {
		return SearchPage{}, errors.New("dalil: query required")
	}
	err = c.do(ctx, http.MethodPost, "/v1/search", req, &page, false)
	return page, err
}

// Entry fetches one catalog entry by id.
func (c *Client) Entry(ctx context.Context, id string) (entry Entry, err error) {
	start := time.Now()
	defer func() { c.obs.observe("entry", start, err) }()

	if id == "" {
		return Entry{}, errors.New("dalil: entry id required")
	}
	err = c.do(ctx, http.MethodGet, "/v1/entries/"+url.PathEscape(id), nil, &entry, false)
	return entry, err
}
