package dalil

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Metadata fetches the full filter vocabulary: every active metadata type
// with its options, in display order.
func (c *Client) Metadata(ctx context.Context) (md Metadata, err error) {
	start := time.Now()
	defer func() { c.obs.observe("metadata", start, err) }()

	err = c.do(ctx, http.MethodGet, "/v1/metadata", nil, &md, false)
	return md, err
}

// CreateType registers a new metadata type. Admin key required.
func (c *Client) CreateType(ctx context.Context, req CreateTypeRequest) (t MetadataType, err error) {
	start := time.Now()
	defer func() { c.obs.observe("create_type", start, err) }()

	err = c.do(ctx, http.MethodPost, "/v1/metadata/types", req, &t, true)
	return t, err
}

// CreateOption registers a new option under an existing type. Admin key
// required.
func (c *Client) CreateOption(ctx context.Context, req CreateOptionRequest) (o MetadataOption, err error) {
	start := time.Now()
	defer func() { c.obs.observe("create_option", start, err) }()

	err = c.do(ctx, http.MethodPost, "/v1/metadata/options", req, &o, true)
	return o, err
}

// Assign attaches a metadata value to an entry. Admin key required.
func (c *Client) Assign(ctx context.Context, entryID, typeName, value string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("assign", start, err) }()

	path, err := metadataPath(entryID, typeName, value)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, nil, true)
}

// Unassign removes a metadata value from an entry. Admin key required.
func (c *Client) Unassign(ctx context.Context, entryID, typeName, value string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("unassign", start, err) }()

	path, err := metadataPath(entryID, typeName, value)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

func metadataPath(entryID, typeName, value string) (string, error) {
	if entryID == "" || typeName == "" || value == "" {
		return "", errors.New("dalil: entry id, type and value required")
	}
	return "/v1/entries/" + url.PathEscape(entryID) +
		"/metadata/" + url.PathEscape(typeName) +
		"/" + url.PathEscape(value), nil
}
