package dmapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ResultList fetches the queue of completed requests. One result per
// body line.
func (c *Client) ResultList(ctx context.Context) (*Response, error) {
	return c.do(ctx, "result-list", nil)
}

// ResultRetrieve fetches the detailed outcome of a queued request,
// addressed by its processing id or its tracking id. At least one must
// be given; both together are allowed.
func (c *Client) ResultRetrieve(ctx context.Context, procID, trackingID string) (*Response, error) {
	procID = strings.TrimSpace(procID)
	trackingID = strings.TrimSpace(trackingID)
	if procID == "" && trackingID == "" {
		return nil, fmt.Errorf("%w: a proc-id or tracking-id is required", ErrInvalidArgument)
	}

	params := url.Values{}
	setIfPresent(params, "proc-id", procID)
	setIfPresent(params, "tracking-id", trackingID)

	return c.do(ctx, "result-retrieve", params)
}

// ResultDelete removes one entry from the result queue.
func (c *Client) ResultDelete(ctx context.Context, procID string) (*Response, error) {
	if err := requireNonEmpty("proc-id", procID); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("proc-id", procID)

	return c.do(ctx, "result-delete", params)
}
