// Package api holds clients for external collaborators. The tracker's
// only one is the published spreadsheet feed the bulk importer reads.
package api

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"edh-elo/internal/config"

	"github.com/valyala/fasthttp"
)

type SheetFeedClient struct {
	feedURL string
	client  *fasthttp.Client
}

func NewSheetFeedClient(cfg *config.Config) *SheetFeedClient {
	return &SheetFeedClient{
		feedURL: cfg.SheetFeedURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// FetchRows downloads the feed as CSV and returns its rows, header
// included. Rows may be ragged; the parser pads as needed.
func (c *SheetFeedClient) FetchRows(ctx context.Context) ([][]string, error) {
	if c.feedURL == "" {
		return nil, fmt.Errorf("sheet feed URL is not configured")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.feedURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("feed error: %d", resp.StatusCode())
	}

	reader := csv.NewReader(strings.NewReader(string(resp.Body())))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed CSV: %w", err)
	}

	return rows, nil
}
