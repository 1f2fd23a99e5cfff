// Package airtable implements the repositories against the Airtable REST API.
// Airtable has no transactions and no uniqueness constraints, so upserts are
// find-then-create and day counts are tallied in memory from the child tables.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiBase = "https://api.airtable.com/v0"

const (
	maxRetries  = 4
	retryBase   = 250 * time.Millisecond
	retryJitter = 80 * time.Millisecond
)

// Tables maps each record kind to its Airtable table name.
type Tables struct {
	Days    string
	Weight  string
	Sleep   string
	Meal    string
	Workout string
	Journal string
}

// Options configures the API client. BaseURL and HTTPClient exist for tests;
// both default to the real Airtable endpoint.
type Options struct {
	APIKey     string
	BaseID     string
	Tables     Tables
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a minimal Airtable REST client: list with cursor pagination,
// single-record create/update/delete, and retry on 429 and 5xx.
type Client struct {
	apiKey  string
	baseID  string
	baseURL string
	http    *http.Client
}

func newClient(opts Options) *Client {
	c := &Client{
		apiKey:  opts.APIKey,
		baseID:  opts.BaseID,
		baseURL: opts.BaseURL,
		http:    opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = apiBase
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// record is the wire shape of one Airtable record.
type record[F any] struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      F         `json:"fields"`
}

type sortSpec struct {
	Field     string
	Direction string
}

type listOptions struct {
	FilterByFormula string
	Sort            []sortSpec
	MaxRecords      int
	PageSize        int
	Offset          string
}

type listResponse[F any] struct {
	Records []record[F] `json:"records"`
	Offset  string      `json:"offset"`
}

type batchResponse[F any] struct {
	Records []record[F] `json:"records"`
}

type deleteResponse struct {
	Records []struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
	} `json:"records"`
}

// RequestError is a non-retryable (or retry-exhausted) API failure.
type RequestError struct {
	Status int
	URL    string
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("airtable request failed: %d url=%s body=%s", e.Status, e.URL, e.Body)
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func (c *Client) listURL(table string, opts listOptions) string {
	q := url.Values{}
	if opts.FilterByFormula != "" {
		q.Set("filterByFormula", opts.FilterByFormula)
	}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Offset != "" {
		q.Set("offset", opts.Offset)
	}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			q.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
	}
	u := c.tableURL(table)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// requestJSON performs one API call, retrying rate limits and server errors
// with doubling backoff plus a small jitter. Payload bytes are re-sent as-is
// on each attempt.
func (c *Client) requestJSON(ctx context.Context, method, rawURL string, payload []byte, out any) error {
	for attempt := 0; ; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			defer res.Body.Close()
			if out == nil {
				return nil
			}
			return json.NewDecoder(res.Body).Decode(out)
		}

		text, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		res.Body.Close()

		retryable := res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500
		if !retryable || attempt >= maxRetries {
			return &RequestError{Status: res.StatusCode, URL: rawURL, Body: string(text)}
		}

		backoff := retryBase<<attempt + rand.N(retryJitter)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func listPage[F any](ctx context.Context, c *Client, table string, opts listOptions) (*listResponse[F], error) {
	var out listResponse[F]
	if err := c.requestJSON(ctx, http.MethodGet, c.listURL(table, opts), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// listAll walks the cursor until Airtable stops returning an offset.
func listAll[F any](ctx context.Context, c *Client, table string, opts listOptions) ([]record[F], error) {
	var records []record[F]
	for {
		page, err := listPage[F](ctx, c, table, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		opts.Offset = page.Offset
	}
}

func createOne[F any](ctx context.Context, c *Client, table string, fields F) (*record[F], error) {
	payload, err := json.Marshal(map[string]any{
		"records":  []map[string]any{{"fields": fields}},
		"typecast": true,
	})
	if err != nil {
		return nil, err
	}
	var out batchResponse[F]
	if err := c.requestJSON(ctx, http.MethodPost, c.tableURL(table), payload, &out); err != nil {
		return nil, err
	}
	if len(out.Records) == 0 {
		return nil, fmt.Errorf("airtable create returned no records: table=%s", table)
	}
	return &out.Records[0], nil
}

// updateOne patches the named fields only; fields is a partial map so absent
// keys stay untouched on the remote record.
func updateOne[F any](ctx context.Context, c *Client, table, id string, fields map[string]any) (*record[F], error) {
	payload, err := json.Marshal(map[string]any{
		"records":  []map[string]any{{"id": id, "fields": fields}},
		"typecast": true,
	})
	if err != nil {
		return nil, err
	}
	var out batchResponse[F]
	if err := c.requestJSON(ctx, http.MethodPatch, c.tableURL(table), payload, &out); err != nil {
		return nil, err
	}
	if len(out.Records) == 0 {
		return nil, fmt.Errorf("airtable update returned no records: table=%s id=%s", table, id)
	}
	return &out.Records[0], nil
}

func getOne[F any](ctx context.Context, c *Client, table, id string) (*record[F], error) {
	var out record[F]
	u := c.tableURL(table) + "/" + url.PathEscape(id)
	if err := c.requestJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func deleteOne(ctx context.Context, c *Client, table, id string) error {
	u := c.tableURL(table) + "?" + url.Values{"records[]": {id}}.Encode()
	var out deleteResponse
	if err := c.requestJSON(ctx, http.MethodDelete, u, nil, &out); err != nil {
		return err
	}
	for _, r := range out.Records {
		if r.ID == id && r.Deleted {
			return nil
		}
	}
	return fmt.Errorf("airtable delete failed: table=%s id=%s", table, id)
}
