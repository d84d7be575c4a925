// Package airtable is a thin client for the Airtable REST API. It exposes
// list/get/create/update/delete over named tables and returns raw records;
// typing and validation of fields happen in package repo.
//
// Every call is a single round trip per page or batch. There are no retries
// and no idempotency keys, so a failed write leaves the caller uncertain
// whether it was applied.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-recipe-backend/internal/observability"
)

const (
	// pageSize is the largest page Airtable serves.
	pageSize = 100
	// batchSize is the largest number of records per create request.
	batchSize = 10
	// maxBody caps how much of a response body is read.
	maxBody = 16 << 20
)

// Fields is the writable field bag of a record.
type Fields map[string]any

// Record is a raw Airtable record. Field values are kept undecoded.
type Record struct {
	ID          string                     `json:"id"`
	CreatedTime time.Time                  `json:"createdTime"`
	Fields      map[string]json.RawMessage `json:"fields"`
}

// ListOptions narrows and orders a List call. Zero values are omitted.
type ListOptions struct {
	SortField     string
	SortDirection string // asc|desc
	FilterFormula string
	View          string
	MaxRecords    int
}

// Client talks to one Airtable base. It is safe for concurrent use.
type Client struct {
	baseURL string
	baseID  string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit paces outbound requests to rps requests per second.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New returns a client for baseID. baseURL is typically
// https://api.airtable.com/v0.
func New(baseURL, baseID, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		baseID:  baseID,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(5, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type recordsBody struct {
	Records []fieldsBody `json:"records"`
}

type fieldsBody struct {
	Fields Fields `json:"fields"`
}

// List returns every record of table, following pagination.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	if opts.SortField != "" {
		q.Set("sort[0][field]", opts.SortField)
		dir := opts.SortDirection
		if dir == "" {
			dir = "asc"
		}
		q.Set("sort[0][direction]", dir)
	}
	if opts.FilterFormula != "" {
		q.Set("filterByFormula", opts.FilterFormula)
	}
	if opts.View != "" {
		q.Set("view", opts.View)
	}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}

	var out []Record
	for {
		var page listResponse
		if err := c.do(ctx, "list", http.MethodGet, c.tableURL(table, ""), q, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if page.Offset == "" {
			return out, nil
		}
		q.Set("offset", page.Offset)
	}
}

// Get fetches one record. A missing record yields an error matching ErrNotFound.
func (c *Client) Get(ctx context.Context, table, id string) (Record, error) {
	var rec Record
	if strings.TrimSpace(id) == "" {
		return rec, ErrNotFound
	}
	err := c.do(ctx, "get", http.MethodGet, c.tableURL(table, id), nil, nil, &rec)
	return rec, err
}

// Create inserts one record.
func (c *Client) Create(ctx context.Context, table string, fields Fields) (Record, error) {
	var rec Record
	err := c.do(ctx, "create", http.MethodPost, c.tableURL(table, ""), nil, fieldsBody{Fields: fields}, &rec)
	return rec, err
}

// CreateMany inserts records in batches of ten. On failure, batches sent
// before the failing one stay written.
func (c *Client) CreateMany(ctx context.Context, table string, rows []Fields) ([]Record, error) {
	out := make([]Record, 0, len(rows))
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		body := recordsBody{Records: make([]fieldsBody, 0, end-start)}
		for _, f := range rows[start:end] {
			body.Records = append(body.Records, fieldsBody{Fields: f})
		}
		var resp listResponse
		if err := c.do(ctx, "create_many", http.MethodPost, c.tableURL(table, ""), nil, body, &resp); err != nil {
			return out, err
		}
		out = append(out, resp.Records...)
	}
	return out, nil
}

// Update patches the given fields of one record; other fields are untouched.
func (c *Client) Update(ctx context.Context, table, id string, fields Fields) (Record, error) {
	var rec Record
	if strings.TrimSpace(id) == "" {
		return rec, ErrNotFound
	}
	err := c.do(ctx, "update", http.MethodPatch, c.tableURL(table, id), nil, fieldsBody{Fields: fields}, &rec)
	return rec, err
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return c.do(ctx, "delete", http.MethodDelete, c.tableURL(table, id), nil, nil, nil)
}

func (c *Client) tableURL(table, id string) string {
	u := c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, op, method, rawURL string, q url.Values, in, out any) (err error) {
	start := time.Now()
	defer func() { observability.ObserveUpstream("airtable", op, start, err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("airtable %s: %w", op, err)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("airtable %s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("airtable %s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable %s: %w", op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("airtable %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, b)
	}
	if out == nil || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("airtable %s: decode: %w", op, err)
	}
	return nil
}
