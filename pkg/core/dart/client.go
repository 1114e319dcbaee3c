// Package dart provides a client for the DART Open API (opendart.fss.or.kr),
// the Korean corporate disclosure registry.
// API documentation: https://opendart.fss.or.kr/guide/main.do
package dart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the production DART Open API root.
	DefaultBaseURL = "https://opendart.fss.or.kr/api"

	maxPageCount = 100
)

// APIError is a non-"000" response from the registry. The Code is one of the
// documented status codes; Message carries the upstream text verbatim.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = statusMessages[e.Code]
	}
	return fmt.Sprintf("dart: status %s: %s", e.Code, msg)
}

// IsNoData reports whether the error means "no data for this query" (code 013),
// which callers treat as an empty result rather than a failure.
func (e *APIError) IsNoData() bool { return e.Code == "013" }

// Client is a stateless adapter for the DART Open API. It holds only the
// credential and transport; it is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a DART client. An empty apiKey is allowed at construction
// time; requests will then fail with the registry's invalid-key status.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API root. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// FetchStatements retrieves the key-account line items for one company, one
// business year, and one report type (see Report* constants).
// A non-"000" status is returned as *APIError.
func (c *Client) FetchStatements(ctx context.Context, corpCode string, year int, reportType string) ([]RawLineItem, error) {
	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", reportType)

	var resp statementsResponse
	if err := c.getJSON(ctx, "/fnlttSinglAcnt.json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != StatusOK {
		return nil, &APIError{Code: resp.Status, Message: resp.Message}
	}
	return resp.List, nil
}

// FetchMultiYear fetches statements for each year in [startYear, endYear],
// one request per year, sequentially, in ascending order. A failed year
// yields an empty slice for that year; the range is never aborted.
func (c *Client) FetchMultiYear(ctx context.Context, corpCode string, startYear, endYear int, reportType string) (map[int][]RawLineItem, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("dart: invalid year range %d-%d", startYear, endYear)
	}

	all := make(map[int][]RawLineItem, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		items, err := c.FetchStatements(ctx, corpCode, year, reportType)
		if err != nil {
			log.Printf("[DART] %d년 조회 실패 (%s): %v", year, corpCode, err)
			all[year] = []RawLineItem{}
			continue
		}
		all[year] = items
	}
	return all, nil
}

// DisclosureQuery holds the optional filters of the disclosure search endpoint.
type DisclosureQuery struct {
	CorpCode  string
	BeginDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
	CorpClass string // Y/K/N/E
	LastOnly  bool   // 최종보고서만
}

// SearchDisclosures retrieves one page of filings matching the query.
func (c *Client) SearchDisclosures(ctx context.Context, q DisclosureQuery, pageNo, pageCount int) (*DisclosurePage, error) {
	if pageCount <= 0 || pageCount > maxPageCount {
		pageCount = maxPageCount
	}
	if pageNo <= 0 {
		pageNo = 1
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("page_no", strconv.Itoa(pageNo))
	params.Set("page_count", strconv.Itoa(pageCount))
	params.Set("last_reprt_at", "N")
	if q.LastOnly {
		params.Set("last_reprt_at", "Y")
	}
	if q.CorpCode != "" {
		params.Set("corp_code", q.CorpCode)
	}
	if q.BeginDate != "" {
		params.Set("bgn_de", q.BeginDate)
	}
	if q.EndDate != "" {
		params.Set("end_de", q.EndDate)
	}
	if q.CorpClass != "" {
		params.Set("corp_cls", q.CorpClass)
	}

	var page DisclosurePage
	if err := c.getJSON(ctx, "/list.json", params, &page); err != nil {
		return nil, err
	}
	if page.Status != StatusOK {
		return nil, &APIError{Code: page.Status, Message: page.Message}
	}
	return &page, nil
}

// FetchAllDisclosures walks every page of a disclosure search. Status 013
// (no data) terminates the walk normally with whatever was accumulated.
func (c *Client) FetchAllDisclosures(ctx context.Context, q DisclosureQuery) ([]Disclosure, error) {
	var all []Disclosure
	for pageNo := 1; ; pageNo++ {
		page, err := c.SearchDisclosures(ctx, q, pageNo, maxPageCount)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.IsNoData() {
				break
			}
			return nil, err
		}

		all = append(all, page.List...)
		if pageNo >= page.TotalPage || len(page.List) == 0 {
			break
		}
	}
	return all, nil
}

// getJSON issues one GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("DART API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DART API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse DART response: %w", err)
	}
	return nil
}
