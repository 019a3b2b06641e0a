package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/filinghawk-systems/filinghawk/common/metrics"
)

const (
	searchPageSize    = 100
	searchConcurrency = 7
)

// SearchOptions parameterizes a full-text search query.
type SearchOptions struct {
	// Query is the search phrase. Required.
	Query string

	// Forms restricts hits to these form types.
	Forms []string

	// StartDate and EndDate bound the filing date, inclusive, as
	// YYYY-MM-DD.
	StartDate string
	EndDate   string

	// CIKs restricts hits to these filers.
	CIKs []uint64

	// From and Size page the hits. Size defaults to the server page
	// size of 100.
	From int
	Size int
}

func (o SearchOptions) values() url.Values {
	v := url.Values{}
	v.Set("q", o.Query)
	if len(o.Forms) > 0 {
		v.Set("forms", strings.Join(o.Forms, ","))
	}
	if o.StartDate != "" {
		v.Set("dateRange", "custom")
		v.Set("startdt", o.StartDate)
	}
	if o.EndDate != "" {
		v.Set("dateRange", "custom")
		v.Set("enddt", o.EndDate)
	}
	if len(o.CIKs) > 0 {
		ciks := make([]string, len(o.CIKs))
		for i, cik := range o.CIKs {
			ciks[i] = PadCIK(cik)
		}
		v.Set("ciks", strings.Join(ciks, ","))
	}
	if o.From > 0 {
		v.Set("from", strconv.Itoa(o.From))
	}
	if o.Size > 0 {
		v.Set("size", strconv.Itoa(o.Size))
	}
	return v
}

// SearchResponse is one page of full-text search results.
type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	Hits     SearchHits `json:"hits"`
}

// SearchHits wraps the hit list and its total.
type SearchHits struct {
	Total HitTotal    `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// HitTotal reports how many documents matched. Relation is "eq" when
// Value is exact and "gte" when the server stopped counting.
type HitTotal struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// SearchHit is a single matching document. ID is "accession:filename".
type SearchHit struct {
	Index  string       `json:"_index"`
	ID     string       `json:"_id"`
	Score  float64      `json:"_score"`
	Source SearchSource `json:"_source"`
}

// SearchSource carries the filing metadata attached to a hit.
type SearchSource struct {
	CIKs         []string `json:"ciks"`
	DisplayNames []string `json:"display_names"`
	Form         string   `json:"form"`
	RootForms    []string `json:"root_forms"`
	FileType     string   `json:"file_type"`
	FileDate     string   `json:"file_date"`
	PeriodEnding string   `json:"period_ending"`
}

// Search runs one full-text search request and returns the page as
// served.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidConfig)
	}
	u := c.cfg.Endpoints.Search + "?" + opts.values().Encode()
	body, err := c.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, decodeErr(fmt.Errorf("search response: %v", err))
	}
	return &resp, nil
}

// SearchAll pages through every hit for a query. Pages after the first
// are fetched in bounded parallel batches; ordering by page is
// preserved. The rate governor keeps aggregate traffic within budget
// regardless of the parallelism here.
func (c *Client) SearchAll(ctx context.Context, opts SearchOptions) ([]SearchHit, error) {
	opts.From = 0
	opts.Size = searchPageSize

	first, err := c.Search(ctx, opts)
	if err != nil {
		return nil, err
	}
	total := first.Hits.Total.Value
	hits := first.Hits.Hits
	if total <= len(hits) {
		return hits, nil
	}

	pages := (total + searchPageSize - 1) / searchPageSize
	results := make([][]SearchHit, pages)
	results[0] = hits

	sem := make(chan struct{}, searchConcurrency)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for page := 1; page < pages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pageOpts := opts
			pageOpts.From = page * searchPageSize
			resp, err := c.Search(ctx, pageOpts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("search page %d: %w", page, err)
				}
				return
			}
			results[page] = resp.Hits.Hits
		}(page)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	all := make([]SearchHit, 0, total)
	for _, page := range results {
		all = append(all, page...)
	}
	return all, nil
}

// SearchFilings runs a full search and returns the hits as normalized
// filing records, filtered by fopts. Hits whose identifiers do not
// parse are skipped with a warning.
func (c *Client) SearchFilings(ctx context.Context, opts SearchOptions, fopts FilingOptions) ([]FilingRecord, error) {
	hits, err := c.SearchAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	records := make([]FilingRecord, 0, len(hits))
	for _, h := range hits {
		rec, err := c.norm.fromSearchHit(h)
		if err != nil {
			metrics.DecodeWarningsTotal.WithLabelValues("search").Inc()
			c.log.WarnContext(ctx, "skipping unparseable search hit", "id", h.ID, "err", err)
			continue
		}
		records = append(records, rec)
	}
	return fopts.apply(records), nil
}
