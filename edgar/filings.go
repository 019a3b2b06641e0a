package edgar

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/filinghawk-systems/filinghawk/common/metrics"
)

// Submission is the per-company submissions document. Filing fields
// arrive as parallel arrays indexed by filing; the i-th element of
// each array describes the i-th filing.
type Submission struct {
	CIK                  string       `json:"cik"`
	Name                 string       `json:"name"`
	EntityType           string       `json:"entityType"`
	SIC                  string       `json:"sic"`
	SICDescription       string       `json:"sicDescription"`
	Tickers              []string     `json:"tickers"`
	Exchanges            []string     `json:"exchanges"`
	StateOfIncorporation string       `json:"stateOfIncorporation"`
	FiscalYearEnd        string       `json:"fiscalYearEnd"`
	Website              string       `json:"website"`
	Phone                string       `json:"phone"`
	FormerNames          []FormerName `json:"formerNames"`
	Filings              struct {
		Recent RecentFilings `json:"recent"`
		Files  []FilingPage  `json:"files"`
	} `json:"filings"`
}

// FormerName records a prior registrant name and when it applied.
type FormerName struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// FilingPage points at an older page of filings beyond the recent
// window, served as a separate document.
type FilingPage struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// RecentFilings holds the parallel filing arrays. Arrays may differ in
// length in malformed responses; consumers index defensively.
type RecentFilings struct {
	AccessionNumber    []string `json:"accessionNumber"`
	FilingDate         []string `json:"filingDate"`
	ReportDate         []string `json:"reportDate"`
	AcceptanceDateTime []string `json:"acceptanceDateTime"`
	Form               []string `json:"form"`
	FileNumber         []string `json:"fileNumber"`
	Items              []string `json:"items"`
	Size               []int64  `json:"size"`
	IsXBRL             []int    `json:"isXBRL"`
	IsInlineXBRL       []int    `json:"isInlineXBRL"`
	PrimaryDocument    []string `json:"primaryDocument"`
	PrimaryDocDesc     []string `json:"primaryDocDescription"`
}

// Submissions fetches the raw submissions document for an entity. The
// entity may be a ticker symbol or a CIK in any digit width.
func (c *Client) Submissions(ctx context.Context, entity string) (*Submission, error) {
	cik, err := c.ResolveCIK(ctx, entity)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.cfg.Endpoints.Data, cik)
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var sub Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, decodeErr(fmt.Errorf("submissions for %s: %v", entity, err))
	}
	if sub.CIK != "" {
		// the API reports the CIK unpadded
		if norm, err := NormalizeCIK(sub.CIK); err == nil {
			sub.CIK = norm
		}
	} else {
		sub.CIK = cik
	}
	return &sub, nil
}

// Filings fetches an entity's recent filings as normalized records,
// newest first, filtered by opts.
func (c *Client) Filings(ctx context.Context, entity string, opts FilingOptions) ([]FilingRecord, error) {
	sub, err := c.Submissions(ctx, entity)
	if err != nil {
		return nil, err
	}
	records, warnings := c.norm.fromSubmission(sub)
	for _, w := range warnings {
		metrics.DecodeWarningsTotal.WithLabelValues("submissions").Inc()
		c.log.WarnContext(ctx, "skipping unparseable filing", "entity", entity, "detail", w)
	}
	return opts.apply(records), nil
}

// LatestFiling returns the newest filing matching opts, or ErrNotFound
// when nothing matches.
func (c *Client) LatestFiling(ctx context.Context, entity string, opts FilingOptions) (FilingRecord, error) {
	opts.Limit = 1
	opts.Offset = 0
	records, err := c.Filings(ctx, entity, opts)
	if err != nil {
		return FilingRecord{}, err
	}
	if len(records) == 0 {
		return FilingRecord{}, fmt.Errorf("%w: no filing for %s matching filter", ErrNotFound, entity)
	}
	return records[0], nil
}

// LatestFilingDocument returns the newest matching filing along with
// the content of its primary document.
func (c *Client) LatestFilingDocument(ctx context.Context, entity string, opts FilingOptions) (FilingRecord, []byte, error) {
	rec, err := c.LatestFiling(ctx, entity, opts)
	if err != nil {
		return FilingRecord{}, nil, err
	}
	if rec.DocumentURL == "" {
		return FilingRecord{}, nil, fmt.Errorf("%w: filing %s has no primary document", ErrNotFound, rec.Accession)
	}
	body, err := c.Fetch(ctx, rec.DocumentURL)
	if err != nil {
		return FilingRecord{}, nil, err
	}
	return rec, body, nil
}

// FilingDocument fetches a named document from a filing's archive
// directory.
func (c *Client) FilingDocument(ctx context.Context, entity string, accession Accession, filename string) ([]byte, error) {
	cik, err := c.ResolveCIK(ctx, entity)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, c.norm.documentURL(cik, accession, filename))
}
