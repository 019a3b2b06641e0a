package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/filinghawk-systems/filinghawk/common/metrics"
	"github.com/filinghawk-systems/filinghawk/parsers/indexfile"
)

// earliestIndexYear is the first year for which index files exist.
const earliestIndexYear = 1994

const rangeConcurrency = 4

// Quarter identifies a calendar quarter, 1 through 4.
type Quarter int

// QuarterOf returns the quarter containing the given month.
func QuarterOf(m time.Month) Quarter {
	return Quarter((int(m)-1)/3 + 1)
}

// String renders the directory form, e.g. "QTR3".
func (q Quarter) String() string {
	return fmt.Sprintf("QTR%d", int(q))
}

// Period is a year and quarter, the granularity of the full index.
type Period struct {
	Year    int
	Quarter Quarter
}

// NewPeriod validates a year and quarter against the archive's range.
func NewPeriod(year int, quarter Quarter) (Period, error) {
	if year < earliestIndexYear {
		return Period{}, fmt.Errorf("%w: no index before %d", ErrInvalidConfig, earliestIndexYear)
	}
	if quarter < 1 || quarter > 4 {
		return Period{}, fmt.Errorf("%w: quarter must be 1-4, got %d", ErrInvalidConfig, quarter)
	}
	return Period{Year: year, Quarter: quarter}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%d/%s", p.Year, p.Quarter)
}

// Day is a calendar date, the granularity of the daily index.
type Day struct {
	Year  int
	Month time.Month
	day   int
}

// NewDay validates a calendar date against the archive's range.
func NewDay(year int, month time.Month, day int) (Day, error) {
	if year < earliestIndexYear {
		return Day{}, fmt.Errorf("%w: no index before %d", ErrInvalidConfig, earliestIndexYear)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Day{}, fmt.Errorf("%w: invalid date %d-%02d-%02d", ErrInvalidConfig, year, month, day)
	}
	return Day{Year: year, Month: month, day: day}, nil
}

// DayOf converts a time to its calendar Day in UTC.
func DayOf(t time.Time) Day {
	t = t.UTC()
	return Day{Year: t.Year(), Month: t.Month(), day: t.Day()}
}

// Compact renders the form used in daily index file names, "20230815".
func (d Day) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.day)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.day)
}

// Period returns the quarter directory containing this day.
func (d Day) Period() Period {
	return Period{Year: d.Year, Quarter: QuarterOf(d.Month)}
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.day, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return DayOf(d.Time().AddDate(0, 0, 1))
}

// Before reports whether d precedes other.
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// DirectoryListing is the JSON listing of an archive directory.
type DirectoryListing struct {
	Directory struct {
		Name  string          `json:"name"`
		Items []DirectoryItem `json:"item"`
	} `json:"directory"`
}

// DirectoryItem is one entry of a directory listing.
type DirectoryItem struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Href         string `json:"href"`
	Size         string `json:"size"`
	LastModified string `json:"last-modified"`
}

// IndexResult is the outcome of decoding one index file: normalized
// records plus warnings for the rows that were skipped.
type IndexResult struct {
	Records  []FilingRecord
	Warnings []string
}

// DayFailure records a day in a range fetch that could not be
// retrieved.
type DayFailure struct {
	Day Day
	Err error
}

// RangeResult aggregates a multi-day fetch. Failed days appear in
// Failures and do not fail the whole range; weekends and holidays
// have no index and surface as ErrNotFound failures.
type RangeResult struct {
	Records  []FilingRecord
	Warnings []string
	Failures []DayFailure
}

// DailyIndexListing fetches the directory listing for the daily index
// of a period.
func (c *Client) DailyIndexListing(ctx context.Context, p Period) (*DirectoryListing, error) {
	return c.listing(ctx, c.dailyIndexURL(p, "index.json"))
}

// FullIndexListing fetches the directory listing for the full
// (quarterly) index of a period.
func (c *Client) FullIndexListing(ctx context.Context, p Period) (*DirectoryListing, error) {
	return c.listing(ctx, c.fullIndexURL(p, "index.json"))
}

func (c *Client) dailyIndexURL(p Period, file string) string {
	return fmt.Sprintf("%s/daily-index/%d/%s/%s", c.cfg.Endpoints.Archives, p.Year, p.Quarter, file)
}

func (c *Client) fullIndexURL(p Period, file string) string {
	return fmt.Sprintf("%s/full-index/%d/%s/%s", c.cfg.Endpoints.Archives, p.Year, p.Quarter, file)
}

func (c *Client) listing(ctx context.Context, url string) (*DirectoryListing, error) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var listing DirectoryListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, decodeErr(fmt.Errorf("directory listing %s: %v", url, err))
	}
	return &listing, nil
}

// DailyFilings fetches and decodes the master index for one day,
// returning normalized records filtered by opts. The compressed
// variant is preferred when the listing shows both.
func (c *Client) DailyFilings(ctx context.Context, day Day, opts FilingOptions) (*IndexResult, error) {
	listing, err := c.DailyIndexListing(ctx, day.Period())
	if err != nil {
		return nil, err
	}
	name := pickIndexFile(listing, "master."+day.Compact())
	if name == "" {
		return nil, fmt.Errorf("%w: no master index for %s", ErrNotFound, day)
	}
	return c.decodeIndex(ctx, c.dailyIndexURL(day.Period(), name), opts)
}

// PeriodFilings fetches and decodes the quarterly master index for a
// period, filtered by opts. Quarterly indices run to hundreds of
// thousands of rows; prefer DailyFilings when the window allows.
func (c *Client) PeriodFilings(ctx context.Context, p Period, opts FilingOptions) (*IndexResult, error) {
	listing, err := c.FullIndexListing(ctx, p)
	if err != nil {
		return nil, err
	}
	name := pickIndexFile(listing, "master")
	if name == "" {
		return nil, fmt.Errorf("%w: no master index for %s", ErrNotFound, p)
	}
	return c.decodeIndex(ctx, c.fullIndexURL(p, name), opts)
}

// pickIndexFile selects the index file with the given stem from a
// listing, preferring the gzip variant.
func pickIndexFile(listing *DirectoryListing, stem string) string {
	var plain string
	for _, item := range listing.Directory.Items {
		switch item.Name {
		case stem + ".gz", stem + ".idx.gz":
			return item.Name
		case stem + ".idx":
			plain = item.Name
		}
	}
	return plain
}

func (c *Client) decodeIndex(ctx context.Context, url string, opts FilingOptions) (*IndexResult, error) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	decoded, err := indexfile.DecodeBytes(body)
	if err != nil {
		return nil, decodeErr(fmt.Errorf("index %s: %v", url, err))
	}
	result := &IndexResult{Warnings: decoded.Warnings}
	records := make([]FilingRecord, 0, len(decoded.Entries))
	for _, e := range decoded.Entries {
		rec, err := c.norm.fromIndexEntry(e)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		records = append(records, rec)
	}
	for range result.Warnings {
		metrics.DecodeWarningsTotal.WithLabelValues("index").Inc()
	}
	if len(result.Warnings) > 0 {
		c.log.WarnContext(ctx, "index rows skipped", "url", url, "skipped", len(result.Warnings))
	}
	result.Records = opts.apply(records)
	return result, nil
}

// FetchRange fetches daily filings for every day from 'from' through
// 'to' inclusive, with bounded concurrency. A day that fails does not
// abort the range; its error is recorded in the result instead.
// Records keep calendar order.
func (c *Client) FetchRange(ctx context.Context, from, to Day, opts FilingOptions) (*RangeResult, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s precedes start %s", ErrInvalidConfig, to, from)
	}

	var days []Day
	for d := from; !to.Before(d); d = d.Next() {
		days = append(days, d)
	}

	// Paging applies to the merged range, not to each day, so the
	// per-day fetches carry only the form and CIK predicates.
	perDay := opts
	perDay.Offset = 0
	perDay.Limit = 0

	type dayOutcome struct {
		result *IndexResult
		err    error
	}
	outcomes := make([]dayOutcome, len(days))

	sem := make(chan struct{}, rangeConcurrency)
	var wg sync.WaitGroup
	for i, day := range days {
		wg.Add(1)
		go func(i int, day Day) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := c.DailyFilings(ctx, day, perDay)
			outcomes[i] = dayOutcome{result: res, err: err}
		}(i, day)
	}
	wg.Wait()

	out := &RangeResult{}
	for i, o := range outcomes {
		if o.err != nil {
			metrics.RangeFetchFailuresTotal.Inc()
			out.Failures = append(out.Failures, DayFailure{Day: days[i], Err: o.err})
			continue
		}
		out.Records = append(out.Records, o.result.Records...)
		for _, w := range o.result.Warnings {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", days[i], w))
		}
	}
	sort.SliceStable(out.Failures, func(a, b int) bool {
		return out.Failures[a].Day.Before(out.Failures[b].Day)
	})
	out.Records = opts.apply(out.Records)
	return out, nil
}

// AllMissing reports whether every day in the range failed, which
// usually means the range itself is wrong rather than the archive
// having gaps.
func (r *RangeResult) AllMissing() bool {
	if len(r.Failures) == 0 {
		return false
	}
	for _, f := range r.Failures {
		if !errors.Is(f.Err, ErrNotFound) {
			return false
		}
	}
	return len(r.Records) == 0
}
