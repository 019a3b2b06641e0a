package edgar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, Quarter(1), QuarterOf(time.January))
	assert.Equal(t, Quarter(1), QuarterOf(time.March))
	assert.Equal(t, Quarter(2), QuarterOf(time.April))
	assert.Equal(t, Quarter(3), QuarterOf(time.August))
	assert.Equal(t, Quarter(4), QuarterOf(time.December))
	assert.Equal(t, "QTR3", QuarterOf(time.August).String())
}

func TestNewPeriod_Validation(t *testing.T) {
	_, err := NewPeriod(1993, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewPeriod(2023, 5)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewPeriod(2023, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	p, err := NewPeriod(2023, 3)
	require.NoError(t, err)
	assert.Equal(t, "2023/QTR3", p.String())
}

func TestNewDay_Validation(t *testing.T) {
	_, err := NewDay(1990, time.May, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewDay(2023, time.February, 30)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	d, err := NewDay(2023, time.August, 15)
	require.NoError(t, err)
	assert.Equal(t, "20230815", d.Compact())
	assert.Equal(t, "2023-08-15", d.String())
	assert.Equal(t, Period{Year: 2023, Quarter: 3}, d.Period())
}

func TestDay_NextCrossesMonthAndYear(t *testing.T) {
	d, err := NewDay(2023, time.December, 31)
	require.NoError(t, err)
	next := d.Next()
	assert.Equal(t, "2024-01-01", next.String())
	assert.True(t, d.Before(next))
	assert.False(t, next.Before(d))
}

// masterIndexFixture builds a daily master index body with the given
// number of valid rows plus two malformed rows.
func masterIndexFixture(rows int) string {
	gofakeit.Seed(11)
	var b strings.Builder
	b.WriteString("Description:           Master Index of EDGAR Dissemination Feed\n")
	b.WriteString("Last Data Received:    August 15, 2023\n\n")
	b.WriteString("CIK|Company Name|Form Type|Date Filed|Filename\n")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for i := 0; i < rows; i++ {
		form := "10-Q"
		if i%2 == 0 {
			form = "10-K"
		}
		fmt.Fprintf(&b, "%d|%s|%s|2023-08-15|edgar/data/%d/0000320193-23-%06d.txt\n",
			100000+i, gofakeit.Company(), form, 100000+i, i)
	}
	b.WriteString("only|three|fields\n")
	b.WriteString("notanumber|BROKEN CO|10-K|2023-08-15|edgar/data/1/0000000001-23-000001.txt\n")
	return b.String()
}

func indexTestServer(t *testing.T, missingDays ...string) *httptest.Server {
	t.Helper()
	missing := map[string]bool{}
	for _, d := range missingDays {
		missing[d] = true
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/daily-index/2023/QTR3/index.json", func(w http.ResponseWriter, r *http.Request) {
		var items []string
		for _, day := range []string{"20230814", "20230815", "20230816"} {
			if !missing[day] {
				items = append(items, fmt.Sprintf(`{"name":"master.%s.idx","type":"file","href":"master.%s.idx"}`, day, day))
			}
		}
		fmt.Fprintf(w, `{"directory":{"name":"daily-index/2023/QTR3","item":[%s]}}`, strings.Join(items, ","))
	})
	mux.HandleFunc("/Archives/edgar/daily-index/2023/QTR3/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(masterIndexFixture(98)))
	})
	mux.HandleFunc("/Archives/edgar/full-index/2023/QTR3/index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"directory":{"name":"full-index/2023/QTR3","item":[` +
			`{"name":"master.idx","type":"file","href":"master.idx"}]}}`))
	})
	mux.HandleFunc("/Archives/edgar/full-index/2023/QTR3/master.idx", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(masterIndexFixture(10)))
	})
	return httptest.NewServer(mux)
}

func TestDailyFilings(t *testing.T) {
	srv := indexTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	day, err := NewDay(2023, time.August, 15)
	require.NoError(t, err)
	result, err := c.DailyFilings(context.Background(), day, FilingOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Records, 98, "malformed rows do not fail the decode")
	assert.Len(t, result.Warnings, 2)
	assert.Equal(t, "2023-08-15", result.Records[0].Filed)
}

func TestDailyFilings_FormFilter(t *testing.T) {
	srv := indexTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	day, err := NewDay(2023, time.August, 15)
	require.NoError(t, err)
	result, err := c.DailyFilings(context.Background(), day, FilingOptions{Forms: []string{"10-K"}, WithoutAmendments: true})
	require.NoError(t, err)
	assert.Len(t, result.Records, 49)
}

func TestDailyFilings_MissingDay(t *testing.T) {
	srv := indexTestServer(t, "20230815")
	defer srv.Close()
	c := newTestClient(t, srv)

	day, err := NewDay(2023, time.August, 15)
	require.NoError(t, err)
	_, err = c.DailyFilings(context.Background(), day, FilingOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPeriodFilings(t *testing.T) {
	srv := indexTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	p, err := NewPeriod(2023, 3)
	require.NoError(t, err)
	result, err := c.PeriodFilings(context.Background(), p, FilingOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Records, 10)
}

func TestFetchRange_MissingDayIsRecordedNotFatal(t *testing.T) {
	srv := indexTestServer(t, "20230815")
	defer srv.Close()
	c := newTestClient(t, srv)

	from, err := NewDay(2023, time.August, 14)
	require.NoError(t, err)
	to, err := NewDay(2023, time.August, 16)
	require.NoError(t, err)

	result, err := c.FetchRange(context.Background(), from, to, FilingOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2*98)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "2023-08-15", result.Failures[0].Day.String())
	assert.ErrorIs(t, result.Failures[0].Err, ErrNotFound)
	assert.False(t, result.AllMissing())
}

func TestFetchRange_PagingSpansDays(t *testing.T) {
	srv := indexTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	from, err := NewDay(2023, time.August, 14)
	require.NoError(t, err)
	to, err := NewDay(2023, time.August, 16)
	require.NoError(t, err)

	// 3 days x 98 rows; the limit caps the merged range, not each day
	result, err := c.FetchRange(context.Background(), from, to, FilingOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)

	result, err = c.FetchRange(context.Background(), from, to, FilingOptions{Offset: 290, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Records, 4, "offset walks past the first two days")

	result, err = c.FetchRange(context.Background(), from, to, FilingOptions{Offset: 100})
	require.NoError(t, err)
	assert.Len(t, result.Records, 194)
}

func TestFetchRange_InvertedRange(t *testing.T) {
	srv := indexTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	from, _ := NewDay(2023, time.August, 16)
	to, _ := NewDay(2023, time.August, 14)
	_, err := c.FetchRange(context.Background(), from, to, FilingOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFetchRange_AllMissing(t *testing.T) {
	srv := indexTestServer(t, "20230814", "20230815", "20230816")
	defer srv.Close()
	c := newTestClient(t, srv)

	from, _ := NewDay(2023, time.August, 14)
	to, _ := NewDay(2023, time.August, 16)
	result, err := c.FetchRange(context.Background(), from, to, FilingOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Len(t, result.Failures, 3)
	assert.True(t, result.AllMissing())
}

func TestPickIndexFile_PrefersGzip(t *testing.T) {
	listing := &DirectoryListing{}
	listing.Directory.Items = []DirectoryItem{
		{Name: "master.idx", Type: "file"},
		{Name: "master.gz", Type: "file"},
	}
	assert.Equal(t, "master.gz", pickIndexFile(listing, "master"))

	listing.Directory.Items = listing.Directory.Items[:1]
	assert.Equal(t, "master.idx", pickIndexFile(listing, "master"))

	assert.Equal(t, "", pickIndexFile(&DirectoryListing{}, "master"))
}
