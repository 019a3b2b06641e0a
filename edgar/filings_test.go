package edgar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submissionsFixture() []byte {
	sub := map[string]any{
		"cik":        "320193",
		"name":       "Apple Inc.",
		"entityType": "operating",
		"tickers":    []string{"AAPL"},
		"filings": map[string]any{
			"recent": map[string]any{
				"accessionNumber":    []string{"0000320193-23-000106", "0000320193-23-000077", "0000320193-23-000064"},
				"form":               []string{"10-K", "10-Q", "8-K"},
				"filingDate":         []string{"2023-11-03", "2023-08-04", "2023-06-05"},
				"primaryDocument":    []string{"aapl-20230930.htm", "aapl-20230701.htm", "aapl-8k.htm"},
				"acceptanceDateTime": []string{"2023-11-02T18:08:27.000Z", "2023-08-03T18:04:43.000Z", "2023-06-05T16:30:00.000Z"},
				"size":               []int64{1000, 2000, 500},
				"isXBRL":             []int{1, 1, 0},
				"isInlineXBRL":       []int{1, 1, 0},
			},
		},
	}
	data, _ := json.Marshal(sub)
	return data
}

func filingsTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."},` +
			`"1":{"cik_str":789019,"ticker":"MSFT","title":"MICROSOFT CORP"}}`))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write(submissionsFixture())
	})
	mux.HandleFunc("/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>annual report</html>"))
	})
	return httptest.NewServer(mux)
}

func TestSubmissions(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	sub, err := c.Submissions(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", sub.CIK, "CIK comes back padded")
	assert.Equal(t, "Apple Inc.", sub.Name)
	assert.Len(t, sub.Filings.Recent.AccessionNumber, 3)
}

func TestFilings_TickerResolutionAndFilter(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	// lower-case ticker resolves through the cached map
	records, err := c.Filings(context.Background(), "aapl", FilingOptions{Forms: []string{"10-K"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10-K", records[0].FormType)
	assert.Equal(t, "0000320193-23-000106", records[0].Accession.String())
	assert.Equal(t, srv.URL+"/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm",
		records[0].DocumentURL)
}

func TestFilings_ByNumericCIK(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	records, err := c.Filings(context.Background(), "320193", FilingOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestFilings_UnknownTicker(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Filings(context.Background(), "ZZZZ", FilingOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestFilingDocument(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	rec, body, err := c.LatestFilingDocument(context.Background(), "AAPL", FilingOptions{Forms: []string{"10-K"}})
	require.NoError(t, err)
	assert.Equal(t, "10-K", rec.FormType)
	assert.Equal(t, "<html>annual report</html>", string(body))
}

func TestLatestFiling_NoMatch(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.LatestFiling(context.Background(), "AAPL", FilingOptions{Forms: []string{"S-1"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilingDocument(t *testing.T) {
	srv := filingsTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	acc, err := ParseAccession("0000320193-23-000106")
	require.NoError(t, err)
	body, err := c.FilingDocument(context.Background(), "AAPL", acc, "aapl-20230930.htm")
	require.NoError(t, err)
	assert.Contains(t, string(body), "annual report")
}

func TestResolveCIK_CachesTickerMap(t *testing.T) {
	var tickerFetches int32
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tickerFetches, 1)
		w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newTestClient(t, srv)

	for i := 0; i < 3; i++ {
		cik, err := c.ResolveCIK(context.Background(), "aapl")
		require.NoError(t, err)
		assert.Equal(t, "0000320193", cik)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&tickerFetches))
}
