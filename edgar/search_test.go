package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchServer serves a fixed universe of total hits, paged by the
// from/size parameters like the upstream search API.
func searchServer(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		if size == 0 {
			size = 10
		}

		var hits []SearchHit
		for i := from; i < from+size && i < total; i++ {
			hits = append(hits, SearchHit{
				ID: fmt.Sprintf("0000320193-23-%06d:doc%d.htm", i, i),
				Source: SearchSource{
					CIKs:         []string{"320193"},
					DisplayNames: []string{"Apple Inc. (AAPL)"},
					Form:         "10-K",
					FileDate:     "2023-11-03",
				},
			})
		}
		resp := SearchResponse{Hits: SearchHits{
			Total: HitTotal{Value: total, Relation: "eq"},
			Hits:  hits,
		}}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv := searchServer(t, 0)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Search(context.Background(), SearchOptions{Query: "  "})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSearch_SinglePage(t *testing.T) {
	srv := searchServer(t, 5)
	defer srv.Close()
	c := newTestClient(t, srv)

	resp, err := c.Search(context.Background(), SearchOptions{Query: "climate risk", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Hits.Total.Value)
	assert.Len(t, resp.Hits.Hits, 5)
}

func TestSearchAll_PagesInOrder(t *testing.T) {
	const total = 250
	srv := searchServer(t, total)
	defer srv.Close()
	c := newTestClient(t, srv)

	hits, err := c.SearchAll(context.Background(), SearchOptions{Query: "climate risk"})
	require.NoError(t, err)
	require.Len(t, hits, total)
	for i, h := range hits {
		assert.Equal(t, fmt.Sprintf("0000320193-23-%06d:doc%d.htm", i, i), h.ID)
	}
}

func TestSearchAll_SinglePageShortCircuits(t *testing.T) {
	srv := searchServer(t, 40)
	defer srv.Close()
	c := newTestClient(t, srv)

	hits, err := c.SearchAll(context.Background(), SearchOptions{Query: "anything"})
	require.NoError(t, err)
	assert.Len(t, hits, 40)
}

func TestSearchFilings_Normalizes(t *testing.T) {
	srv := searchServer(t, 3)
	defer srv.Close()
	c := newTestClient(t, srv)

	records, err := c.SearchFilings(context.Background(),
		SearchOptions{Query: "supply chain"}, FilingOptions{Forms: []string{"10-K"}})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "0000320193", records[0].CIK)
	assert.Equal(t, "doc0.htm", records[0].PrimaryDocument)
}

func TestSearchOptions_Values(t *testing.T) {
	v := SearchOptions{
		Query:     "going concern",
		Forms:     []string{"10-K", "10-Q"},
		StartDate: "2023-01-01",
		EndDate:   "2023-12-31",
		CIKs:      []uint64{320193},
		From:      100,
		Size:      100,
	}.values()

	assert.Equal(t, "going concern", v.Get("q"))
	assert.Equal(t, "10-K,10-Q", v.Get("forms"))
	assert.Equal(t, "custom", v.Get("dateRange"))
	assert.Equal(t, "2023-01-01", v.Get("startdt"))
	assert.Equal(t, "2023-12-31", v.Get("enddt"))
	assert.Equal(t, "0000320193", v.Get("ciks"))
	assert.Equal(t, "100", v.Get("from"))
}
