package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// CompanyTicker is one row of the public ticker-to-CIK mapping.
type CompanyTicker struct {
	CIK    uint64 `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Tickers fetches the full ticker-to-CIK mapping.
func (c *Client) Tickers(ctx context.Context) ([]CompanyTicker, error) {
	url := c.cfg.Endpoints.Files + "/company_tickers.json"
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	// served as an object keyed by row number, not an array
	var rows map[string]CompanyTicker
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, decodeErr(fmt.Errorf("ticker map: %v", err))
	}
	out := make([]CompanyTicker, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out, nil
}

// ResolveCIK turns an entity reference into a padded 10-digit CIK. A
// numeric reference is padded directly; anything else is treated as a
// ticker symbol and resolved through the ticker map, which is fetched
// once and cached for the client's lifetime.
func (c *Client) ResolveCIK(ctx context.Context, entity string) (string, error) {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return "", fmt.Errorf("%w: empty entity", ErrNotFound)
	}
	if allDigits(entity) {
		return NormalizeCIK(entity)
	}

	c.tickerMu.Lock()
	defer c.tickerMu.Unlock()
	if c.byTicker == nil {
		rows, err := c.Tickers(ctx)
		if err != nil {
			return "", err
		}
		c.byTicker = make(map[string]uint64, len(rows))
		for _, row := range rows {
			c.byTicker[strings.ToUpper(row.Ticker)] = row.CIK
		}
	}
	cik, ok := c.byTicker[strings.ToUpper(entity)]
	if !ok {
		return "", fmt.Errorf("%w: unknown ticker %q", ErrNotFound, entity)
	}
	return PadCIK(cik), nil
}
