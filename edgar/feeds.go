package edgar

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/filinghawk-systems/filinghawk/common/metrics"
	"github.com/filinghawk-systems/filinghawk/parsers/feedxml"
)

// FeedOptions parameterizes the browse-backed filing feeds.
type FeedOptions struct {
	// FormType restricts the feed to one form type.
	FormType string

	// Count caps the number of entries the server returns. Zero lets
	// the server choose.
	Count int

	// Since drops items published before this instant. Items with no
	// parseable timestamp are kept.
	Since time.Time
}

func (o FeedOptions) values() url.Values {
	v := url.Values{}
	v.Set("output", "atom")
	if o.FormType != "" {
		v.Set("type", o.FormType)
	}
	if o.Count > 0 {
		v.Set("count", strconv.Itoa(o.Count))
	}
	return v
}

// CurrentFilingsFeed fetches the cross-company feed of the most recent
// filings.
func (c *Client) CurrentFilingsFeed(ctx context.Context, opts FeedOptions) (*feedxml.Feed, error) {
	v := opts.values()
	v.Set("action", "getcurrent")
	return c.feed(ctx, c.cfg.Endpoints.Browse+"?"+v.Encode(), opts.Since)
}

// CompanyFeed fetches the filing feed for one entity, resolved from a
// ticker or CIK.
func (c *Client) CompanyFeed(ctx context.Context, entity string, opts FeedOptions) (*feedxml.Feed, error) {
	cik, err := c.ResolveCIK(ctx, entity)
	if err != nil {
		return nil, err
	}
	v := opts.values()
	v.Set("action", "getcompany")
	v.Set("CIK", cik)
	return c.feed(ctx, c.cfg.Endpoints.Browse+"?"+v.Encode(), opts.Since)
}

// PressReleasesFeed fetches the press release RSS feed.
func (c *Client) PressReleasesFeed(ctx context.Context) (*feedxml.Feed, error) {
	return c.feed(ctx, c.cfg.Endpoints.News+"/pressreleases.rss", time.Time{})
}

// Feed fetches and decodes an arbitrary Atom or RSS feed URL, dropping
// items published before since. A zero since keeps everything.
func (c *Client) Feed(ctx context.Context, feedURL string, since time.Time) (*feedxml.Feed, error) {
	return c.feed(ctx, feedURL, since)
}

func (c *Client) feed(ctx context.Context, feedURL string, since time.Time) (*feedxml.Feed, error) {
	body, err := c.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	feed, err := feedxml.Decode(body)
	if err != nil {
		return nil, decodeErr(fmt.Errorf("feed %s: %v", feedURL, err))
	}
	for range feed.Warnings {
		metrics.DecodeWarningsTotal.WithLabelValues("feed").Inc()
	}
	if len(feed.Warnings) > 0 {
		c.log.WarnContext(ctx, "feed items skipped", "url", feedURL, "skipped", len(feed.Warnings))
	}
	if !since.IsZero() {
		kept := feed.Items[:0]
		for _, item := range feed.Items {
			if item.Published.IsZero() || !item.Published.Before(since) {
				kept = append(kept, item)
			}
		}
		feed.Items = kept
	}
	return feed, nil
}
