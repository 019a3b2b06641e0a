// Package feedxml decodes the archive's syndication feeds.
//
// EDGAR publishes filing activity as Atom and agency news as RSS. The
// decoder detects the format from the XML root element, so callers can
// hand it pre-fetched bytes without knowing which endpoint produced
// them. Items missing a title or link are skipped with a warning;
// only an unparseable root structure is an error.
package feedxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Item is one normalized feed entry.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
	// CIK is the zero-padded entity identifier when it can be
	// recovered from the entry payload, otherwise empty.
	CIK string
}

// Feed is a decoded syndication document.
type Feed struct {
	Format   string // "atom" or "rss"
	Title    string
	Updated  time.Time
	Items    []Item
	Warnings []string
}

// EDGAR Atom titles embed the filer CIK, e.g.
// "10-K - APPLE INC (0000320193) (Filer)".
var cikPattern = regexp.MustCompile(`\((\d{10})\)`)

// Timestamp layouts observed across SEC feeds.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05-07:00",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Updated string      `xml:"updated"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary"`
	Updated string     `xml:"updated"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	LastBuildDate string    `xml:"lastBuildDate"`
	PubDate       string    `xml:"pubDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Decode parses a feed payload, auto-detecting Atom versus RSS from the
// root element.
func Decode(data []byte) (*Feed, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, fmt.Errorf("unparseable feed document: %w", err)
	}

	switch root {
	case "feed":
		return decodeAtom(data)
	case "rss":
		return decodeRSS(data)
	default:
		return nil, fmt.Errorf("unrecognized feed root element %q", root)
	}
}

func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func decodeAtom(data []byte) (*Feed, error) {
	var doc atomFeed
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding atom feed: %w", err)
	}

	feed := &Feed{
		Format:  "atom",
		Title:   strings.TrimSpace(doc.Title),
		Updated: parseTime(doc.Updated),
	}

	for i, entry := range doc.Entries {
		link := primaryLink(entry.Links)
		if strings.TrimSpace(entry.Title) == "" || link == "" {
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("entry %d: missing title or link", i+1))
			continue
		}
		feed.Items = append(feed.Items, Item{
			Title:     strings.TrimSpace(entry.Title),
			Link:      link,
			Summary:   strings.TrimSpace(entry.Summary),
			Published: parseTime(entry.Updated),
			CIK:       extractCIK(entry.Title),
		})
	}

	return feed, nil
}

func decodeRSS(data []byte) (*Feed, error) {
	var doc rssDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding rss feed: %w", err)
	}

	updated := doc.Channel.LastBuildDate
	if updated == "" {
		updated = doc.Channel.PubDate
	}

	feed := &Feed{
		Format:  "rss",
		Title:   strings.TrimSpace(doc.Channel.Title),
		Updated: parseTime(updated),
	}

	for i, item := range doc.Channel.Items {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Link) == "" {
			feed.Warnings = append(feed.Warnings, fmt.Sprintf("item %d: missing title or link", i+1))
			continue
		}
		feed.Items = append(feed.Items, Item{
			Title:     strings.TrimSpace(item.Title),
			Link:      strings.TrimSpace(item.Link),
			Summary:   strings.TrimSpace(item.Description),
			Published: parseTime(item.PubDate),
			CIK:       extractCIK(item.Title),
		})
	}

	return feed, nil
}

// primaryLink prefers the alternate link, falling back to the first.
func primaryLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" && l.Href != "" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Href != "" {
			return l.Href
		}
	}
	return ""
}

func extractCIK(s string) string {
	if m := cikPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// parseTime tries the known feed timestamp layouts, returning the zero
// time when none match. Timestamps are advisory in feed payloads, so a
// bad one does not fail the item.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
