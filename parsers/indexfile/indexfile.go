// Package indexfile decodes EDGAR daily and quarterly index files into
// structured entries.
//
// The archive publishes the same listing in several shapes: a
// pipe-delimited "master" format, and fixed-width "company" and
// "crawler" formats. Files may additionally be gzip-compressed; the
// decoder detects compression by magic bytes, never by filename, since
// callers often hold pre-fetched buffers.
//
// Malformed individual lines (short field counts, bad dates, bad CIKs)
// are skipped and reported as warnings. Only whole-payload failures,
// such as a truncated gzip stream, are returned as errors.
package indexfile

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Format identifies the layout of an index file.
type Format int

const (
	// FormatMaster is the pipe-delimited listing
	// (CIK|Company Name|Form Type|Date Filed|Filename).
	FormatMaster Format = iota

	// FormatCompany is the fixed-width listing sorted by company name.
	FormatCompany

	// FormatCrawler is the fixed-width listing carrying absolute URLs.
	FormatCrawler
)

// Fixed column widths used by the company and crawler layouts.
var fixedWidths = [5]int{62, 12, 12, 12, 74}

const (
	headerScanLimit = 50
	requiredFields  = 5
)

// Entry is one decoded index line.
type Entry struct {
	CompanyName string
	FormType    string
	CIK         uint64
	Filed       string // normalized to YYYY-MM-DD
	Path        string // document path or URL, as listed
}

// Result holds the decoded entries plus warnings for every line that
// was skipped. Warnings are not errors: an index with a handful of
// malformed trailing lines still decodes successfully.
type Result struct {
	Entries  []Entry
	Warnings []string
}

// Decode reads an index file, transparently inflating gzip input, and
// returns the decoded entries. The format is detected from the file's
// header block.
func Decode(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("corrupt gzip stream: %w", err)
		}
		defer gz.Close()
		return decodeText(gz)
	}

	return decodeText(br)
}

// DecodeBytes is a convenience wrapper for callers holding a buffer.
func DecodeBytes(data []byte) (*Result, error) {
	return Decode(bytes.NewReader(data))
}

func decodeText(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// Mid-stream gzip corruption surfaces here.
		return nil, fmt.Errorf("reading index payload: %w", err)
	}

	format, dataStart := analyzeHeader(lines)

	result := &Result{}
	for i := dataStart; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "---") {
			continue
		}
		entry, err := parseLine(line, format)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// analyzeHeader scans the preamble for format markers and locates the
// dashed separator that ends it. Data begins after the separator; if no
// separator appears within the scan limit, everything past the limit is
// treated as data.
func analyzeHeader(lines []string) (Format, int) {
	format := FormatMaster
	detected := false

	limit := headerScanLimit
	if len(lines) < limit {
		limit = len(lines)
	}

	for i := 0; i < limit; i++ {
		line := lines[i]
		if !detected {
			switch {
			case strings.Contains(line, "by Company Name"):
				format, detected = FormatCompany, true
			case strings.Contains(line, "Crawler"):
				format, detected = FormatCrawler, true
			case strings.Contains(line, "Master Index"),
				strings.Contains(line, "XBRL Index"),
				strings.Contains(line, "CIK|Company Name"):
				format, detected = FormatMaster, true
			}
		}
		if strings.Contains(line, "---") {
			return format, i + 1
		}
	}

	return format, limit
}

func parseLine(line string, format Format) (Entry, error) {
	var fields []string
	switch format {
	case FormatMaster:
		fields = splitTrim(line, "|")
	default:
		fields = splitFixed(line)
	}

	if len(fields) < requiredFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", requiredFields, len(fields))
	}

	var companyName, formType, cikField, dateField, path string
	switch format {
	case FormatMaster:
		cikField, companyName, formType, dateField, path = fields[0], fields[1], fields[2], fields[3], fields[4]
	default:
		companyName, formType, cikField, dateField, path = fields[0], fields[1], fields[2], fields[3], fields[4]
	}

	cik, err := strconv.ParseUint(cikField, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid CIK %q", cikField)
	}

	filed, err := normalizeDate(dateField)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		CompanyName: companyName,
		FormType:    formType,
		CIK:         cik,
		Filed:       filed,
		Path:        path,
	}, nil
}

// normalizeDate accepts the two date shapes that appear across index
// layouts (2023-02-14 and 20230214) and returns YYYY-MM-DD.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

func splitTrim(line, sep string) []string {
	parts := strings.Split(line, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// splitFixed cuts a line at the fixed column widths, appending any
// trailing remainder as a final field.
func splitFixed(line string) []string {
	var out []string
	start := 0
	for _, width := range fixedWidths {
		if start >= len(line) {
			break
		}
		end := start + width
		if end > len(line) {
			end = len(line)
		}
		out = append(out, strings.TrimSpace(line[start:end]))
		start = end
	}
	if start < len(line) {
		out = append(out, strings.TrimSpace(line[start:]))
	}
	return out
}
