package edgar

import (
	"fmt"
	"strings"
)

// Accession is a filing accession number: a 10-digit filer prefix, a
// 2-digit year, and a 6-digit sequence, conventionally written
// "0000320193-23-000106". The zero value is not a valid accession.
type Accession struct {
	prefix string // 10 digits
	year   string // 2 digits
	seq    string // 6 digits
}

// ParseAccession accepts both the dashed form and the 18-digit compact
// form used in archive directory names.
func ParseAccession(s string) (Accession, error) {
	s = strings.TrimSpace(s)
	var prefix, year, seq string
	switch {
	case len(s) == 20 && s[10] == '-' && s[13] == '-':
		prefix, year, seq = s[:10], s[11:13], s[14:]
	case len(s) == 18:
		prefix, year, seq = s[:10], s[10:12], s[12:]
	default:
		return Accession{}, fmt.Errorf("malformed accession number %q", s)
	}
	if !allDigits(prefix) || !allDigits(year) || !allDigits(seq) {
		return Accession{}, fmt.Errorf("malformed accession number %q", s)
	}
	return Accession{prefix: prefix, year: year, seq: seq}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// String returns the dashed canonical form.
func (a Accession) String() string {
	return a.prefix + "-" + a.year + "-" + a.seq
}

// Compact returns the 18-digit form used in document URLs.
func (a Accession) Compact() string {
	return a.prefix + a.year + a.seq
}

// IsZero reports whether a is the zero Accession.
func (a Accession) IsZero() bool {
	return a.prefix == "" && a.year == "" && a.seq == ""
}

// MarshalText encodes the dashed form, so Accession renders naturally
// in JSON and YAML output.
func (a Accession) MarshalText() ([]byte, error) {
	if a.IsZero() {
		return []byte(""), nil
	}
	return []byte(a.String()), nil
}

// UnmarshalText parses either accepted form.
func (a *Accession) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Accession{}
		return nil
	}
	parsed, err := ParseAccession(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
