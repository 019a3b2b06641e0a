package edgar

import "strings"

// FilingOptions narrows a set of normalized filings. The zero value
// selects everything: all forms, amendments included, no paging.
type FilingOptions struct {
	// Forms restricts results to these form types. Amended variants
	// ("10-K/A" for "10-K") match automatically unless
	// WithoutAmendments is set.
	Forms []string

	// CIKs restricts results to these filers.
	CIKs []uint64

	// WithoutAmendments excludes "/A" forms that were matched only
	// through their base form.
	WithoutAmendments bool

	// Offset and Limit page through the filtered results. A zero
	// Limit means unbounded.
	Offset int
	Limit  int
}

func (o FilingOptions) matchForm(form string) bool {
	if len(o.Forms) == 0 {
		if o.WithoutAmendments && strings.HasSuffix(strings.TrimSpace(form), "/A") {
			return false
		}
		return true
	}
	form = strings.TrimSpace(form)
	base := strings.TrimSuffix(form, "/A")
	amended := base != form
	for _, want := range o.Forms {
		want = strings.TrimSpace(want)
		if strings.EqualFold(form, want) {
			return true
		}
		if amended && !o.WithoutAmendments && strings.EqualFold(base, want) {
			return true
		}
	}
	return false
}

func (o FilingOptions) matchCIK(cik string) bool {
	if len(o.CIKs) == 0 {
		return true
	}
	for _, want := range o.CIKs {
		if cik == PadCIK(want) {
			return true
		}
	}
	return false
}

// apply filters and pages records in their original order.
func (o FilingOptions) apply(records []FilingRecord) []FilingRecord {
	out := make([]FilingRecord, 0, len(records))
	for _, r := range records {
		if o.matchForm(r.FormType) && o.matchCIK(r.CIK) {
			out = append(out, r)
		}
	}
	if o.Offset > 0 {
		if o.Offset >= len(out) {
			return nil
		}
		out = out[o.Offset:]
	}
	if o.Limit > 0 && o.Limit < len(out) {
		out = out[:o.Limit]
	}
	return out
}
