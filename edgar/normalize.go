package edgar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/filinghawk-systems/filinghawk/parsers/indexfile"
)

// FilingRecord is the uniform shape every source normalizes to, so
// callers handle filings the same way whether they came from the
// submissions API, an index file, or full-text search.
type FilingRecord struct {
	CIK             string    `json:"cik" yaml:"cik"`
	CompanyName     string    `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	FormType        string    `json:"form_type" yaml:"form_type"`
	Filed           string    `json:"filed" yaml:"filed"`
	Accession       Accession `json:"accession" yaml:"accession"`
	PrimaryDocument string    `json:"primary_document,omitempty" yaml:"primary_document,omitempty"`
	DocumentURL     string    `json:"document_url,omitempty" yaml:"document_url,omitempty"`
	Acceptance      time.Time `json:"acceptance,omitempty" yaml:"acceptance,omitempty"`
	Size            int64     `json:"size,omitempty" yaml:"size,omitempty"`

	// HasStructuredData reports a machine-readable financial exhibit
	// attached to the filing; HasInlineData reports financial data
	// embedded in the primary document itself.
	HasStructuredData bool `json:"has_structured_data" yaml:"has_structured_data"`
	HasInlineData     bool `json:"has_inline_data" yaml:"has_inline_data"`
}

// FinancialsClassifier decides the structured-data flags for a filing.
// Plug in a custom one via Config.Classifier when the default
// heuristic is too coarse.
type FinancialsClassifier func(formType, primaryDocument string) (structured, inline bool)

// inlineForms are the form families whose primary HTML document embeds
// machine-readable financial data under current filing rules.
var inlineForms = map[string]bool{
	"10-K": true, "10-Q": true, "8-K": true,
	"20-F": true, "40-F": true, "6-K": true,
}

// DefaultFinancialsClassifier flags embedded data for HTML primary
// documents of the mandated form families, amendments included.
func DefaultFinancialsClassifier(formType, primaryDocument string) (structured, inline bool) {
	base := strings.TrimSuffix(strings.TrimSpace(formType), "/A")
	htm := strings.HasSuffix(primaryDocument, ".htm") || strings.HasSuffix(primaryDocument, ".html")
	return false, htm && inlineForms[base]
}

// PadCIK renders a CIK in the zero-padded 10-digit form the
// submissions API requires.
func PadCIK(cik uint64) string {
	return fmt.Sprintf("%010d", cik)
}

// NormalizeCIK pads a numeric CIK string to 10 digits.
func NormalizeCIK(s string) (string, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid CIK %q", s)
	}
	return PadCIK(n), nil
}

// normalizer converts source-specific shapes to FilingRecord and
// builds archive document URLs.
type normalizer struct {
	archives string
	classify FinancialsClassifier
}

// documentURL builds the archive URL for a filing document. The CIK
// segment drops leading zeros and the accession segment drops dashes.
func (n *normalizer) documentURL(cik string, acc Accession, doc string) string {
	unpadded := strings.TrimLeft(cik, "0")
	if unpadded == "" {
		unpadded = "0"
	}
	return fmt.Sprintf("%s/data/%s/%s/%s", n.archives, unpadded, acc.Compact(), doc)
}

// fromIndexEntry normalizes a daily or quarterly index entry. Index
// rows carry a path like "edgar/data/320193/0000320193-23-000106.txt";
// the accession is the stem of the final segment.
func (n *normalizer) fromIndexEntry(e indexfile.Entry) (FilingRecord, error) {
	seg := e.Path
	if i := strings.LastIndexByte(seg, '/'); i >= 0 {
		seg = seg[i+1:]
	}
	seg = strings.TrimSuffix(seg, ".txt")
	acc, err := ParseAccession(seg)
	if err != nil {
		return FilingRecord{}, fmt.Errorf("index entry for CIK %d: %w", e.CIK, err)
	}
	rec := FilingRecord{
		CIK:         PadCIK(e.CIK),
		CompanyName: e.CompanyName,
		FormType:    e.FormType,
		Filed:       e.Filed,
		Accession:   acc,
	}
	rec.HasStructuredData, rec.HasInlineData = n.classify(rec.FormType, "")
	return rec, nil
}

// fromSubmission flattens the parallel arrays of a submissions
// response. Rows whose accession fails to parse are skipped and
// reported as warnings rather than failing the batch.
func (n *normalizer) fromSubmission(sub *Submission) ([]FilingRecord, []string) {
	recent := &sub.Filings.Recent
	count := len(recent.AccessionNumber)
	records := make([]FilingRecord, 0, count)
	var warnings []string

	for i := 0; i < count; i++ {
		acc, err := ParseAccession(recent.AccessionNumber[i])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("filing %d: %v", i, err))
			continue
		}
		rec := FilingRecord{
			CIK:         sub.CIK,
			CompanyName: sub.Name,
			Accession:   acc,
		}
		if i < len(recent.Form) {
			rec.FormType = recent.Form[i]
		}
		if i < len(recent.FilingDate) {
			rec.Filed = recent.FilingDate[i]
		}
		if i < len(recent.PrimaryDocument) {
			rec.PrimaryDocument = recent.PrimaryDocument[i]
		}
		if i < len(recent.Size) {
			rec.Size = recent.Size[i]
		}
		if i < len(recent.AcceptanceDateTime) {
			if t, err := time.Parse(time.RFC3339, recent.AcceptanceDateTime[i]); err == nil {
				rec.Acceptance = t
			}
		}
		// Explicit flags, even zero ones, win over the heuristic;
		// the classifier only covers responses missing the arrays.
		if i < len(recent.IsXBRL) || i < len(recent.IsInlineXBRL) {
			rec.HasStructuredData = i < len(recent.IsXBRL) && recent.IsXBRL[i] != 0
			rec.HasInlineData = i < len(recent.IsInlineXBRL) && recent.IsInlineXBRL[i] != 0
		} else {
			rec.HasStructuredData, rec.HasInlineData = n.classify(rec.FormType, rec.PrimaryDocument)
		}
		if rec.PrimaryDocument != "" {
			rec.DocumentURL = n.documentURL(rec.CIK, rec.Accession, rec.PrimaryDocument)
		}
		records = append(records, rec)
	}
	return records, warnings
}

// fromSearchHit normalizes a full-text search hit. The hit identifier
// is "accession:filename".
func (n *normalizer) fromSearchHit(h SearchHit) (FilingRecord, error) {
	accPart, docPart, _ := strings.Cut(h.ID, ":")
	acc, err := ParseAccession(accPart)
	if err != nil {
		return FilingRecord{}, fmt.Errorf("search hit %q: %w", h.ID, err)
	}
	rec := FilingRecord{
		FormType:        h.Source.Form,
		Filed:           h.Source.FileDate,
		Accession:       acc,
		PrimaryDocument: docPart,
	}
	if len(h.Source.CIKs) > 0 {
		if cik, err := NormalizeCIK(h.Source.CIKs[0]); err == nil {
			rec.CIK = cik
		}
	}
	if len(h.Source.DisplayNames) > 0 {
		rec.CompanyName = h.Source.DisplayNames[0]
	}
	rec.HasStructuredData, rec.HasInlineData = n.classify(rec.FormType, rec.PrimaryDocument)
	if rec.CIK != "" && docPart != "" {
		rec.DocumentURL = n.documentURL(rec.CIK, acc, docPart)
	}
	return rec, nil
}
