package edgar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func optionFixtures() []FilingRecord {
	return []FilingRecord{
		{CIK: PadCIK(320193), FormType: "10-K", Filed: "2023-11-03"},
		{CIK: PadCIK(320193), FormType: "10-K/A", Filed: "2023-11-10"},
		{CIK: PadCIK(320193), FormType: "10-Q", Filed: "2023-08-04"},
		{CIK: PadCIK(789019), FormType: "8-K", Filed: "2023-07-20"},
		{CIK: PadCIK(789019), FormType: "10-K", Filed: "2023-06-30"},
	}
}

func TestFilingOptions_ZeroValueSelectsEverything(t *testing.T) {
	got := FilingOptions{}.apply(optionFixtures())
	assert.Len(t, got, 5)
}

func TestFilingOptions_FormFilterIncludesAmendments(t *testing.T) {
	got := FilingOptions{Forms: []string{"10-K"}}.apply(optionFixtures())
	assert.Len(t, got, 3)
	for _, r := range got {
		assert.Contains(t, []string{"10-K", "10-K/A"}, r.FormType)
	}
}

func TestFilingOptions_WithoutAmendments(t *testing.T) {
	got := FilingOptions{Forms: []string{"10-K"}, WithoutAmendments: true}.apply(optionFixtures())
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "10-K", r.FormType)
	}
}

func TestFilingOptions_ExplicitAmendedForm(t *testing.T) {
	got := FilingOptions{Forms: []string{"10-K/A"}}.apply(optionFixtures())
	assert.Len(t, got, 1)
	assert.Equal(t, "10-K/A", got[0].FormType)
}

func TestFilingOptions_CIKFilter(t *testing.T) {
	got := FilingOptions{CIKs: []uint64{789019}}.apply(optionFixtures())
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, PadCIK(789019), r.CIK)
	}
}

func TestFilingOptions_Paging(t *testing.T) {
	got := FilingOptions{Offset: 1, Limit: 2}.apply(optionFixtures())
	assert.Len(t, got, 2)
	assert.Equal(t, "10-K/A", got[0].FormType)

	assert.Empty(t, FilingOptions{Offset: 10}.apply(optionFixtures()))
	assert.Len(t, FilingOptions{Limit: 100}.apply(optionFixtures()), 5)
}

func TestFilingOptions_CaseInsensitiveForms(t *testing.T) {
	got := FilingOptions{Forms: []string{"10-k"}, WithoutAmendments: true}.apply(optionFixtures())
	assert.Len(t, got, 2)
}
