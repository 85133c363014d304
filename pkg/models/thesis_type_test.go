package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeThesisType(t *testing.T) {
	cases := map[string]ThesisType{
		"b":              ThesisTypeBachelor,
		"Bachelor":       ThesisTypeBachelor,
		"BACHELORARBEIT": ThesisTypeBachelor,
		"ba":             ThesisTypeBachelor,
		"BSc":            ThesisTypeBachelor,
		"m":              ThesisTypeMaster,
		"Masterarbeit":   ThesisTypeMaster,
		"msc":            ThesisTypeMaster,
		"p":              ThesisTypeProject,
		"Projektarbeit":  ThesisTypeProject,
		"proj":           ThesisTypeProject,
		"":               ThesisTypeOther,
		"dissertation":   ThesisTypeOther,
		"  master  ":     ThesisTypeMaster,
	}

	for input, want := range cases {
		assert.Equal(t, want, NormalizeThesisType(input), "input %q", input)
	}
}

func TestThesisTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Bachelor Thesis", ThesisTypeBachelor.DisplayName())
	assert.Equal(t, "Master Thesis", ThesisTypeMaster.DisplayName())
	assert.Equal(t, "Project Work", ThesisTypeProject.DisplayName())
	assert.Equal(t, "Other", ThesisTypeOther.DisplayName())
}
