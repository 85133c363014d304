package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

func TestRuleBasedExtract(t *testing.T) {
	extractor := NewRuleBasedExtractor()

	info, err := extractor.Extract(context.Background(), Row{
		"First Name":  "Max",
		"Last Name":   "Mustermann",
		"Email":       "max@example.org",
		"Matrikel":    "12345",
		"Titel":       "Routing in sparse graphs",
		"Art":         "MA",
		"Status":      "writing the thesis",
		"Deadline":    "15.01.2024",
		"Betreuer":    "Anna Schmidt; Jan Peter Meyer",
		"Bemerkungen": "came via seminar",
	})
	require.NoError(t, err)

	assert.Equal(t, "Max", info.Student.FirstName)
	assert.Equal(t, "Mustermann", info.Student.LastName)
	assert.Equal(t, "max@example.org", info.Student.Email)
	assert.Equal(t, "12345", info.Student.StudentID)
	assert.Equal(t, "Routing in sparse graphs", info.Title)
	assert.Equal(t, models.ThesisTypeMaster, info.ThesisType)
	assert.Equal(t, models.PhaseWorking, info.Phase)
	require.NotNil(t, info.DateDeadline)
	assert.Equal(t, "2024-01-15", info.DateDeadline.String())
	assert.Equal(t, "came via seminar", info.Description)

	require.Len(t, info.Supervisors, 2)
	assert.Equal(t, "Anna", info.Supervisors[0].FirstName)
	assert.Equal(t, "Schmidt", info.Supervisors[0].LastName)
	assert.Equal(t, "Jan Peter", info.Supervisors[1].FirstName)
	assert.Equal(t, "Meyer", info.Supervisors[1].LastName)
}

func TestRuleBasedExtractSingleNameColumn(t *testing.T) {
	extractor := NewRuleBasedExtractor()

	info, err := extractor.Extract(context.Background(), Row{
		"Name":  "Erika Musterfrau",
		"Thema": "Bin packing heuristics",
		"Typ":   "bachelorarbeit",
	})
	require.NoError(t, err)

	assert.Equal(t, "Erika", info.Student.FirstName)
	assert.Equal(t, "Musterfrau", info.Student.LastName)
	assert.Equal(t, models.ThesisTypeBachelor, info.ThesisType)
	assert.Equal(t, models.PhaseFirstContact, info.Phase)
}

func TestRuleBasedExtractDropsBadEmail(t *testing.T) {
	extractor := NewRuleBasedExtractor()

	info, err := extractor.Extract(context.Background(), Row{
		"first_name": "Max",
		"last_name":  "Mustermann",
		"email":      "tbd",
	})
	require.NoError(t, err)
	assert.Empty(t, info.Student.Email)
}

func TestRuleBasedExtractMissingName(t *testing.T) {
	extractor := NewRuleBasedExtractor()

	_, err := extractor.Extract(context.Background(), Row{
		"title": "A thesis without a student",
	})
	require.Error(t, err)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Anna Schmidt")
	assert.Equal(t, "Anna", first)
	assert.Equal(t, "Schmidt", last)

	first, last = splitName("Meyer")
	assert.Empty(t, first)
	assert.Equal(t, "Meyer", last)

	first, last = splitName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
