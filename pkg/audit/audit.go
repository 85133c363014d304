// Package audit derives auto-generated comments from thesis changes. Date
// and phase edits leave a trail on the thesis so the history survives even
// when nobody writes a manual note.
package audit

import (
	"fmt"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

type dateField struct {
	label string
	get   func(*models.Thesis) *models.Date
}

var dateFields = []dateField{
	{"First Contact", func(t *models.Thesis) *models.Date { return t.DateFirstContact }},
	{"Topic Selected", func(t *models.Thesis) *models.Date { return t.DateTopicSelected }},
	{"Registration", func(t *models.Thesis) *models.Date { return t.DateRegistration }},
	{"Deadline", func(t *models.Thesis) *models.Date { return t.DateDeadline }},
	{"Presentation", func(t *models.Thesis) *models.Date { return t.DatePresentation }},
	{"Review", func(t *models.Thesis) *models.Date { return t.DateReview }},
	{"Final Discussion", func(t *models.Thesis) *models.Date { return t.DateFinalDiscussion }},
}

// ChangeMessages compares two versions of a thesis and returns one message
// per tracked change, in field order with the phase last.
func ChangeMessages(before, after *models.Thesis) []string {
	var messages []string

	for _, field := range dateFields {
		oldValue := field.get(before)
		newValue := field.get(after)

		switch {
		case oldValue == nil && newValue == nil:
		case oldValue == nil:
			messages = append(messages, fmt.Sprintf("%s date set to %s", field.label, newValue))
		case newValue == nil:
			messages = append(messages, fmt.Sprintf("%s date removed (was %s)", field.label, oldValue))
		case oldValue.String() != newValue.String():
			messages = append(messages, fmt.Sprintf("%s date changed from %s to %s", field.label, oldValue, newValue))
		}
	}

	if before.Phase != after.Phase {
		messages = append(messages, fmt.Sprintf("Phase changed from '%s' to '%s'", before.Phase.DisplayName(), after.Phase.DisplayName()))
	}

	return messages
}
