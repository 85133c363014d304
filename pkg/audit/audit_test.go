package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

func datePtr(year int, month time.Month, day int) *models.Date {
	d := models.NewDate(year, month, day)
	return &d
}

func TestChangeMessages(t *testing.T) {
	before := &models.Thesis{
		Phase:        models.PhaseWorking,
		DateDeadline: datePtr(2026, 3, 1),
		DateReview:   datePtr(2026, 5, 1),
	}
	after := &models.Thesis{
		Phase:            models.PhaseSubmitted,
		DateDeadline:     datePtr(2026, 4, 15),
		DatePresentation: datePtr(2026, 5, 20),
	}

	messages := ChangeMessages(before, after)

	assert.Equal(t, []string{
		"Deadline date changed from 2026-03-01 to 2026-04-15",
		"Presentation date set to 2026-05-20",
		"Review date removed (was 2026-05-01)",
		"Phase changed from 'Working' to 'Submitted'",
	}, messages)
}

func TestChangeMessagesNoChanges(t *testing.T) {
	thesis := &models.Thesis{
		Phase:        models.PhaseWorking,
		DateDeadline: datePtr(2026, 3, 1),
	}
	other := &models.Thesis{
		Phase:        models.PhaseWorking,
		DateDeadline: datePtr(2026, 3, 1),
	}

	assert.Empty(t, ChangeMessages(thesis, other))
}
