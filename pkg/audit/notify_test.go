package audit

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

func countingLogger(count *int) ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {
		*count++
	})
}

func notifyThesis() *models.Thesis {
	return &models.Thesis{
		ID:         "t-1",
		Title:      "Routing in sparse graphs",
		ThesisType: models.ThesisTypeMaster,
		Supervisors: []models.Supervisor{
			{ID: "sup-1", FirstName: "Anna", LastName: "Schmidt", Email: "anna@example.org"},
		},
	}
}

func TestNotifierCommentAdded(t *testing.T) {
	var logged int
	notifier := NewNotifier(countingLogger(&logged), true)

	notifier.CommentAdded(context.Background(), notifyThesis(), &models.Comment{ID: "c-1", Text: "hello"})
	assert.Equal(t, 1, logged)
}

func TestNotifierDisabled(t *testing.T) {
	var logged int
	notifier := NewNotifier(countingLogger(&logged), false)

	notifier.CommentAdded(context.Background(), notifyThesis(), &models.Comment{ID: "c-1"})
	assert.Zero(t, logged)
}

func TestNotifierNoRecipients(t *testing.T) {
	var logged int
	notifier := NewNotifier(countingLogger(&logged), true)

	thesis := notifyThesis()
	thesis.Supervisors[0].Email = ""
	notifier.CommentAdded(context.Background(), thesis, &models.Comment{ID: "c-1"})
	assert.Zero(t, logged)
}
