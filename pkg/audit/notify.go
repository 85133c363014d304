package audit

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// Notifier announces new comments to the supervisors of a thesis. Delivery
// is a structured log line; an SMTP sender would plug in here.
type Notifier struct {
	logger  ectologger.Logger
	enabled bool
}

func NewNotifier(logger ectologger.Logger, enabled bool) *Notifier {
	return &Notifier{
		logger: logger,
		// EMAIL_NOTIFICATIONS_ENABLED, off unless configured
		enabled: enabled,
	}
}

// CommentAdded notifies every supervisor with an email address about a new
// comment. The thesis must carry its supervisors and students.
func (n *Notifier) CommentAdded(ctx context.Context, thesis *models.Thesis, comment *models.Comment) {
	if !n.enabled {
		return
	}

	var recipients []string
	for _, supervisor := range thesis.Supervisors {
		if supervisor.Email != "" {
			recipients = append(recipients, supervisor.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	commentType := "New comment"
	if comment.IsAutoGenerated {
		commentType = "Auto-generated comment"
	}

	title := thesis.Title
	if title == "" {
		var students []string
		for _, student := range thesis.Students {
			students = append(students, strings.TrimSpace(student.FullName()))
		}
		title = thesis.ThesisType.DisplayName() + " - " + strings.Join(students, ", ")
	}

	author := "System"
	if comment.User != nil && *comment.User != "" {
		author = *comment.User
	}

	n.logger.WithContext(ctx).WithFields(map[string]any{
		"thesis_id":  thesis.ID,
		"comment_id": comment.ID,
		"recipients": recipients,
		"author":     author,
		"subject":    "[Thesis Manager] " + commentType + " on thesis: " + title,
	}).Info("Supervisor notification")
}
