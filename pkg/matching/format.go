package matching

import (
	"fmt"
	"strings"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// FormatStudentDisplay renders a student match for the decision prompt
func FormatStudentDisplay(student models.Student, score float64) string {
	var sb strings.Builder
	name := strings.TrimSpace(student.FullName())
	email := student.Email
	if email == "" {
		email = "no email"
	}
	fmt.Fprintf(&sb, "  %s (%s)", name, email)
	if student.StudentID != nil && *student.StudentID != "" {
		fmt.Fprintf(&sb, " [ID: %s]", *student.StudentID)
	}
	fmt.Fprintf(&sb, " - Match: %.0f%%", score*100)
	return sb.String()
}

// FormatSupervisorDisplay renders a supervisor match for the decision prompt
func FormatSupervisorDisplay(supervisor models.Supervisor, score float64) string {
	name := strings.TrimSpace(supervisor.FullName())
	email := supervisor.Email
	if email == "" {
		email = "no email"
	}
	return fmt.Sprintf("  %s (%s) - Match: %.0f%%", name, email, score*100)
}

// FormatThesisDisplay renders a thesis match for the decision prompt
func FormatThesisDisplay(thesis models.Thesis, score float64, reason string) string {
	title := thesis.Title
	if title == "" {
		title = "Untitled"
	}
	result := fmt.Sprintf("  [%s] %s (phase: %s) - Match: %.0f%%", thesis.ThesisType, title, thesis.Phase, score*100)
	if reason != "" {
		result += fmt.Sprintf(" (%s)", reason)
	}
	return result
}
