// Package extraction turns raw CSV rows into structured thesis records. The
// Extractor interface is the seam between the import pipeline and whatever
// does the actual parsing, LLM-backed or rule-based.
package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// Row is one CSV line as a header-to-value mapping
type Row map[string]string

// StudentInfo is the student identity extracted from a row
type StudentInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	StudentID string `json:"student_id,omitempty"`
}

func (s StudentInfo) String() string {
	parts := []string{strings.TrimSpace(s.FirstName + " " + s.LastName)}
	if s.Email != "" {
		parts = append(parts, fmt.Sprintf("(%s)", s.Email))
	}
	if s.StudentID != "" {
		parts = append(parts, fmt.Sprintf("[ID: %s]", s.StudentID))
	}
	return strings.Join(parts, " ")
}

// SupervisorInfo is a supervisor identity extracted from a row
type SupervisorInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (s SupervisorInfo) String() string {
	parts := []string{strings.TrimSpace(s.FirstName + " " + s.LastName)}
	if s.Email != "" {
		parts = append(parts, fmt.Sprintf("(%s)", s.Email))
	}
	if s.Role != "" {
		parts = append(parts, fmt.Sprintf("[%s]", s.Role))
	}
	return strings.Join(parts, " ")
}

// ThesisInfo is the normalized thesis record extracted from one row
type ThesisInfo struct {
	Student     StudentInfo      `json:"student"`
	Supervisors []SupervisorInfo `json:"supervisors,omitempty"`

	ThesisType models.ThesisType `json:"thesis_type"`
	Title      string            `json:"title,omitempty"`
	Phase      models.Phase      `json:"phase"`

	DateFirstContact *models.Date `json:"date_first_contact,omitempty"`
	DateRegistration *models.Date `json:"date_registration,omitempty"`
	DateDeadline     *models.Date `json:"date_deadline,omitempty"`
	DatePresentation *models.Date `json:"date_presentation,omitempty"`

	Description     string `json:"description,omitempty"`
	TaskDescription string `json:"task_description,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// Validate checks that the row carries the minimum required identity
func (t *ThesisInfo) Validate() error {
	if strings.TrimSpace(t.Student.FirstName) == "" || strings.TrimSpace(t.Student.LastName) == "" {
		return fmt.Errorf("student first and last name are required")
	}
	return nil
}

// Extractor converts one raw row into a thesis record. Implementations are
// free to be non-deterministic; the pipeline treats any failure as fatal for
// that row only.
type Extractor interface {
	Extract(ctx context.Context, row Row) (*ThesisInfo, error)
}
