package models

import "time"

// Thesis is the central record connecting students and supervisors. List
// endpoints return it without students, supervisors and comments; detail
// endpoints populate them.
type Thesis struct {
	ID         string     `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	ThesisType ThesisType `json:"thesis_type" db:"thesis_type"`
	Phase      Phase      `json:"phase" db:"phase"`

	DateFirstContact    *Date `json:"date_first_contact,omitempty" db:"date_first_contact"`
	DateTopicSelected   *Date `json:"date_topic_selected,omitempty" db:"date_topic_selected"`
	DateRegistration    *Date `json:"date_registration,omitempty" db:"date_registration"`
	DateDeadline        *Date `json:"date_deadline,omitempty" db:"date_deadline"`
	DatePresentation    *Date `json:"date_presentation,omitempty" db:"date_presentation"`
	DateReview          *Date `json:"date_review,omitempty" db:"date_review"`
	DateFinalDiscussion *Date `json:"date_final_discussion,omitempty" db:"date_final_discussion"`

	GitRepository   string `json:"git_repository" db:"git_repository"`
	Description     string `json:"description" db:"description"`
	TaskDescription string `json:"task_description" db:"task_description"`
	Review          string `json:"review" db:"review"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Students    []Student    `json:"students,omitempty" db:"-"`
	Supervisors []Supervisor `json:"supervisors,omitempty" db:"-"`
	Comments    []Comment    `json:"comments,omitempty" db:"-"`
}

// StudentIDs returns the IDs of the assigned students
func (t *Thesis) StudentIDs() []string {
	ids := make([]string, 0, len(t.Students))
	for _, s := range t.Students {
		ids = append(ids, s.ID)
	}
	return ids
}

// DisplayTitle falls back to type and student when there is no title yet
func (t *Thesis) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if len(t.Students) > 0 {
		return t.ThesisType.DisplayName() + " - " + t.Students[0].FullName()
	}
	return t.ThesisType.DisplayName() + " (No student assigned)"
}

// CreateThesisRequest is the request for creating a thesis
type CreateThesisRequest struct {
	Title      string     `json:"title" validate:"max=500"`
	ThesisType ThesisType `json:"thesis_type" validate:"required,oneof=bachelor master project other"`
	Phase      Phase      `json:"phase" validate:"required,oneof=first_contact topic_discussion literature_research registered working submitted defended reviewed completed abandoned"`

	StudentIDs    []string `json:"student_ids" validate:"dive,uuid"`
	SupervisorIDs []string `json:"supervisor_ids" validate:"dive,uuid"`

	DateFirstContact    *Date `json:"date_first_contact,omitempty"`
	DateTopicSelected   *Date `json:"date_topic_selected,omitempty"`
	DateRegistration    *Date `json:"date_registration,omitempty"`
	DateDeadline        *Date `json:"date_deadline,omitempty"`
	DatePresentation    *Date `json:"date_presentation,omitempty"`
	DateReview          *Date `json:"date_review,omitempty"`
	DateFinalDiscussion *Date `json:"date_final_discussion,omitempty"`

	GitRepository   string `json:"git_repository" validate:"omitempty,url"`
	Description     string `json:"description"`
	TaskDescription string `json:"task_description"`
	Review          string `json:"review"`
}

// UpdateThesisRequest is the request for updating a thesis. Nil fields are
// left unchanged; student and supervisor assignments are replaced when set.
type UpdateThesisRequest struct {
	Title      *string     `json:"title,omitempty" validate:"omitempty,max=500"`
	ThesisType *ThesisType `json:"thesis_type,omitempty" validate:"omitempty,oneof=bachelor master project other"`
	Phase      *Phase      `json:"phase,omitempty" validate:"omitempty,oneof=first_contact topic_discussion literature_research registered working submitted defended reviewed completed abandoned"`

	StudentIDs    *[]string `json:"student_ids,omitempty" validate:"omitempty,dive,uuid"`
	SupervisorIDs *[]string `json:"supervisor_ids,omitempty" validate:"omitempty,dive,uuid"`

	DateFirstContact    *Date `json:"date_first_contact,omitempty"`
	DateTopicSelected   *Date `json:"date_topic_selected,omitempty"`
	DateRegistration    *Date `json:"date_registration,omitempty"`
	DateDeadline        *Date `json:"date_deadline,omitempty"`
	DatePresentation    *Date `json:"date_presentation,omitempty"`
	DateReview          *Date `json:"date_review,omitempty"`
	DateFinalDiscussion *Date `json:"date_final_discussion,omitempty"`

	GitRepository   *string `json:"git_repository,omitempty" validate:"omitempty,url"`
	Description     *string `json:"description,omitempty"`
	TaskDescription *string `json:"task_description,omitempty"`
	Review          *string `json:"review,omitempty"`
}

// ThesisListResponse is the response for listing theses
type ThesisListResponse struct {
	Items      []Thesis `json:"items"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// ThesisFilter narrows thesis list queries
type ThesisFilter struct {
	Phase        *Phase      `json:"phase,omitempty"`
	ThesisType   *ThesisType `json:"thesis_type,omitempty"`
	StudentID    *string     `json:"student_id,omitempty"`
	SupervisorID *string     `json:"supervisor_id,omitempty"`
}
