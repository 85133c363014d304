package models

import "time"

// Supervisor represents a thesis supervisor
type Supervisor struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Comments  string    `json:"comments" db:"comments"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (s *Supervisor) FullName() string {
	return s.FirstName + " " + s.LastName
}

// CreateSupervisorRequest is the request for creating a supervisor
type CreateSupervisorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Comments  string `json:"comments"`
}

// UpdateSupervisorRequest is the request for updating a supervisor. Nil fields
// are left unchanged.
type UpdateSupervisorRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Comments  *string `json:"comments,omitempty"`
}

// SupervisorListResponse is the response for listing supervisors
type SupervisorListResponse struct {
	Items      []Supervisor `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}
