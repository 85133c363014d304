package models

import "time"

// Student represents a student who can write theses
type Student struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	StudentID *string   `json:"student_id,omitempty" db:"student_id"`
	Comments  string    `json:"comments" db:"comments"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns "First Last" for display and matching output
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// CreateStudentRequest is the request for creating a student
type CreateStudentRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	StudentID *string `json:"student_id,omitempty" validate:"omitempty,max=50"`
	Comments  string  `json:"comments"`
}

// UpdateStudentRequest is the request for updating a student. Nil fields are
// left unchanged.
type UpdateStudentRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	StudentID *string `json:"student_id,omitempty" validate:"omitempty,max=50"`
	Comments  *string `json:"comments,omitempty"`
}

// StudentListResponse is the response for listing students
type StudentListResponse struct {
	Items      []Student `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}
