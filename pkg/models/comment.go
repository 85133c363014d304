package models

import "time"

// Comment is a note on a thesis, either written by a user or auto-generated
// when dates or phases change.
type Comment struct {
	ID              string    `json:"id" db:"id"`
	ThesisID        string    `json:"thesis_id" db:"thesis_id"`
	User            *string   `json:"user,omitempty" db:"username"`
	Text            string    `json:"text" db:"text"`
	IsAutoGenerated bool      `json:"is_auto_generated" db:"is_auto_generated"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCommentRequest is the request for adding a comment to a thesis
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentListResponse is the response for listing the comments of a thesis
type CommentListResponse struct {
	Items      []Comment `json:"items"`
	TotalCount int       `json:"total_count"`
}
