package comment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/d-krupke/thesis-manager/pkg/database"
	"github.com/d-krupke/thesis-manager/pkg/models"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

var columns = []string{"id", "thesis_id", "username", "text", "is_auto_generated", "created_at", "updated_at"}

// Repository handles thesis comment persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new comment repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create adds a comment to a thesis. Username may be nil for comments the
// system generates.
func (r *Repository) Create(ctx context.Context, thesisID string, username *string, text string, autoGenerated bool) (*models.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.Repository.Create")
	defer span.End()

	comment := models.Comment{
		ID:              uuid.New().String(),
		ThesisID:        thesisID,
		User:            username,
		Text:            text,
		IsAutoGenerated: autoGenerated,
	}
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("comments")
	sb.Cols(columns...)
	sb.Values(comment.ID, comment.ThesisID, comment.User, comment.Text, comment.IsAutoGenerated, comment.CreatedAt, comment.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"thesis_id": thesisID}).Error("Failed to create comment")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create comment")
	}

	return &comment, nil
}

// ListByThesis retrieves all comments on a thesis, newest first
func (r *Repository) ListByThesis(ctx context.Context, thesisID string) ([]models.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.Repository.ListByThesis")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("comments")
	sb.Where(sb.Equal("thesis_id", thesisID))
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list comments")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list comments")
	}

	return comments, nil
}

// Delete removes a comment
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "comment.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("comments")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete comment")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete comment")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("comment %s not found", id))
	}

	return nil
}
