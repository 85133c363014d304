package student

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

var columns = []string{"id", "first_name", "last_name", "email", "student_id", "comments", "created_at", "updated_at"}

// Repository handles student persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new student repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new student
func (r *Repository) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	ctx, span := tracing.StartSpan(ctx, "student.Repository.Create")
	defer span.End()

	student := models.Student{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		StudentID: req.StudentID,
		Comments:  req.Comments,
	}
	student.CreatedAt = time.Now().UTC()
	student.UpdatedAt = student.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("students")
	sb.Cols(columns...)
	sb.Values(student.ID, student.FirstName, student.LastName, student.Email, student.StudentID, student.Comments, student.CreatedAt, student.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"email": req.Email}).Error("Failed to create student")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create student")
	}

	return &student, nil
}

// Get retrieves a student by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Student, error) {
	ctx, span := tracing.StartSpan(ctx, "student.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("students")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("student %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get student")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get student")
	}

	return &student, nil
}

// List retrieves a page of students ordered by name
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.Student, int, error) {
	ctx, span := tracing.StartSpan(ctx, "student.Repository.List")
	defer span.End()

	page, pageSize = normalizePage(page, pageSize)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count students")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list students")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("students")
	sb.OrderBy("last_name ASC", "first_name ASC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list students")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list students")
	}

	return students, total, nil
}

// ListAll retrieves every student for matching against import rows
func (r *Repository) ListAll(ctx context.Context) ([]models.Student, error) {
	ctx, span := tracing.StartSpan(ctx, "student.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("students")
	sb.OrderBy("last_name ASC", "first_name ASC")

	query, args := sb.Build()
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list students")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list students")
	}

	return students, nil
}

// Update applies the non-nil fields of the request
func (r *Repository) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	ctx, span := tracing.StartSpan(ctx, "student.Repository.Update")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("students")

	assignments := []string{sb.Assign("updated_at", time.Now().UTC())}
	if req.FirstName != nil {
		assignments = append(assignments, sb.Assign("first_name", *req.FirstName))
	}
	if req.LastName != nil {
		assignments = append(assignments, sb.Assign("last_name", *req.LastName))
	}
	if req.Email != nil {
		assignments = append(assignments, sb.Assign("email", *req.Email))
	}
	if req.StudentID != nil {
		assignments = append(assignments, sb.Assign("student_id", *req.StudentID))
	}
	if req.Comments != nil {
		assignments = append(assignments, sb.Assign("comments", *req.Comments))
	}
	sb.Set(assignments...)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update student")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update student")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("student %s not found", id))
	}

	return r.Get(ctx, id)
}

// Delete removes a student
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "student.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("students")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete student")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete student")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("student %s not found", id))
	}

	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}
	return page, pageSize
}
