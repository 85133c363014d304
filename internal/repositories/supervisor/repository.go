package supervisor

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

var columns = []string{"id", "first_name", "last_name", "email", "comments", "created_at", "updated_at"}

// Repository handles supervisor persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new supervisor repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new supervisor
func (r *Repository) Create(ctx context.Context, req models.CreateSupervisorRequest) (*models.Supervisor, error) {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Repository.Create")
	defer span.End()

	supervisor := models.Supervisor{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Comments:  req.Comments,
	}
	supervisor.CreatedAt = time.Now().UTC()
	supervisor.UpdatedAt = supervisor.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("supervisors")
	sb.Cols(columns...)
	sb.Values(supervisor.ID, supervisor.FirstName, supervisor.LastName, supervisor.Email, supervisor.Comments, supervisor.CreatedAt, supervisor.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"email": req.Email}).Error("Failed to create supervisor")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create supervisor")
	}

	return &supervisor, nil
}

// Get retrieves a supervisor by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Supervisor, error) {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("supervisors")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var supervisor models.Supervisor
	if err := r.db.GetContext(ctx, &supervisor, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("supervisor %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get supervisor")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get supervisor")
	}

	return &supervisor, nil
}

// List retrieves a page of supervisors ordered by name
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]models.Supervisor, int, error) {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM supervisors"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count supervisors")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list supervisors")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("supervisors")
	sb.OrderBy("last_name ASC", "first_name ASC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	supervisors := []models.Supervisor{}
	if err := r.db.SelectContext(ctx, &supervisors, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list supervisors")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list supervisors")
	}

	return supervisors, total, nil
}

// ListAll retrieves every supervisor for matching against import rows
func (r *Repository) ListAll(ctx context.Context) ([]models.Supervisor, error) {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("supervisors")
	sb.OrderBy("last_name ASC", "first_name ASC")

	query, args := sb.Build()
	supervisors := []models.Supervisor{}
	if err := r.db.SelectContext(ctx, &supervisors, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list supervisors")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list supervisors")
	}

	return supervisors, nil
}

// Update applies the non-nil fields of the request
func (r *Repository) Update(ctx context.Context, id string, req models.UpdateSupervisorRequest) (*models.Supervisor, error) {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Repository.Update")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("supervisors")

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
	if req.Comments != nil {
		assignments = append(assignments, sb.Assign("comments", *req.Comments))
	}
	sb.Set(assignments...)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update supervisor")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update supervisor")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("supervisor %s not found", id))
	}

	return r.Get(ctx, id)
}

// Delete removes a supervisor
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("supervisors")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete supervisor")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete supervisor")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("supervisor %s not found", id))
	}

	return nil
}
