package thesis

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

var columns = []string{
	"id", "title", "thesis_type", "phase",
	"date_first_contact", "date_topic_selected", "date_registration", "date_deadline",
	"date_presentation", "date_review", "date_final_discussion",
	"git_repository", "description", "task_description", "review",
	"created_at", "updated_at",
}

// Repository handles thesis persistence including the student and supervisor
// assignment tables.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new thesis repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a thesis and its assignments in one transaction
func (r *Repository) Create(ctx context.Context, req models.CreateThesisRequest) (*models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.Create")
	defer span.End()

	thesis := models.Thesis{
		ID:                  uuid.New().String(),
		Title:               req.Title,
		ThesisType:          req.ThesisType,
		Phase:               req.Phase,
		DateFirstContact:    req.DateFirstContact,
		DateTopicSelected:   req.DateTopicSelected,
		DateRegistration:    req.DateRegistration,
		DateDeadline:        req.DateDeadline,
		DatePresentation:    req.DatePresentation,
		DateReview:          req.DateReview,
		DateFinalDiscussion: req.DateFinalDiscussion,
		GitRepository:       req.GitRepository,
		Description:         req.Description,
		TaskDescription:     req.TaskDescription,
		Review:              req.Review,
	}
	thesis.CreatedAt = time.Now().UTC()
	thesis.UpdatedAt = thesis.CreatedAt

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("theses")
	sb.Cols(columns...)
	sb.Values(
		thesis.ID, thesis.Title, thesis.ThesisType, thesis.Phase,
		thesis.DateFirstContact, thesis.DateTopicSelected, thesis.DateRegistration, thesis.DateDeadline,
		thesis.DatePresentation, thesis.DateReview, thesis.DateFinalDiscussion,
		thesis.GitRepository, thesis.Description, thesis.TaskDescription, thesis.Review,
		thesis.CreatedAt, thesis.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create thesis")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create thesis")
	}

	if err := r.insertAssignments(ctx, tx, thesis.ID, "thesis_students", "student_id", req.StudentIDs); err != nil {
		return nil, err
	}
	if err := r.insertAssignments(ctx, tx, thesis.ID, "thesis_supervisors", "supervisor_id", req.SupervisorIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit thesis creation")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create thesis")
	}

	return r.Get(ctx, thesis.ID)
}

// Get retrieves a thesis with its students and supervisors
func (r *Repository) Get(ctx context.Context, id string) (*models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("theses")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var thesis models.Thesis
	if err := r.db.GetContext(ctx, &thesis, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("thesis %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get thesis")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get thesis")
	}

	if err := r.attachAssignments(ctx, []*models.Thesis{&thesis}); err != nil {
		return nil, err
	}

	return &thesis, nil
}

// List retrieves a page of theses matching the filter, without assignments
func (r *Repository) List(ctx context.Context, filter models.ThesisFilter, page, pageSize int) ([]models.Thesis, int, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	countBuilder := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countBuilder.Select("COUNT(DISTINCT theses.id)")
	applyFilter(countBuilder, filter)

	query, args := countBuilder.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count theses")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list theses")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(prefixed("theses", columns)...)
	applyFilter(sb, filter)
	sb.Distinct()
	sb.OrderBy("theses.created_at DESC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args = sb.Build()
	theses := []models.Thesis{}
	if err := r.db.SelectContext(ctx, &theses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list theses")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list theses")
	}

	return theses, total, nil
}

// ListAll retrieves every thesis with its student assignments for duplicate
// matching during imports.
func (r *Repository) ListAll(ctx context.Context) ([]models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("theses")
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	theses := []models.Thesis{}
	if err := r.db.SelectContext(ctx, &theses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list theses")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list theses")
	}

	refs := make([]*models.Thesis, len(theses))
	for i := range theses {
		refs[i] = &theses[i]
	}
	if err := r.attachAssignments(ctx, refs); err != nil {
		return nil, err
	}

	return theses, nil
}

// ListByStudent retrieves all theses a student is assigned to
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.ListByStudent")
	defer span.End()

	return r.listByAssignment(ctx, "thesis_students", "student_id", studentID)
}

// ListBySupervisor retrieves all theses a supervisor is assigned to
func (r *Repository) ListBySupervisor(ctx context.Context, supervisorID string) ([]models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.ListBySupervisor")
	defer span.End()

	return r.listByAssignment(ctx, "thesis_supervisors", "supervisor_id", supervisorID)
}

// ListActiveWithRepository retrieves working theses that have a git
// repository configured, with assignments attached. The weekly reporter
// iterates over this set.
func (r *Repository) ListActiveWithRepository(ctx context.Context) ([]models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.ListActiveWithRepository")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("theses")
	sb.Where(
		sb.Equal("phase", models.PhaseWorking),
		sb.NotEqual("git_repository", ""),
	)
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	theses := []models.Thesis{}
	if err := r.db.SelectContext(ctx, &theses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list active theses")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list theses")
	}

	refs := make([]*models.Thesis, len(theses))
	for i := range theses {
		refs[i] = &theses[i]
	}
	if err := r.attachAssignments(ctx, refs); err != nil {
		return nil, err
	}

	return theses, nil
}

// Update applies the non-nil fields of the request and replaces assignments
// when the request carries them.
func (r *Repository) Update(ctx context.Context, id string, req models.UpdateThesisRequest) (*models.Thesis, error) {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.Update")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("theses")

	assignments := []string{sb.Assign("updated_at", time.Now().UTC())}
	if req.Title != nil {
		assignments = append(assignments, sb.Assign("title", *req.Title))
	}
	if req.ThesisType != nil {
		assignments = append(assignments, sb.Assign("thesis_type", *req.ThesisType))
	}
	if req.Phase != nil {
		assignments = append(assignments, sb.Assign("phase", *req.Phase))
	}
	if req.DateFirstContact != nil {
		assignments = append(assignments, sb.Assign("date_first_contact", req.DateFirstContact))
	}
	if req.DateTopicSelected != nil {
		assignments = append(assignments, sb.Assign("date_topic_selected", req.DateTopicSelected))
	}
	if req.DateRegistration != nil {
		assignments = append(assignments, sb.Assign("date_registration", req.DateRegistration))
	}
	if req.DateDeadline != nil {
		assignments = append(assignments, sb.Assign("date_deadline", req.DateDeadline))
	}
	if req.DatePresentation != nil {
		assignments = append(assignments, sb.Assign("date_presentation", req.DatePresentation))
	}
	if req.DateReview != nil {
		assignments = append(assignments, sb.Assign("date_review", req.DateReview))
	}
	if req.DateFinalDiscussion != nil {
		assignments = append(assignments, sb.Assign("date_final_discussion", req.DateFinalDiscussion))
	}
	if req.GitRepository != nil {
		assignments = append(assignments, sb.Assign("git_repository", *req.GitRepository))
	}
	if req.Description != nil {
		assignments = append(assignments, sb.Assign("description", *req.Description))
	}
	if req.TaskDescription != nil {
		assignments = append(assignments, sb.Assign("task_description", *req.TaskDescription))
	}
	if req.Review != nil {
		assignments = append(assignments, sb.Assign("review", *req.Review))
	}
	sb.Set(assignments...)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update thesis")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update thesis")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("thesis %s not found", id))
	}

	if req.StudentIDs != nil {
		if err := r.replaceAssignments(ctx, tx, id, "thesis_students", "student_id", *req.StudentIDs); err != nil {
			return nil, err
		}
	}
	if req.SupervisorIDs != nil {
		if err := r.replaceAssignments(ctx, tx, id, "thesis_supervisors", "supervisor_id", *req.SupervisorIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit thesis update")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update thesis")
	}

	return r.Get(ctx, id)
}

// Delete removes a thesis; assignments and comments cascade
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "thesis.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("theses")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete thesis")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete thesis")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("thesis %s not found", id))
	}

	return nil
}

func (r *Repository) listByAssignment(ctx context.Context, table, column, id string) ([]models.Thesis, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(prefixed("theses", columns)...)
	sb.From("theses")
	sb.JoinWithOption(sqlbuilder.InnerJoin, table, fmt.Sprintf("%s.thesis_id = theses.id", table))
	sb.Where(sb.Equal(fmt.Sprintf("%s.%s", table, column), id))
	sb.OrderBy("theses.created_at DESC")

	query, args := sb.Build()
	theses := []models.Thesis{}
	if err := r.db.SelectContext(ctx, &theses, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list theses by assignment")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list theses")
	}

	return theses, nil
}

func (r *Repository) insertAssignments(ctx context.Context, tx database.Tx, thesisID, table, column string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols("thesis_id", column)
	for _, id := range ids {
		sb.Values(thesisID, id)
	}

	query, args := sb.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"table": table}).Error("Failed to insert thesis assignments")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to assign thesis")
	}

	return nil
}

func (r *Repository) replaceAssignments(ctx context.Context, tx database.Tx, thesisID, table, column string, ids []string) error {
	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom(table)
	sb.Where(sb.Equal("thesis_id", thesisID))

	query, args := sb.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"table": table}).Error("Failed to clear thesis assignments")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to assign thesis")
	}

	return r.insertAssignments(ctx, tx, thesisID, table, column, ids)
}

type studentAssignment struct {
	ThesisID string `db:"thesis_id"`
	models.Student
}

type supervisorAssignment struct {
	ThesisID string `db:"thesis_id"`
	models.Supervisor
}

// attachAssignments populates Students and Supervisors for the given theses
// with two queries regardless of how many theses are loaded.
func (r *Repository) attachAssignments(ctx context.Context, theses []*models.Thesis) error {
	if len(theses) == 0 {
		return nil
	}

	ids := make([]string, 0, len(theses))
	byID := make(map[string]*models.Thesis, len(theses))
	for _, t := range theses {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("thesis_students.thesis_id", "students.id", "students.first_name", "students.last_name", "students.email", "students.student_id", "students.comments", "students.created_at", "students.updated_at")
	sb.From("thesis_students")
	sb.JoinWithOption(sqlbuilder.InnerJoin, "students", "students.id = thesis_students.student_id")
	sb.Where(sb.In("thesis_students.thesis_id", sqlbuilder.Flatten(ids)...))
	sb.OrderBy("students.last_name ASC", "students.first_name ASC")

	query, args := sb.Build()
	studentRows := []studentAssignment{}
	if err := r.db.SelectContext(ctx, &studentRows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load thesis students")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to load thesis students")
	}
	for _, row := range studentRows {
		if t, ok := byID[row.ThesisID]; ok {
			t.Students = append(t.Students, row.Student)
		}
	}

	sb = sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("thesis_supervisors.thesis_id", "supervisors.id", "supervisors.first_name", "supervisors.last_name", "supervisors.email", "supervisors.comments", "supervisors.created_at", "supervisors.updated_at")
	sb.From("thesis_supervisors")
	sb.JoinWithOption(sqlbuilder.InnerJoin, "supervisors", "supervisors.id = thesis_supervisors.supervisor_id")
	sb.Where(sb.In("thesis_supervisors.thesis_id", sqlbuilder.Flatten(ids)...))
	sb.OrderBy("supervisors.last_name ASC", "supervisors.first_name ASC")

	query, args = sb.Build()
	supervisorRows := []supervisorAssignment{}
	if err := r.db.SelectContext(ctx, &supervisorRows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load thesis supervisors")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to load thesis supervisors")
	}
	for _, row := range supervisorRows {
		if t, ok := byID[row.ThesisID]; ok {
			t.Supervisors = append(t.Supervisors, row.Supervisor)
		}
	}

	return nil
}

func applyFilter(sb *sqlbuilder.SelectBuilder, filter models.ThesisFilter) {
	sb.From("theses")

	if filter.StudentID != nil {
		sb.JoinWithOption(sqlbuilder.InnerJoin, "thesis_students", "thesis_students.thesis_id = theses.id")
	}
	if filter.SupervisorID != nil {
		sb.JoinWithOption(sqlbuilder.InnerJoin, "thesis_supervisors", "thesis_supervisors.thesis_id = theses.id")
	}

	where := []string{}
	if filter.Phase != nil {
		where = append(where, sb.Equal("theses.phase", *filter.Phase))
	}
	if filter.ThesisType != nil {
		where = append(where, sb.Equal("theses.thesis_type", *filter.ThesisType))
	}
	if filter.StudentID != nil {
		where = append(where, sb.Equal("thesis_students.student_id", *filter.StudentID))
	}
	if filter.SupervisorID != nil {
		where = append(where, sb.Equal("thesis_supervisors.supervisor_id", *filter.SupervisorID))
	}
	if len(where) > 0 {
		sb.Where(where...)
	}
}

func prefixed(table string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = table + "." + c
	}
	return out
}
