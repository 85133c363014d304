package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/extraction"
	"github.com/d-krupke/thesis-manager/pkg/matching"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

type fakeStorage struct {
	students    []models.Student
	supervisors []models.Supervisor
	theses      []models.Thesis

	failStudentCreate    bool
	failSupervisorCreate bool
	failThesisCreate     bool

	createdStudents    int
	createdSupervisors int
	createdTheses      int
}

func (f *fakeStorage) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeStorage) ListSupervisors(ctx context.Context) ([]models.Supervisor, error) {
	return f.supervisors, nil
}

func (f *fakeStorage) ListTheses(ctx context.Context) ([]models.Thesis, error) {
	return f.theses, nil
}

func (f *fakeStorage) CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if f.failStudentCreate {
		return nil, fmt.Errorf("create student failed")
	}
	f.createdStudents++
	student := models.Student{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		StudentID: req.StudentID,
	}
	f.students = append(f.students, student)
	return &student, nil
}

func (f *fakeStorage) CreateSupervisor(ctx context.Context, req models.CreateSupervisorRequest) (*models.Supervisor, error) {
	if f.failSupervisorCreate {
		return nil, fmt.Errorf("create supervisor failed")
	}
	f.createdSupervisors++
	supervisor := models.Supervisor{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Comments:  req.Comments,
	}
	f.supervisors = append(f.supervisors, supervisor)
	return &supervisor, nil
}

func (f *fakeStorage) CreateThesis(ctx context.Context, req models.CreateThesisRequest) (*models.Thesis, error) {
	if f.failThesisCreate {
		return nil, fmt.Errorf("create thesis failed")
	}
	f.createdTheses++
	thesis := models.Thesis{
		ID:         uuid.New().String(),
		Title:      req.Title,
		ThesisType: req.ThesisType,
		Phase:      req.Phase,
	}
	for _, id := range req.StudentIDs {
		thesis.Students = append(thesis.Students, models.Student{ID: id})
	}
	for _, id := range req.SupervisorIDs {
		thesis.Supervisors = append(thesis.Supervisors, models.Supervisor{ID: id})
	}
	f.theses = append(f.theses, thesis)
	return &thesis, nil
}

func newTestOrchestrator(storage *fakeStorage) *Orchestrator {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	cache := NewCandidateCache(storage, logger)
	matcher := matching.NewMatcher(matching.DefaultConfig())
	return NewOrchestrator(storage, cache, matcher, logger)
}

func rowInfo(firstName, lastName, email string) *extraction.ThesisInfo {
	return &extraction.ThesisInfo{
		Student: extraction.StudentInfo{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
		},
		ThesisType: models.ThesisTypeBachelor,
		Title:      "Graph Coloring Heuristics",
		Phase:      models.PhaseWorking,
	}
}

func TestImportRowExactEmailMatch(t *testing.T) {
	storage := &fakeStorage{
		students: []models.Student{
			{ID: uuid.New().String(), FirstName: "Anna", LastName: "Schmidt", Email: "anna.schmidt@tu-bs.de"},
		},
	}
	orch := newTestOrchestrator(storage)

	info := rowInfo("Ana", "Schmitt", "anna.schmidt@tu-bs.de")
	result, err := orch.ImportRow(context.Background(), info, false, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeImported, result.Outcome)
	assert.False(t, result.CreatedStudent)
	assert.Equal(t, 0, storage.createdStudents)
	assert.Equal(t, 1, storage.createdTheses)
	require.NotNil(t, result.Student)
	assert.Equal(t, storage.students[0].ID, result.Student.ID)
}

func TestImportRowCreatesStudentWithPlaceholderEmail(t *testing.T) {
	storage := &fakeStorage{}
	orch := newTestOrchestrator(storage)

	info := rowInfo("Max", "Mustermann", "")
	result, err := orch.ImportRow(context.Background(), info, false, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeImported, result.Outcome)
	assert.True(t, result.CreatedStudent)
	require.Equal(t, 1, storage.createdStudents)
	assert.Equal(t, "max.mustermann@example.com", storage.students[0].Email)
	assert.NotEmpty(t, result.Warnings)
}

func TestImportRowChooseSuggestedStudent(t *testing.T) {
	existing := models.Student{
		ID: uuid.New().String(), FirstName: "Jon", LastName: "Smith", Email: "jon.smith@tu-bs.de",
	}
	storage := &fakeStorage{students: []models.Student{existing}}
	orch := newTestOrchestrator(storage)

	decider := DeciderFunc(func(ctx context.Context, req *DecisionRequest) (Decision, error) {
		if req.Kind == DecisionChooseStudent {
			return Decision{Choice: 0}, nil
		}
		return Decision{Approved: true}, nil
	})

	// similar but not exact, no matching email
	info := rowInfo("John", "Smith", "")
	result, err := orch.ImportRow(context.Background(), info, false, decider)
	require.NoError(t, err)

	assert.Equal(t, OutcomeImported, result.Outcome)
	assert.Equal(t, 0, storage.createdStudents)
	require.NotNil(t, result.Student)
	assert.Equal(t, existing.ID, result.Student.ID)
}

func TestImportRowStudentCreateRejected(t *testing.T) {
	storage := &fakeStorage{}
	orch := newTestOrchestrator(storage)

	decider := DeciderFunc(func(ctx context.Context, req *DecisionRequest) (Decision, error) {
		if req.Kind == DecisionCreateStudent {
			return Decision{Approved: false}, nil
		}
		return Decision{Approved: true}, nil
	})

	result, err := orch.ImportRow(context.Background(), rowInfo("Max", "Mustermann", ""), false, decider)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "student not created", result.Reason)
	assert.Equal(t, 0, storage.createdTheses)
}

func TestImportRowSupervisorCreateFailureIsDropped(t *testing.T) {
	storage := &fakeStorage{failSupervisorCreate: true}
	orch := newTestOrchestrator(storage)

	info := rowInfo("Max", "Mustermann", "max@tu-bs.de")
	info.Supervisors = []extraction.SupervisorInfo{
		{FirstName: "Petra", LastName: "Meier", Role: "Advisor"},
	}

	result, err := orch.ImportRow(context.Background(), info, false, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeImported, result.Outcome)
	assert.Empty(t, result.SupervisorIDs)
	assert.Equal(t, 0, result.CreatedSupervisors)
	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, 1, storage.createdTheses)
}

func TestImportRowSupervisorRoleBecomesComment(t *testing.T) {
	storage := &fakeStorage{}
	orch := newTestOrchestrator(storage)

	info := rowInfo("Max", "Mustermann", "max@tu-bs.de")
	info.Supervisors = []extraction.SupervisorInfo{
		{FirstName: "Petra", LastName: "Meier", Email: "p.meier@tu-bs.de", Role: "Second examiner"},
	}

	result, err := orch.ImportRow(context.Background(), info, false, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeImported, result.Outcome)
	require.Equal(t, 1, storage.createdSupervisors)
	assert.Equal(t, "Role: Second examiner", storage.supervisors[0].Comments)
	assert.Len(t, result.SupervisorIDs, 1)
}

func TestImportRowContinueWithoutSupervisorsDeclined(t *testing.T) {
	storage := &fakeStorage{}
	orch := newTestOrchestrator(storage)

	decider := DeciderFunc(func(ctx context.Context, req *DecisionRequest) (Decision, error) {
		if req.Kind == DecisionContinueWithoutSupervisors {
			return Decision{Approved: false}, nil
		}
		return Decision{Approved: true}, nil
	})

	result, err := orch.ImportRow(context.Background(), rowInfo("Max", "Mustermann", "max@tu-bs.de"), false, decider)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "no supervisors assigned", result.Reason)
	assert.Equal(t, 0, storage.createdTheses)
}

func TestImportRowDuplicateDetection(t *testing.T) {
	studentID := uuid.New().String()
	storage := &fakeStorage{
		students: []models.Student{
			{ID: studentID, FirstName: "Anna", LastName: "Schmidt", Email: "anna@tu-bs.de"},
		},
		theses: []models.Thesis{
			{
				ID:         uuid.New().String(),
				Title:      "Graph Coloring Heuristics",
				ThesisType: models.ThesisTypeBachelor,
				Phase:      models.PhaseWorking,
				Students:   []models.Student{{ID: studentID}},
			},
		},
	}
	orch := newTestOrchestrator(storage)

	t.Run("rejected duplicate is skipped", func(t *testing.T) {
		decider := DeciderFunc(func(ctx context.Context, req *DecisionRequest) (Decision, error) {
			if req.Kind == DecisionConfirmDuplicate {
				return Decision{Approved: false}, nil
			}
			return Decision{Approved: true}, nil
		})

		result, err := orch.ImportRow(context.Background(), rowInfo("Anna", "Schmidt", "anna@tu-bs.de"), false, decider)
		require.NoError(t, err)

		assert.Equal(t, OutcomeSkipped, result.Outcome)
		assert.Equal(t, "possible duplicate", result.Reason)
		assert.NotEmpty(t, result.Duplicates)
		assert.Equal(t, 0, storage.createdTheses)
	})

	t.Run("default decider proceeds past the warning", func(t *testing.T) {
		result, err := orch.ImportRow(context.Background(), rowInfo("Anna", "Schmidt", "anna@tu-bs.de"), false, DefaultDecider())
		require.NoError(t, err)

		assert.Equal(t, OutcomeImported, result.Outcome)
		assert.NotEmpty(t, result.Duplicates)
		assert.Equal(t, 1, storage.createdTheses)
	})
}

func TestImportRowDifferentTypeIsNoDuplicate(t *testing.T) {
	studentID := uuid.New().String()
	storage := &fakeStorage{
		students: []models.Student{
			{ID: studentID, FirstName: "Anna", LastName: "Schmidt", Email: "anna@tu-bs.de"},
		},
		theses: []models.Thesis{
			{
				ID:         uuid.New().String(),
				Title:      "Graph Coloring Heuristics",
				ThesisType: models.ThesisTypeMaster,
				Students:   []models.Student{{ID: studentID}},
			},
		},
	}
	orch := newTestOrchestrator(storage)

	result, err := orch.ImportRow(context.Background(), rowInfo("Anna", "Schmidt", "anna@tu-bs.de"), false, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeImported, result.Outcome)
	assert.Empty(t, result.Duplicates)
}

func TestImportRowDryRunCreatesNothing(t *testing.T) {
	storage := &fakeStorage{}
	orch := newTestOrchestrator(storage)

	info := rowInfo("Max", "Mustermann", "")
	info.Supervisors = []extraction.SupervisorInfo{
		{FirstName: "Petra", LastName: "Meier"},
	}

	result, err := orch.ImportRow(context.Background(), info, true, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDryRun, result.Outcome)
	assert.Equal(t, 0, storage.createdStudents)
	assert.Equal(t, 0, storage.createdSupervisors)
	assert.Equal(t, 0, storage.createdTheses)
}

func TestImportRowDryRunNewStudentSkipsDuplicateCheck(t *testing.T) {
	// the existing thesis shares only the type with the row
	storage := &fakeStorage{
		theses: []models.Thesis{
			{
				ID:         uuid.New().String(),
				Title:      "Completely Unrelated Topic",
				ThesisType: models.ThesisTypeBachelor,
				Students:   []models.Student{{ID: uuid.New().String()}},
			},
		},
	}
	orch := newTestOrchestrator(storage)

	decider := DeciderFunc(func(ctx context.Context, req *DecisionRequest) (Decision, error) {
		if req.Kind == DecisionConfirmDuplicate {
			return Decision{Approved: false}, nil
		}
		return Decision{Approved: true}, nil
	})

	result, err := orch.ImportRow(context.Background(), rowInfo("Max", "Mustermann", ""), true, decider)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDryRun, result.Outcome)
	assert.Empty(t, result.Duplicates)
	assert.NotEmpty(t, result.Warnings)
}

func TestImportRowThesisCreateFailure(t *testing.T) {
	storage := &fakeStorage{failThesisCreate: true}
	orch := newTestOrchestrator(storage)

	result, err := orch.ImportRow(context.Background(), rowInfo("Max", "Mustermann", "max@tu-bs.de"), false, DefaultDecider())
	require.NoError(t, err)

	assert.Equal(t, OutcomeError, result.Outcome)
	assert.Contains(t, result.Reason, "failed to create thesis")
}

func TestImportRowMissingNameFails(t *testing.T) {
	orch := newTestOrchestrator(&fakeStorage{})

	_, _, err := orch.Begin(context.Background(), rowInfo("", "Mustermann", ""), false)
	assert.Error(t, err)
}

func TestCacheAppendsAfterCreate(t *testing.T) {
	storage := &fakeStorage{}
	orch := newTestOrchestrator(storage)

	result, err := orch.ImportRow(context.Background(), rowInfo("Anna", "Schmidt", "anna@tu-bs.de"), false, DefaultDecider())
	require.NoError(t, err)
	require.Equal(t, OutcomeImported, result.Outcome)

	// second identical row must see the first one as both an exact student
	// match and a duplicate thesis, without refetching
	storage.students = nil
	storage.theses = nil

	second, err := orch.ImportRow(context.Background(), rowInfo("Anna", "Schmidt", "anna@tu-bs.de"), false, DefaultDecider())
	require.NoError(t, err)

	assert.False(t, second.CreatedStudent)
	assert.NotEmpty(t, second.Duplicates)
}
