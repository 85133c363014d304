package importer

import (
	"context"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// Storage is the persistence surface the import pipeline needs. The REST
// client implements it in production; tests use an in-memory fake. Creates
// are optimistic and non-transactional, duplicate prevention is entirely the
// orchestrator's job.
type Storage interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListSupervisors(ctx context.Context) ([]models.Supervisor, error)
	ListTheses(ctx context.Context) ([]models.Thesis, error)
	CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error)
	CreateSupervisor(ctx context.Context, req models.CreateSupervisorRequest) (*models.Supervisor, error)
	CreateThesis(ctx context.Context, req models.CreateThesisRequest) (*models.Thesis, error)
}
