package importer

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// CandidateCache lazily fetches the full candidate lists once per batch and
// keeps them current as the batch creates new records. Rows are processed
// sequentially by a single writer, so no locking is needed; freshly created
// identities must be appended so later rows in the same batch can match them.
type CandidateCache struct {
	storage Storage
	logger  ectologger.Logger

	students      []models.Student
	studentsOK    bool
	supervisors   []models.Supervisor
	supervisorsOK bool
	theses        []models.Thesis
	thesesOK      bool
}

// NewCandidateCache creates a cache over the given storage
func NewCandidateCache(storage Storage, logger ectologger.Logger) *CandidateCache {
	return &CandidateCache{
		storage: storage,
		logger:  logger,
	}
}

// Students returns all students, fetching them on first use
func (c *CandidateCache) Students(ctx context.Context) ([]models.Student, error) {
	if !c.studentsOK {
		c.logger.WithContext(ctx).Info("Fetching all students")
		students, err := c.storage.ListStudents(ctx)
		if err != nil {
			return nil, err
		}
		c.students = students
		c.studentsOK = true
		c.logger.WithContext(ctx).WithField("count", len(students)).Debug("Cached students")
	}
	return c.students, nil
}

// Supervisors returns all supervisors, fetching them on first use
func (c *CandidateCache) Supervisors(ctx context.Context) ([]models.Supervisor, error) {
	if !c.supervisorsOK {
		c.logger.WithContext(ctx).Info("Fetching all supervisors")
		supervisors, err := c.storage.ListSupervisors(ctx)
		if err != nil {
			return nil, err
		}
		c.supervisors = supervisors
		c.supervisorsOK = true
		c.logger.WithContext(ctx).WithField("count", len(supervisors)).Debug("Cached supervisors")
	}
	return c.supervisors, nil
}

// Theses returns all theses, fetching them on first use
func (c *CandidateCache) Theses(ctx context.Context) ([]models.Thesis, error) {
	if !c.thesesOK {
		c.logger.WithContext(ctx).Info("Fetching all theses")
		theses, err := c.storage.ListTheses(ctx)
		if err != nil {
			return nil, err
		}
		c.theses = theses
		c.thesesOK = true
		c.logger.WithContext(ctx).WithField("count", len(theses)).Debug("Cached theses")
	}
	return c.theses, nil
}

// AppendStudent records a newly created student
func (c *CandidateCache) AppendStudent(student models.Student) {
	if c.studentsOK {
		c.students = append(c.students, student)
	}
}

// AppendSupervisor records a newly created supervisor
func (c *CandidateCache) AppendSupervisor(supervisor models.Supervisor) {
	if c.supervisorsOK {
		c.supervisors = append(c.supervisors, supervisor)
	}
}

// AppendThesis records a newly created thesis
func (c *CandidateCache) AppendThesis(thesis models.Thesis) {
	if c.thesesOK {
		c.theses = append(c.theses, thesis)
	}
}

// Invalidate drops all cached lists so the next access refetches
func (c *CandidateCache) Invalidate() {
	c.students = nil
	c.studentsOK = false
	c.supervisors = nil
	c.supervisorsOK = false
	c.theses = nil
	c.thesesOK = false
	c.logger.Debug("Cleared candidate caches")
}
