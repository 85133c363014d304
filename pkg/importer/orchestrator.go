// Package importer drives the row-by-row import of extracted thesis records.
// The orchestrator is a resumable state machine: whenever a call is needed
// that only the operator can make, it yields a DecisionRequest and suspends
// until a Decision is injected.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/extraction"
	"github.com/d-krupke/thesis-manager/pkg/matching"
	"github.com/d-krupke/thesis-manager/pkg/metrics"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

const (
	// confirmedThreshold is the score above which a match is treated as
	// certain without consulting the operator's suggestion list first.
	confirmedThreshold = 0.99

	// maxSuggestions caps how many candidates a choice request offers
	maxSuggestions = 5
)

// RowOutcome is the terminal state of one imported row
type RowOutcome string

const (
	OutcomeImported RowOutcome = "imported"
	OutcomeSkipped  RowOutcome = "skipped"
	OutcomeError    RowOutcome = "error"
	OutcomeDryRun   RowOutcome = "dry_run"
)

// RowResult describes what happened to one row
type RowResult struct {
	Outcome            RowOutcome
	Reason             string
	Thesis             *models.Thesis
	Student            *models.Student
	SupervisorIDs      []string
	CreatedStudent     bool
	CreatedSupervisors int
	Duplicates         []matching.ThesisMatch
	Warnings           []string
}

// Orchestrator resolves extracted rows against existing records and creates
// the missing ones.
type Orchestrator struct {
	storage Storage
	cache   *CandidateCache
	matcher *matching.Matcher
	logger  ectologger.Logger
}

// NewOrchestrator creates a new import orchestrator
func NewOrchestrator(storage Storage, cache *CandidateCache, matcher *matching.Matcher, logger ectologger.Logger) *Orchestrator {
	return &Orchestrator{
		storage: storage,
		cache:   cache,
		matcher: matcher,
		logger:  logger,
	}
}

// Session is the resumable import of one extracted row
type Session struct {
	orch   *Orchestrator
	info   *extraction.ThesisInfo
	dryRun bool

	pending *DecisionRequest
	result  *RowResult

	studentSuggestions []matching.Match[models.Student]
	student            *models.Student
	createdStudent     bool
	wouldCreateStudent bool

	supIndex               int
	supSuggestions         []matching.Match[models.Supervisor]
	supervisorIDs          []string
	createdSupervisors     int
	wouldCreateSupervisors int

	duplicates []matching.ThesisMatch
	warnings   []string
}

// Begin starts a session for one extracted row. It returns the first pending
// decision, or nil if the session already ran to completion.
func (o *Orchestrator) Begin(ctx context.Context, info *extraction.ThesisInfo, dryRun bool) (*Session, *DecisionRequest, error) {
	if err := info.Validate(); err != nil {
		return nil, nil, err
	}

	s := &Session{
		orch:     o,
		info:     info,
		dryRun:   dryRun,
		warnings: append([]string{}, info.Warnings...),
	}

	req, err := s.resolveStudent(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s, req, nil
}

// Pending returns the decision the session is waiting on, if any
func (s *Session) Pending() *DecisionRequest {
	return s.pending
}

// Result returns the terminal result once the session has finished
func (s *Session) Result() *RowResult {
	return s.result
}

// Resume answers the pending decision and advances the session to the next
// decision point or to completion.
func (s *Session) Resume(ctx context.Context, decision Decision) (*DecisionRequest, error) {
	if s.pending == nil {
		return nil, fmt.Errorf("session has no pending decision")
	}

	req := s.pending
	s.pending = nil
	metrics.RecordImportDecision(string(req.Kind), decisionLabel(req, decision))

	switch req.Kind {
	case DecisionConfirmStudent:
		return s.resumeConfirmStudent(ctx, decision)
	case DecisionChooseStudent:
		return s.resumeChooseStudent(ctx, decision)
	case DecisionCreateStudent:
		return s.resumeCreateStudent(ctx, decision)
	case DecisionConfirmSupervisor:
		return s.resumeConfirmSupervisor(ctx, req.SupervisorIndex, decision)
	case DecisionChooseSupervisor:
		return s.resumeChooseSupervisor(ctx, req.SupervisorIndex, decision)
	case DecisionCreateSupervisor:
		return s.resumeCreateSupervisor(ctx, req.SupervisorIndex, decision)
	case DecisionContinueWithoutSupervisors:
		if !decision.Approved {
			return s.finish(OutcomeSkipped, "no supervisors assigned"), nil
		}
		return s.checkDuplicates(ctx)
	case DecisionConfirmDuplicate:
		if !decision.Approved {
			return s.finish(OutcomeSkipped, "possible duplicate"), nil
		}
		return s.confirmCreate(ctx)
	case DecisionCreateThesis:
		if !decision.Approved {
			return s.finish(OutcomeSkipped, "thesis not created"), nil
		}
		return s.createThesis(ctx)
	default:
		return nil, fmt.Errorf("unknown decision kind %q", req.Kind)
	}
}

// yield records the pending request and hands it to the caller
func (s *Session) yield(req *DecisionRequest) *DecisionRequest {
	s.pending = req
	return req
}

func (s *Session) finish(outcome RowOutcome, reason string) *DecisionRequest {
	s.result = &RowResult{
		Outcome:            outcome,
		Reason:             reason,
		Student:            s.student,
		SupervisorIDs:      s.supervisorIDs,
		CreatedStudent:     s.createdStudent,
		CreatedSupervisors: s.createdSupervisors,
		Duplicates:         s.duplicates,
		Warnings:           s.warnings,
	}
	metrics.RecordImportRow(string(outcome))
	return nil
}

func (s *Session) warnf(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// --- student resolution ---

func (s *Session) resolveStudent(ctx context.Context) (*DecisionRequest, error) {
	students, err := s.orch.cache.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	student := s.info.Student
	s.studentSuggestions = s.orch.matcher.MatchStudents(student.FirstName, student.LastName, student.Email, student.StudentID, students)
	for _, m := range s.studentSuggestions {
		metrics.RecordMatchScore("student", m.Score)
	}

	if len(s.studentSuggestions) > 0 && s.studentSuggestions[0].Score >= confirmedThreshold {
		match := s.studentSuggestions[0].Candidate
		return s.yield(&DecisionRequest{
			Kind:               DecisionConfirmStudent,
			Prompt:             fmt.Sprintf("Found exact match: %s (%s). Use this student?", match.FullName(), match.Email),
			Default:            true,
			StudentSuggestions: s.studentSuggestions,
		}), nil
	}

	return s.offerStudentSuggestions()
}

func (s *Session) offerStudentSuggestions() (*DecisionRequest, error) {
	if len(s.studentSuggestions) == 0 {
		return s.askCreateStudent()
	}

	suggestions := s.studentSuggestions
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	options := make([]string, 0, len(suggestions))
	for _, m := range suggestions {
		options = append(options, matching.FormatStudentDisplay(m.Candidate, m.Score))
	}

	return s.yield(&DecisionRequest{
		Kind:               DecisionChooseStudent,
		Prompt:             "Which student to use?",
		Options:            options,
		StudentSuggestions: suggestions,
	}), nil
}

func (s *Session) askCreateStudent() (*DecisionRequest, error) {
	return s.yield(&DecisionRequest{
		Kind:    DecisionCreateStudent,
		Prompt:  fmt.Sprintf("Create new student: %s?", s.info.Student),
		Default: true,
	}), nil
}

func (s *Session) resumeConfirmStudent(ctx context.Context, decision Decision) (*DecisionRequest, error) {
	if decision.Approved {
		s.student = &s.studentSuggestions[0].Candidate
		return s.nextSupervisor(ctx)
	}
	return s.offerStudentSuggestions()
}

func (s *Session) resumeChooseStudent(ctx context.Context, decision Decision) (*DecisionRequest, error) {
	if decision.Choice >= 0 && decision.Choice < len(s.studentSuggestions) {
		s.student = &s.studentSuggestions[decision.Choice].Candidate
		return s.nextSupervisor(ctx)
	}
	return s.askCreateStudent()
}

func (s *Session) resumeCreateStudent(ctx context.Context, decision Decision) (*DecisionRequest, error) {
	if !decision.Approved {
		return s.finish(OutcomeSkipped, "student not created"), nil
	}

	if s.dryRun {
		s.wouldCreateStudent = true
		return s.nextSupervisor(ctx)
	}

	info := s.info.Student
	email := info.Email
	if email == "" {
		email = placeholderEmail(info.FirstName, info.LastName)
		s.warnf("no email for student, using placeholder: %s", email)
		s.orch.logger.WithContext(ctx).Warnf("No email provided for student, using placeholder: %s", email)
	}

	req := models.CreateStudentRequest{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     email,
	}
	if info.StudentID != "" {
		req.StudentID = &info.StudentID
	}

	created, err := s.orch.storage.CreateStudent(ctx, req)
	if err != nil {
		s.orch.logger.WithContext(ctx).WithError(err).Error("Failed to create student")
		s.finish(OutcomeError, fmt.Sprintf("failed to create student: %v", err))
		return nil, nil
	}

	s.orch.cache.AppendStudent(*created)
	s.student = created
	s.createdStudent = true
	return s.nextSupervisor(ctx)
}

// --- supervisor resolution ---

func (s *Session) nextSupervisor(ctx context.Context) (*DecisionRequest, error) {
	if s.supIndex >= len(s.info.Supervisors) {
		return s.finishSupervisors(ctx)
	}

	supervisors, err := s.orch.cache.Supervisors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}

	info := s.info.Supervisors[s.supIndex]
	s.supSuggestions = s.orch.matcher.MatchSupervisors(info.FirstName, info.LastName, info.Email, supervisors)
	for _, m := range s.supSuggestions {
		metrics.RecordMatchScore("supervisor", m.Score)
	}

	if len(s.supSuggestions) > 0 && s.supSuggestions[0].Score >= confirmedThreshold {
		match := s.supSuggestions[0].Candidate
		return s.yield(&DecisionRequest{
			Kind:                  DecisionConfirmSupervisor,
			Prompt:                fmt.Sprintf("Found exact match: %s (%s). Use this supervisor?", match.FullName(), match.Email),
			Default:               true,
			SupervisorIndex:       s.supIndex,
			SupervisorSuggestions: s.supSuggestions,
		}), nil
	}

	return s.offerSupervisorSuggestions()
}

func (s *Session) offerSupervisorSuggestions() (*DecisionRequest, error) {
	if len(s.supSuggestions) == 0 {
		return s.askCreateSupervisor()
	}

	suggestions := s.supSuggestions
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	options := make([]string, 0, len(suggestions))
	for _, m := range suggestions {
		options = append(options, matching.FormatSupervisorDisplay(m.Candidate, m.Score))
	}

	return s.yield(&DecisionRequest{
		Kind:                  DecisionChooseSupervisor,
		Prompt:                "Which supervisor to use?",
		Options:               options,
		SupervisorIndex:       s.supIndex,
		SupervisorSuggestions: suggestions,
	}), nil
}

func (s *Session) askCreateSupervisor() (*DecisionRequest, error) {
	return s.yield(&DecisionRequest{
		Kind:            DecisionCreateSupervisor,
		Prompt:          fmt.Sprintf("Create new supervisor: %s?", s.info.Supervisors[s.supIndex]),
		Default:         true,
		SupervisorIndex: s.supIndex,
	}), nil
}

func (s *Session) resumeConfirmSupervisor(ctx context.Context, index int, decision Decision) (*DecisionRequest, error) {
	if decision.Approved {
		s.supervisorIDs = append(s.supervisorIDs, s.supSuggestions[0].Candidate.ID)
		s.supIndex = index + 1
		return s.nextSupervisor(ctx)
	}
	return s.offerSupervisorSuggestions()
}

func (s *Session) resumeChooseSupervisor(ctx context.Context, index int, decision Decision) (*DecisionRequest, error) {
	if decision.Choice >= 0 && decision.Choice < len(s.supSuggestions) {
		s.supervisorIDs = append(s.supervisorIDs, s.supSuggestions[decision.Choice].Candidate.ID)
		s.supIndex = index + 1
		return s.nextSupervisor(ctx)
	}
	return s.askCreateSupervisor()
}

func (s *Session) resumeCreateSupervisor(ctx context.Context, index int, decision Decision) (*DecisionRequest, error) {
	s.supIndex = index + 1

	if !decision.Approved {
		s.warnf("supervisor %s dropped", s.info.Supervisors[index])
		return s.nextSupervisor(ctx)
	}

	if s.dryRun {
		s.wouldCreateSupervisors++
		return s.nextSupervisor(ctx)
	}

	info := s.info.Supervisors[index]
	email := info.Email
	if email == "" {
		email = placeholderEmail(info.FirstName, info.LastName)
		s.warnf("no email for supervisor, using placeholder: %s", email)
		s.orch.logger.WithContext(ctx).Warnf("No email provided for supervisor, using placeholder: %s", email)
	}

	req := models.CreateSupervisorRequest{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     email,
	}
	if info.Role != "" {
		req.Comments = fmt.Sprintf("Role: %s", info.Role)
	}

	created, err := s.orch.storage.CreateSupervisor(ctx, req)
	if err != nil {
		// a failed supervisor is dropped, not fatal to the row
		s.orch.logger.WithContext(ctx).WithError(err).Warn("Failed to create supervisor, continuing without")
		s.warnf("failed to create supervisor %s", info)
		return s.nextSupervisor(ctx)
	}

	s.orch.cache.AppendSupervisor(*created)
	s.supervisorIDs = append(s.supervisorIDs, created.ID)
	s.createdSupervisors++
	return s.nextSupervisor(ctx)
}

func (s *Session) finishSupervisors(ctx context.Context) (*DecisionRequest, error) {
	if len(s.supervisorIDs) == 0 && s.wouldCreateSupervisors == 0 {
		return s.yield(&DecisionRequest{
			Kind:    DecisionContinueWithoutSupervisors,
			Prompt:  "No supervisors assigned. Continue without supervisors?",
			Default: true,
		}), nil
	}
	return s.checkDuplicates(ctx)
}

// --- duplicate check and creation ---

func (s *Session) checkDuplicates(ctx context.Context) (*DecisionRequest, error) {
	theses, err := s.orch.cache.Theses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list theses: %w", err)
	}

	if s.student == nil {
		// Only in dry run: the student would have been created. Without an
		// existing student the overlap component is undefined and every
		// thesis of the same type would score as a duplicate.
		s.warnf("skipping duplicate check, student does not exist yet")
		return s.confirmCreate(ctx)
	}

	s.duplicates = s.orch.matcher.MatchTheses(s.info.ThesisType, s.info.Title, []string{s.student.ID}, theses)
	if len(s.duplicates) == 0 {
		return s.confirmCreate(ctx)
	}

	for _, m := range s.duplicates {
		metrics.RecordMatchScore("thesis", m.Score)
	}

	return s.yield(&DecisionRequest{
		Kind:          DecisionConfirmDuplicate,
		Prompt:        "Similar theses found. This might be a duplicate. Continue anyway?",
		Default:       false,
		ThesisMatches: s.duplicates,
	}), nil
}

func (s *Session) confirmCreate(ctx context.Context) (*DecisionRequest, error) {
	if s.dryRun {
		return s.finish(OutcomeDryRun, "dry run, nothing created"), nil
	}

	return s.yield(&DecisionRequest{
		Kind:    DecisionCreateThesis,
		Prompt:  fmt.Sprintf("Create thesis [%s] %s?", s.info.ThesisType, titleOrUntitled(s.info.Title)),
		Default: true,
	}), nil
}

func (s *Session) createThesis(ctx context.Context) (*DecisionRequest, error) {
	if s.student == nil {
		s.finish(OutcomeError, "no student resolved")
		return nil, nil
	}

	req := models.CreateThesisRequest{
		Title:            titleOrUntitled(s.info.Title),
		ThesisType:       s.info.ThesisType,
		Phase:            s.info.Phase,
		StudentIDs:       []string{s.student.ID},
		SupervisorIDs:    s.supervisorIDs,
		DateFirstContact: s.info.DateFirstContact,
		DateRegistration: s.info.DateRegistration,
		DateDeadline:     s.info.DateDeadline,
		DatePresentation: s.info.DatePresentation,
		Description:      s.info.Description,
		TaskDescription:  s.info.TaskDescription,
	}

	created, err := s.orch.storage.CreateThesis(ctx, req)
	if err != nil {
		s.orch.logger.WithContext(ctx).WithError(err).Error("Failed to create thesis")
		s.finish(OutcomeError, fmt.Sprintf("failed to create thesis: %v", err))
		return nil, nil
	}

	s.orch.cache.AppendThesis(*created)
	s.finish(OutcomeImported, "")
	s.result.Thesis = created
	return nil, nil
}

// ImportRow runs a full session, pulling decisions from the decider
func (o *Orchestrator) ImportRow(ctx context.Context, info *extraction.ThesisInfo, dryRun bool, decider Decider) (*RowResult, error) {
	session, req, err := o.Begin(ctx, info, dryRun)
	if err != nil {
		return nil, err
	}

	for req != nil {
		decision, err := decider.Decide(ctx, req)
		if err != nil {
			return nil, err
		}
		req, err = session.Resume(ctx, decision)
		if err != nil {
			return nil, err
		}
	}

	return session.Result(), nil
}

func placeholderEmail(firstName, lastName string) string {
	first := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(firstName), " ", ""))
	last := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lastName), " ", ""))
	return fmt.Sprintf("%s.%s@example.com", first, last)
}

func titleOrUntitled(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}

func decisionLabel(req *DecisionRequest, decision Decision) string {
	switch req.Kind {
	case DecisionChooseStudent, DecisionChooseSupervisor:
		if decision.Choice >= 0 {
			return "chosen"
		}
		return "none"
	default:
		if decision.Approved {
			return "yes"
		}
		return "no"
	}
}
