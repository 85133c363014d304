package importer

import (
	"context"

	"github.com/d-krupke/thesis-manager/pkg/matching"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

// DecisionKind identifies what the orchestrator is asking for
type DecisionKind string

const (
	// DecisionConfirmStudent asks whether to use an exact student match
	DecisionConfirmStudent DecisionKind = "confirm_student"
	// DecisionChooseStudent asks to pick one of the suggested students
	DecisionChooseStudent DecisionKind = "choose_student"
	// DecisionCreateStudent asks whether to create a new student
	DecisionCreateStudent DecisionKind = "create_student"
	// DecisionConfirmSupervisor asks whether to use an exact supervisor match
	DecisionConfirmSupervisor DecisionKind = "confirm_supervisor"
	// DecisionChooseSupervisor asks to pick one of the suggested supervisors
	DecisionChooseSupervisor DecisionKind = "choose_supervisor"
	// DecisionCreateSupervisor asks whether to create a new supervisor
	DecisionCreateSupervisor DecisionKind = "create_supervisor"
	// DecisionContinueWithoutSupervisors asks whether to proceed with none
	DecisionContinueWithoutSupervisors DecisionKind = "continue_without_supervisors"
	// DecisionConfirmDuplicate asks whether to proceed despite similar theses
	DecisionConfirmDuplicate DecisionKind = "confirm_duplicate"
	// DecisionCreateThesis asks for the final go-ahead
	DecisionCreateThesis DecisionKind = "create_thesis"
)

// DecisionRequest is yielded by the orchestrator whenever it needs a call
// that only the operator can make. Choice kinds carry Options; the rest are
// yes/no questions with a Default.
type DecisionRequest struct {
	Kind    DecisionKind
	Prompt  string
	Options []string
	Default bool

	// SupervisorIndex is set on supervisor requests (0-based)
	SupervisorIndex int

	StudentSuggestions    []matching.Match[models.Student]
	SupervisorSuggestions []matching.Match[models.Supervisor]
	ThesisMatches         []matching.ThesisMatch
}

// Decision resumes a suspended import session. Approved answers yes/no
// requests; Choice answers option requests (-1 means none of them).
type Decision struct {
	Approved bool
	Choice   int
}

// Decider supplies decisions for a batch run. The terminal prompt loop and
// the non-interactive defaults both implement it.
type Decider interface {
	Decide(ctx context.Context, req *DecisionRequest) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface
type DeciderFunc func(ctx context.Context, req *DecisionRequest) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, req *DecisionRequest) (Decision, error) {
	return f(ctx, req)
}

// DefaultDecider answers every request with its default: exact matches are
// accepted, suggestions are declined in favor of creating new records, and
// duplicate warnings are logged and passed.
func DefaultDecider() Decider {
	return DeciderFunc(func(ctx context.Context, req *DecisionRequest) (Decision, error) {
		switch req.Kind {
		case DecisionChooseStudent, DecisionChooseSupervisor:
			return Decision{Choice: -1}, nil
		case DecisionConfirmDuplicate:
			// non-interactive runs proceed on duplicate warnings
			return Decision{Approved: true}, nil
		default:
			return Decision{Approved: req.Default}, nil
		}
	})
}
