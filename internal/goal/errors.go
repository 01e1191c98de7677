package goal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kazz187/goalboard/pkg/cerr"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrCycleRejected          = errors.New("dependency cycle rejected")
	ErrDependencyNotSatisfied = errors.New("dependency not satisfied")
	ErrGenerationService      = errors.New("generation service error")
	ErrValidation             = errors.New("validation error")
)

// Rule ids attached to error details.
const (
	RuleDependencyNotSatisfied = "dependency_not_satisfied"
	RuleDependencyCycle        = "dependency_cycle"
)

// BlockedError reports a status transition refused because of dependencies.
type BlockedError struct {
	TaskID   string
	Target   Status
	Blocking []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("task %s cannot move to %s: blocked by %s", e.TaskID, e.Target, strings.Join(e.Blocking, ", "))
}

func (e *BlockedError) Unwrap() error {
	return ErrDependencyNotSatisfied
}

func notFoundError(kind, id string) error {
	return cerr.NewError(cerr.NotFound, fmt.Sprintf("%s %q not found", kind, id), ErrNotFound)
}

func validationError(format string, args ...any) error {
	return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf(format, args...), ErrValidation)
}

func cycleError(taskID, dependencyID string) error {
	msg := fmt.Sprintf("task %s cannot depend on %s: it would create a dependency cycle", taskID, dependencyID)
	if taskID == dependencyID {
		msg = fmt.Sprintf("task %s cannot depend on itself", taskID)
	}
	return cerr.NewError(cerr.FailedPrecondition, msg, ErrCycleRejected).
		AddDetailMessageWithCode(dependencyID, RuleDependencyCycle)
}

func blockedError(b *BlockedError) error {
	err := cerr.NewError(cerr.FailedPrecondition, b.Error(), b)
	for _, id := range b.Blocking {
		err.AddDetailMessageWithCode(id, RuleDependencyNotSatisfied)
	}
	return err
}

func generationError(code cerr.Code, msg string, err error) error {
	if err == nil {
		return cerr.NewError(code, msg, ErrGenerationService)
	}
	return cerr.NewError(code, msg, fmt.Errorf("%w: %w", ErrGenerationService, err))
}

// BlockingIDs returns the blocking dependency ids carried by err, if any.
func BlockingIDs(err error) []string {
	var b *BlockedError
	if errors.As(err, &b) {
		return b.Blocking
	}
	return nil
}
