package pattern

import (
	"errors"
	"fmt"
)

// ErrInvalidTemplate matches every error returned by Build.
var ErrInvalidTemplate = errors.New("invalid template")

// Template build failures.
var (
	ErrEmptyLabel        = errors.New("node label is empty")
	ErrDuplicateLabel    = errors.New("duplicate node label")
	ErrUnresolvedParent  = errors.New("parent label not found")
	ErrUnresolvedChild   = errors.New("child label not found")
	ErrDuplicateChild    = errors.New("child listed twice")
	ErrConflictingParent = errors.New("node claimed by more than one parent")
	ErrNoRoot            = errors.New("template has no root node")
	ErrMultipleRoots     = errors.New("template has more than one root node")
	ErrCycle             = errors.New("template nodes form a cycle")
)

// BuildError identifies the template and node that failed to build.
type BuildError struct {
	Template string
	Label    string
	Err      error
}

func (e *BuildError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("template %q: %v", e.Template, e.Err)
	}
	return fmt.Sprintf("template %q: node %q: %v", e.Template, e.Label, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidTemplate) match any build failure.
func (e *BuildError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

func buildErr(template, label string, err error, format string, args ...any) error {
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
	}
	return &BuildError{Template: template, Label: label, Err: err}
}
