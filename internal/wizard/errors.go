package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories returned by the wizard model. Match them with errors.Is.
var (
	ErrEmptyName            = errors.New("name can't be empty")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrAlreadyOwned         = errors.New("already belongs to an owner")
	ErrNotInitialized       = errors.New("owner is not initialized")
	ErrNotMember            = errors.New("doesn't belong")
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrUndeclaredDependency = errors.New("undeclared dependency")
	ErrMissingAnswer        = errors.New("missing answer")
	ErrInvalidDefault       = errors.New("invalid default")
)

// Error describes a failure together with the questions and section involved.
type Error struct {
	Type       error
	Section    string
	Question   string
	Dependency string
	Message    string
}

func (e *Error) Error() string {
	var parts []string
	if e.Section != "" {
		parts = append(parts, fmt.Sprintf("section %q", e.Section))
	}
	if e.Question != "" {
		parts = append(parts, fmt.Sprintf("question %q", e.Question))
	}
	if e.Dependency != "" {
		parts = append(parts, fmt.Sprintf("dependency %q", e.Dependency))
	}

	msg := e.Type.Error()
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Type
}

func sectionName(s *Section) string {
	if s == nil {
		return ""
	}
	return s.name
}

func questionName(q *Question) string {
	if q == nil {
		return ""
	}
	return q.name
}
