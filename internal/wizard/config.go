package wizard

import (
	"fmt"
	"slices"
)

// Config is the root of a wizard: an ordered set of sections whose
// question dependencies have been checked against declaration order.
type Config struct {
	sections    []*Section
	useDefaults bool
}

// ConfigOption configures a Config at construction.
type ConfigOption func(*Config)

// WithUseDefaults sets the global flag for auto-accepting defaults.
func WithUseDefaults(use bool) ConfigOption {
	return func(c *Config) { c.useDefaults = use }
}

// NewConfig validates the sections and binds them to the new config.
// Either every check passes and the config is usable, or an error is
// returned and nothing is bound.
func NewConfig(sections []*Section, opts ...ConfigOption) (*Config, error) {
	seen := make(map[string]struct{}, len(sections))
	for i, s := range sections {
		if s == nil {
			return nil, fmt.Errorf("section #%d is nil", i)
		}
		if _, dup := seen[s.name]; dup {
			return nil, &Error{
				Type:    ErrDuplicateName,
				Section: s.name,
				Message: fmt.Sprintf("duplicate section name '%s'", s.name),
			}
		}
		seen[s.name] = struct{}{}

		if s.config != nil {
			return nil, &Error{Type: ErrAlreadyOwned, Section: s.name, Message: "'config' can be set only once"}
		}
	}

	if err := validateDependencies(sections); err != nil {
		return nil, err
	}

	c := &Config{sections: slices.Clone(sections)}
	for _, opt := range opts {
		opt(c)
	}
	for _, s := range c.sections {
		s.config = c
	}
	return c, nil
}

// validateDependencies walks sections, then questions, in declaration
// order. A dependency is resolved only if it was already visited in its
// own section, so forward, self and unknown-section references fail.
func validateDependencies(sections []*Section) error {
	validated := make(map[*Section][]*Question, len(sections))
	for _, s := range sections {
		validated[s] = []*Question{}
	}

	for _, s := range sections {
		for _, q := range s.questions {
			for _, dep := range q.deps {
				if !slices.Contains(validated[dep.section], dep) {
					return &Error{
						Type:       ErrUnresolvedDependency,
						Section:    s.name,
						Question:   q.name,
						Dependency: dep.String(),
						Message:    "dependencies must be declared before their dependents",
					}
				}
			}
			validated[s] = append(validated[s], q)
		}
	}
	return nil
}

// Sections returns the sections in declaration order.
func (c *Config) Sections() []*Section {
	return slices.Clone(c.sections)
}

// Section looks up a section by name.
func (c *Config) Section(name string) (*Section, bool) {
	for _, s := range c.sections {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

func (c *Config) UseDefaults() bool {
	return c.useDefaults
}

// Answers maps every section name to that section's live answer store.
// The inner maps are aliases: writes by the driver are visible through
// earlier results. Use Snapshot for a detached copy.
func (c *Config) Answers() map[string]Answers {
	out := make(map[string]Answers, len(c.sections))
	for _, s := range c.sections {
		out[s.name] = s.answers
	}
	return out
}

// Snapshot returns a deep copy of Answers.
func (c *Config) Snapshot() map[string]Answers {
	out := make(map[string]Answers, len(c.sections))
	for _, s := range c.sections {
		out[s.name] = s.answers.Clone()
	}
	return out
}

// AnswerOf routes the lookup through the question's own section.
func (c *Config) AnswerOf(q *Question) (any, error) {
	if q == nil || q.section == nil || !slices.Contains(c.sections, q.section) {
		return nil, &Error{
			Type:     ErrNotMember,
			Section:  sectionName(q.sectionOrNil()),
			Question: questionName(q),
			Message:  "question doesn't belong to the config",
		}
	}
	return q.section.AnswerOf(q)
}

func (q *Question) sectionOrNil() *Section {
	if q == nil {
		return nil
	}
	return q.section
}
