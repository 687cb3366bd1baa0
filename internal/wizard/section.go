package wizard

import (
	"fmt"
	"slices"
)

// Section is an ordered, named group of questions sharing one answer store.
type Section struct {
	name        string
	questions   []*Question
	answers     Answers
	useDefaults *bool

	config *Config
}

// SectionOption configures a Section at construction.
type SectionOption func(*Section)

// WithSectionDefaults overrides the config-wide use_defaults flag for
// this section.
func WithSectionDefaults(use bool) SectionOption {
	return func(s *Section) { s.useDefaults = &use }
}

// WithAnswers pre-seeds the answer store. The map is used as is, not copied.
func WithAnswers(answers Answers) SectionOption {
	return func(s *Section) { s.answers = answers }
}

// NewSection validates the questions and binds them to the new section.
// Nothing is bound when validation fails.
func NewSection(name string, questions []*Question, opts ...SectionOption) (*Section, error) {
	if name == "" {
		return nil, &Error{Type: ErrEmptyName, Message: "section name is required"}
	}

	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q == nil {
			return nil, fmt.Errorf("section %q: question #%d is nil", name, i)
		}
		if _, dup := seen[q.name]; dup {
			return nil, &Error{
				Type:     ErrDuplicateName,
				Section:  name,
				Question: q.name,
				Message:  fmt.Sprintf("duplicate question name '%s'", q.name),
			}
		}
		seen[q.name] = struct{}{}

		if q.section != nil {
			return nil, &Error{
				Type:     ErrAlreadyOwned,
				Section:  name,
				Question: q.name,
				Message:  fmt.Sprintf("question already belongs to section %q", q.section.name),
			}
		}
	}

	s := &Section{
		name:      name,
		questions: slices.Clone(questions),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.answers == nil {
		s.answers = Answers{}
	}

	for _, q := range s.questions {
		q.section = s
	}
	return s, nil
}

func (s *Section) Name() string { return s.name }

// Questions returns the questions in declaration order.
func (s *Section) Questions() []*Question {
	return slices.Clone(s.questions)
}

// Question looks up a member question by name.
func (s *Section) Question(name string) (*Question, bool) {
	for _, q := range s.questions {
		if q.name == name {
			return q, true
		}
	}
	return nil, false
}

// Answers returns the live answer store. The prompt driver records an
// answer by writing Answers()[question.Name()].
func (s *Section) Answers() Answers {
	return s.answers
}

// Config returns the owning config.
func (s *Section) Config() (*Config, error) {
	if s.config == nil {
		return nil, &Error{Type: ErrNotInitialized, Section: s.name, Message: "'config' is not initialized"}
	}
	return s.config, nil
}

// UseDefaults returns the section override when set, else the config flag.
func (s *Section) UseDefaults() (bool, error) {
	if s.useDefaults != nil {
		return *s.useDefaults, nil
	}
	cfg, err := s.Config()
	if err != nil {
		return false, err
	}
	return cfg.useDefaults, nil
}

// Contains reports whether q is one of the section's own questions.
func (s *Section) Contains(q *Question) bool {
	return slices.Contains(s.questions, q)
}

// AnswerOf returns the recorded answer of a member question.
func (s *Section) AnswerOf(q *Question) (any, error) {
	if !s.Contains(q) {
		return nil, &Error{
			Type:     ErrNotMember,
			Section:  s.name,
			Question: questionName(q),
			Message:  "question doesn't belong to the section",
		}
	}

	value, ok := s.answers[q.name]
	if !ok {
		return nil, &Error{
			Type:     ErrMissingAnswer,
			Section:  s.name,
			Question: q.name,
			Message:  "question has not been answered yet",
		}
	}
	return value, nil
}

// HasAnswer reports whether an answer is recorded for the named question.
func (s *Section) HasAnswer(name string) bool {
	_, ok := s.answers[name]
	return ok
}
