package wizard

import (
	"fmt"
	"slices"
)

// DefaultFunc computes a default from the answers of declared dependencies.
// A nil result means "no default".
type DefaultFunc func(r Resolver) (any, error)

// IgnoreFunc decides whether a question is skipped. Call r.UsesDefault to
// fall back to the base rule.
type IgnoreFunc func(r Resolver) (bool, error)

// Validator reports whether a candidate answer is acceptable.
type Validator func(value any) bool

// Question is a single configurable value. Questions are created first,
// optionally wired to their dependencies, and then handed to NewSection,
// which binds them for good.
type Question struct {
	kind        Kind
	name        string
	message     string
	def         any
	defaultFn   DefaultFunc
	ignoreFn    IgnoreFunc
	validator   Validator
	choices     []string
	deps        []*Question
	echo        string
	carousel    bool
	hideDefault bool

	section *Section
}

// Option configures a Question at construction.
type Option func(*Question)

// WithDefault sets a static default. Its Go type must match the kind.
func WithDefault(value any) Option {
	return func(q *Question) { q.def = value }
}

// WithDefaultFunc computes the default on every read. It replaces any
// static default.
func WithDefaultFunc(fn DefaultFunc) Option {
	return func(q *Question) { q.defaultFn = fn }
}

// WithIgnoreFunc replaces the base ignore rule.
func WithIgnoreFunc(fn IgnoreFunc) Option {
	return func(q *Question) { q.ignoreFn = fn }
}

func WithValidator(fn Validator) Option {
	return func(q *Question) { q.validator = fn }
}

// DependsOn declares the questions whose answers this one may read.
func DependsOn(deps ...*Question) Option {
	return func(q *Question) { q.deps = append(q.deps, deps...) }
}

func WithChoices(choices ...string) Option {
	return func(q *Question) { q.choices = append(q.choices, choices...) }
}

// WithEcho sets the masking character of a password question.
func WithEcho(echo string) Option {
	return func(q *Question) { q.echo = echo }
}

// WithCarousel lets list navigation wrap around.
func WithCarousel() Option {
	return func(q *Question) { q.carousel = true }
}

// WithHiddenDefault keeps the default out of the prompt text.
func WithHiddenDefault() Option {
	return func(q *Question) { q.hideDefault = true }
}

func NewText(name, message string, opts ...Option) (*Question, error) {
	return newQuestion(KindText, name, message, opts)
}

func NewPassword(name, message string, opts ...Option) (*Question, error) {
	return newQuestion(KindPassword, name, message, opts)
}

func NewEditor(name, message string, opts ...Option) (*Question, error) {
	return newQuestion(KindEditor, name, message, opts)
}

func NewConfirm(name, message string, opts ...Option) (*Question, error) {
	return newQuestion(KindConfirm, name, message, opts)
}

func NewList(name, message string, opts ...Option) (*Question, error) {
	return newQuestion(KindList, name, message, opts)
}

func NewCheckbox(name, message string, opts ...Option) (*Question, error) {
	return newQuestion(KindCheckbox, name, message, opts)
}

// New creates a question of the given kind.
func New(kind Kind, name, message string, opts ...Option) (*Question, error) {
	if _, ok := kindNames[kind]; !ok {
		return nil, fmt.Errorf("question %q: unknown kind %s", name, kind)
	}
	return newQuestion(kind, name, message, opts)
}

func newQuestion(kind Kind, name, message string, opts []Option) (*Question, error) {
	if name == "" {
		return nil, &Error{Type: ErrEmptyName, Message: "question name is required"}
	}

	q := &Question{kind: kind, name: name, message: message}
	if kind == KindPassword {
		q.echo = "*"
	}
	for _, opt := range opts {
		opt(q)
	}

	if q.def != nil && !kind.Accepts(q.def) {
		return nil, &Error{
			Type:     ErrInvalidDefault,
			Question: name,
			Message:  fmt.Sprintf("%s question can't default to %T", kind, q.def),
		}
	}
	for i, dep := range q.deps {
		if dep == nil {
			return nil, &Error{
				Type:     ErrUnresolvedDependency,
				Question: name,
				Message:  fmt.Sprintf("dependency #%d is nil", i),
			}
		}
	}

	return q, nil
}

// AddDependencies wires more dependencies into a question that is not yet
// part of a section.
func (q *Question) AddDependencies(deps ...*Question) error {
	if q.section != nil {
		return &Error{
			Type:     ErrAlreadyOwned,
			Section:  q.section.name,
			Question: q.name,
			Message:  "dependencies are fixed once the question joins a section",
		}
	}
	for _, dep := range deps {
		if dep == nil {
			return &Error{Type: ErrUnresolvedDependency, Question: q.name, Message: "dependency is nil"}
		}
	}
	q.deps = append(q.deps, deps...)
	return nil
}

func (q *Question) Name() string    { return q.name }
func (q *Question) Message() string { return q.message }
func (q *Question) Kind() Kind      { return q.kind }

// Echo is the masking character of a password question.
func (q *Question) Echo() string { return q.echo }

// Carousel reports whether list navigation wraps around.
func (q *Question) Carousel() bool { return q.carousel }

// ShowDefault reports whether the prompt should display the default.
func (q *Question) ShowDefault() bool { return !q.hideDefault }

func (q *Question) Choices() []string {
	return slices.Clone(q.choices)
}

func (q *Question) Dependencies() []*Question {
	return slices.Clone(q.deps)
}

// Section returns the owning section.
func (q *Question) Section() (*Section, error) {
	if q.section == nil {
		return nil, &Error{Type: ErrNotInitialized, Question: q.name, Message: "'section' is not initialized"}
	}
	return q.section, nil
}

// Validate reports whether value is an acceptable answer. Without a
// validator every value is accepted.
func (q *Question) Validate(value any) bool {
	if q.validator == nil {
		return true
	}
	return q.validator(value)
}

// Default returns the current default, computing it from dependency
// answers when the question has a DefaultFunc.
func (q *Question) Default() (any, error) {
	if q.defaultFn == nil {
		return q.def, nil
	}
	value, err := q.defaultFn(q.resolver())
	if err != nil {
		return nil, fmt.Errorf("default of %q: %w", q.name, err)
	}
	return value, nil
}

// Ignore reports whether the driver should skip prompting and accept the
// default. It is re-evaluated on every call.
func (q *Question) Ignore() (bool, error) {
	if q.ignoreFn == nil {
		return q.usesDefault()
	}
	ignore, err := q.ignoreFn(q.resolver())
	if err != nil {
		return false, fmt.Errorf("ignore of %q: %w", q.name, err)
	}
	return ignore, nil
}

// usesDefault is the base ignore rule: a default exists and the section
// accepts defaults.
func (q *Question) usesDefault() (bool, error) {
	def, err := q.Default()
	if err != nil {
		return false, err
	}
	if def == nil {
		return false, nil
	}

	section, err := q.Section()
	if err != nil {
		return false, err
	}
	return section.UseDefaults()
}

// ResolveDependency returns the recorded answer of a declared dependency.
func (q *Question) ResolveDependency(dep *Question) (any, error) {
	if !slices.Contains(q.deps, dep) {
		return nil, &Error{
			Type:       ErrUndeclaredDependency,
			Section:    sectionName(q.section),
			Question:   q.name,
			Dependency: questionName(dep),
		}
	}

	section, err := q.Section()
	if err != nil {
		return nil, err
	}
	cfg, err := section.Config()
	if err != nil {
		return nil, err
	}
	return cfg.AnswerOf(dep)
}

func (q *Question) resolver() Resolver {
	return questionResolver{q: q}
}

func (q *Question) String() string {
	if q.section == nil {
		return q.name
	}
	return q.section.name + "." + q.name
}
