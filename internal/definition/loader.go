package definition

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"wizard-cli/internal/logging"
	"wizard-cli/internal/wizard"
)

type fileSchema struct {
	Sections []sectionBlock `hcl:"section,block"`
}

type sectionBlock struct {
	Name        string          `hcl:"name,label"`
	UseDefaults *bool           `hcl:"use_defaults,optional"`
	Answers     hcl.Expression  `hcl:"answers,optional"`
	Questions   []questionBlock `hcl:"question,block"`
}

type questionBlock struct {
	Name        string         `hcl:"name,label"`
	Kind        string         `hcl:"kind"`
	Message     string         `hcl:"message,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Ignore      hcl.Expression `hcl:"ignore,optional"`
	Validate    hcl.Expression `hcl:"validate,optional"`
	DependsOn   []string       `hcl:"depends_on,optional"`
	Choices     []string       `hcl:"choices,optional"`
	Echo        *string        `hcl:"echo,optional"`
	Carousel    bool           `hcl:"carousel,optional"`
	ShowDefault *bool          `hcl:"show_default,optional"`
}

// Loader compiles HCL wizard definitions into core configs.
type Loader struct {
	settings map[string]any
}

// NewLoader creates a loader whose expressions see settings as the
// `settings` variable.
func NewLoader(settings map[string]any) *Loader {
	return &Loader{settings: settings}
}

// LoadFile reads and compiles the definition at path.
func (l *Loader) LoadFile(ctx context.Context, path string, opts ...wizard.ConfigOption) (*wizard.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return l.Load(ctx, src, path, opts...)
}

// Load compiles a definition. Sections and questions are compiled in
// declaration order, so depends_on may only name questions declared
// earlier in the file.
func (l *Loader) Load(ctx context.Context, src []byte, filename string, opts ...wizard.ConfigOption) (*wizard.Config, error) {
	log := logging.FromContext(ctx).WithValues("definition", filename)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse definition: %w", diags)
	}

	ev, err := newEvaluator(l.settings)
	if err != nil {
		return nil, err
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, ev.baseContext(), &schema); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode definition: %w", diags)
	}

	c := &compiler{
		ev:       ev,
		declared: map[string]*wizard.Question{},
		all:      map[string]bool{},
	}
	for _, sb := range schema.Sections {
		for _, qb := range sb.Questions {
			c.all[sb.Name+"."+qb.Name] = true
		}
	}

	sections := make([]*wizard.Section, 0, len(schema.Sections))
	for _, sb := range schema.Sections {
		section, err := c.section(sb)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	cfg, err := wizard.NewConfig(sections, opts...)
	if err != nil {
		return nil, err
	}

	log.V(1).Info("loaded definition", "sections", len(sections), "questions", len(c.declared))
	return cfg, nil
}

type compiler struct {
	ev *evaluator

	// declared holds questions compiled so far, keyed section.question.
	declared map[string]*wizard.Question
	// all holds every question in the file, for clearer ordering errors.
	all map[string]bool
}

func (c *compiler) section(sb sectionBlock) (*wizard.Section, error) {
	var opts []wizard.SectionOption
	if sb.UseDefaults != nil {
		opts = append(opts, wizard.WithSectionDefaults(*sb.UseDefaults))
	}

	if !absent(sb.Answers) {
		val, err := c.ev.evalStatic(sb.Answers)
		if err != nil {
			return nil, fmt.Errorf("section %s: answers: %w", sb.Name, err)
		}
		answers, err := answersFromCty(val)
		if err != nil {
			return nil, fmt.Errorf("section %s: answers: %w", sb.Name, err)
		}
		opts = append(opts, wizard.WithAnswers(answers))
	}

	questions := make([]*wizard.Question, 0, len(sb.Questions))
	for _, qb := range sb.Questions {
		q, err := c.question(sb.Name, qb)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
		c.declared[sb.Name+"."+qb.Name] = q
	}

	return wizard.NewSection(sb.Name, questions, opts...)
}

func (c *compiler) question(sectionName string, qb questionBlock) (*wizard.Question, error) {
	owner := sectionName + "." + qb.Name

	kind, err := wizard.ParseKind(qb.Kind)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", owner, err)
	}

	deps, byKey, err := c.dependencies(sectionName, qb)
	if err != nil {
		return nil, err
	}

	opts := []wizard.Option{}
	if len(deps) > 0 {
		qs := make([]*wizard.Question, len(deps))
		for i, d := range deps {
			qs[i] = d.question
		}
		opts = append(opts, wizard.DependsOn(qs...))
	}
	if len(qb.Choices) > 0 {
		opts = append(opts, wizard.WithChoices(qb.Choices...))
	}
	if qb.Echo != nil {
		opts = append(opts, wizard.WithEcho(*qb.Echo))
	}
	if qb.Carousel {
		opts = append(opts, wizard.WithCarousel())
	}
	if qb.ShowDefault != nil && !*qb.ShowDefault {
		opts = append(opts, wizard.WithHiddenDefault())
	}

	defaultOpt, err := c.defaultOption(owner, kind, qb.Default, deps, byKey)
	if err != nil {
		return nil, err
	}
	if defaultOpt != nil {
		opts = append(opts, defaultOpt)
	}

	if !absent(qb.Ignore) {
		roots, err := checkReferences(owner, "ignore", qb.Ignore, []string{rootAnswers, rootSettings, rootUsesDefault}, byKey)
		if err != nil {
			return nil, err
		}
		expr := qb.Ignore
		opts = append(opts, wizard.WithIgnoreFunc(func(r wizard.Resolver) (bool, error) {
			val, err := c.ev.evalWithAnswers(expr, deps, r, roots[rootUsesDefault])
			if err != nil {
				return false, err
			}
			return asBool(val)
		}))
	}

	if !absent(qb.Validate) {
		if _, err := checkReferences(owner, "validate", qb.Validate, []string{rootValue, rootSettings}, byKey); err != nil {
			return nil, err
		}
		expr := qb.Validate
		opts = append(opts, wizard.WithValidator(func(value any) bool {
			return c.ev.evalValidate(expr, value)
		}))
	}

	q, err := wizard.New(kind, qb.Name, qb.Message, opts...)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", owner, err)
	}
	return q, nil
}

// defaultOption returns nil when the question has no default. A default
// that reads no answers is evaluated once, here, and type checked
// against the kind.
func (c *compiler) defaultOption(owner string, kind wizard.Kind, expr hcl.Expression, deps []depRef, byKey map[string]depRef) (wizard.Option, error) {
	if absent(expr) {
		return nil, nil
	}

	roots, err := checkReferences(owner, "default", expr, []string{rootAnswers, rootSettings}, byKey)
	if err != nil {
		return nil, err
	}

	if !roots[rootAnswers] {
		val, err := c.ev.evalStatic(expr)
		if err != nil {
			return nil, fmt.Errorf("question %s: default: %w", owner, err)
		}
		def, err := answerFor(kind, val)
		if err != nil {
			return nil, &wizard.Error{Type: wizard.ErrInvalidDefault, Question: owner, Message: err.Error()}
		}
		if def == nil {
			return nil, nil
		}
		return wizard.WithDefault(def), nil
	}

	return wizard.WithDefaultFunc(func(r wizard.Resolver) (any, error) {
		val, err := c.ev.evalWithAnswers(expr, deps, r, false)
		if err != nil {
			return nil, err
		}
		return answerFor(kind, val)
	}), nil
}

// dependencies resolves depends_on entries against the questions compiled
// so far. A bare name refers to the question's own section.
func (c *compiler) dependencies(sectionName string, qb questionBlock) ([]depRef, map[string]depRef, error) {
	deps := make([]depRef, 0, len(qb.DependsOn))
	byKey := make(map[string]depRef, len(qb.DependsOn))

	for _, ref := range qb.DependsOn {
		section, name, ok := strings.Cut(ref, ".")
		if !ok {
			section, name = sectionName, ref
		}
		key := section + "." + name

		q, declared := c.declared[key]
		if !declared {
			msg := "unknown question"
			if c.all[key] {
				msg = "dependencies must be declared before their dependents"
			}
			return nil, nil, &wizard.Error{
				Type:       wizard.ErrUnresolvedDependency,
				Section:    sectionName,
				Question:   qb.Name,
				Dependency: key,
				Message:    msg,
			}
		}
		if _, dup := byKey[key]; dup {
			continue
		}

		d := depRef{section: section, name: name, question: q}
		deps = append(deps, d)
		byKey[key] = d
	}
	return deps, byKey, nil
}
