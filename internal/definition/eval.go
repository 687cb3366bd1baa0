package definition

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"wizard-cli/internal/wizard"
)

// Variable roots an expression may reference.
const (
	rootAnswers     = "answers"
	rootSettings    = "settings"
	rootUsesDefault = "uses_default"
	rootValue       = "value"
)

// depRef is a declared dependency as addressed from expressions.
type depRef struct {
	section  string
	name     string
	question *wizard.Question
}

func (d depRef) key() string { return d.section + "." + d.name }

type evaluator struct {
	settings  cty.Value
	functions map[string]function.Function
}

func newEvaluator(settings map[string]any) (*evaluator, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	val, err := mapToCty(settings)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return &evaluator{settings: val, functions: functions()}, nil
}

// baseContext exposes settings and functions only.
func (e *evaluator) baseContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{rootSettings: e.settings},
		Functions: e.functions,
	}
}

// evalStatic evaluates an expression that reads no answers.
func (e *evaluator) evalStatic(expr hcl.Expression) (cty.Value, error) {
	val, diags := expr.Value(e.baseContext())
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}

// evalWithAnswers evaluates expr with the answers of deps. Dependencies
// without an answer are unknown; a result that depends on one of them
// reports that dependency's ErrMissingAnswer. Conditionals therefore
// behave as short-circuits.
func (e *evaluator) evalWithAnswers(expr hcl.Expression, deps []depRef, r wizard.Resolver, usesDefault bool) (cty.Value, error) {
	sections := map[string]map[string]cty.Value{}
	var missing error

	for _, dep := range deps {
		val := cty.DynamicVal
		answer, err := r.Resolve(dep.question)
		switch {
		case errors.Is(err, wizard.ErrMissingAnswer):
			if missing == nil {
				missing = err
			}
		case err != nil:
			return cty.NilVal, err
		default:
			if val, err = toCty(answer); err != nil {
				return cty.NilVal, fmt.Errorf("answer of %s: %w", dep.key(), err)
			}
		}

		if sections[dep.section] == nil {
			sections[dep.section] = map[string]cty.Value{}
		}
		sections[dep.section][dep.name] = val
	}

	answers := make(map[string]cty.Value, len(sections))
	for name, attrs := range sections {
		answers[name] = cty.ObjectVal(attrs)
	}

	ctx := e.baseContext()
	ctx.Variables[rootAnswers] = cty.ObjectVal(answers)
	if usesDefault {
		uses, err := r.UsesDefault()
		if err != nil {
			return cty.NilVal, err
		}
		ctx.Variables[rootUsesDefault] = cty.BoolVal(uses)
	}

	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !val.IsWhollyKnown() {
		if missing != nil {
			return cty.NilVal, missing
		}
		return cty.NilVal, errors.New("expression result is unknown")
	}
	return val, nil
}

// evalValidate reports whether value satisfies the validate expression.
// Any evaluation error counts as a rejection.
func (e *evaluator) evalValidate(expr hcl.Expression, value any) bool {
	val, err := toCty(value)
	if err != nil {
		return false
	}
	ctx := e.baseContext()
	ctx.Variables[rootValue] = val

	result, diags := expr.Value(ctx)
	if diags.HasErrors() || result.IsNull() || !result.IsKnown() {
		return false
	}
	ok, err := convert.Convert(result, cty.Bool)
	if err != nil {
		return false
	}
	return ok.True()
}

// asBool converts an ignore result. Null means "don't ignore".
func asBool(val cty.Value) (bool, error) {
	if val.IsNull() {
		return false, nil
	}
	b, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("ignore must be a bool: %w", err)
	}
	return b.True(), nil
}

// absent reports whether an optional expression attribute was omitted
// (or explicitly set to null).
func absent(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.IsNull()
}

// checkReferences rejects variable roots outside allowed and answers
// traversals that don't name a declared dependency. It returns the set
// of roots the expression uses.
func checkReferences(owner, attr string, expr hcl.Expression, allowed []string, deps map[string]depRef) (map[string]bool, error) {
	roots := map[string]bool{}
	for _, traversal := range expr.Variables() {
		root := traversal.RootName()
		if !slices.Contains(allowed, root) {
			return nil, fmt.Errorf("%s: %s can't reference %q (allowed: %v)", owner, attr, root, allowed)
		}
		roots[root] = true

		if root != rootAnswers {
			continue
		}
		key, ok := answerKey(traversal)
		if !ok {
			return nil, fmt.Errorf("%s: %s must read answers as answers.<section>.<question>", owner, attr)
		}
		if _, declared := deps[key]; !declared {
			return nil, &wizard.Error{
				Type:       wizard.ErrUndeclaredDependency,
				Question:   owner,
				Dependency: key,
				Message:    fmt.Sprintf("%s reads answers.%s without listing it in depends_on", attr, key),
			}
		}
	}
	return roots, nil
}

func answerKey(traversal hcl.Traversal) (string, bool) {
	if len(traversal) < 3 {
		return "", false
	}
	section, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", false
	}
	question, ok := traversal[2].(hcl.TraverseAttr)
	if !ok {
		return "", false
	}
	return section.Name + "." + question.Name, true
}
