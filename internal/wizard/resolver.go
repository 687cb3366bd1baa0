package wizard

import "fmt"

// Resolver is the read-only view a question's DefaultFunc and IgnoreFunc
// get of already collected answers. It is scoped to one question and only
// resolves that question's declared dependencies.
type Resolver interface {
	// Resolve returns the recorded answer of a declared dependency.
	Resolve(dep *Question) (any, error)

	// UsesDefault applies the base ignore rule to the question: true when
	// it has a default and its section accepts defaults. Must not be
	// called from a DefaultFunc.
	UsesDefault() (bool, error)
}

type questionResolver struct {
	q *Question
}

func (r questionResolver) Resolve(dep *Question) (any, error) {
	return r.q.ResolveDependency(dep)
}

func (r questionResolver) UsesDefault() (bool, error) {
	return r.q.usesDefault()
}

// ResolveBool resolves a dependency whose answer is a bool.
func ResolveBool(r Resolver, dep *Question) (bool, error) {
	value, err := r.Resolve(dep)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("answer of %s is %T, not bool", dep, value)
	}
	return b, nil
}

// ResolveString resolves a dependency whose answer is a string.
func ResolveString(r Resolver, dep *Question) (string, error) {
	value, err := r.Resolve(dep)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("answer of %s is %T, not string", dep, value)
	}
	return s, nil
}
