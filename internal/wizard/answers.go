package wizard

import "slices"

// Answers maps question names to recorded answer values. The prompt
// driver writes into a Section's Answers directly; there is no setter.
type Answers map[string]any

// Clone returns a copy of the answers. Checkbox answers ([]string) are
// copied as well so the clone shares no mutable state with the original.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	out := make(Answers, len(a))
	for name, value := range a {
		if list, ok := value.([]string); ok {
			value = slices.Clone(list)
		}
		out[name] = value
	}
	return out
}
