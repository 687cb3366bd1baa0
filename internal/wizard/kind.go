package wizard

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a question and the Go type of its answer.
type Kind int

const (
	KindText Kind = iota
	KindPassword
	KindEditor
	KindConfirm
	KindList
	KindCheckbox
)

var kindNames = map[Kind]string{
	KindText:     "text",
	KindPassword: "password",
	KindEditor:   "editor",
	KindConfirm:  "confirm",
	KindList:     "list",
	KindCheckbox: "checkbox",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name (case-insensitive) to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown question kind %q (must be one of text, password, editor, confirm, list, checkbox)", name)
}

// HasChoices reports whether answers are picked from an enumerated set.
func (k Kind) HasChoices() bool {
	return k == KindList || k == KindCheckbox
}

// Accepts reports whether v has the answer type of this kind:
// string for text, password, editor and list, bool for confirm,
// []string for checkbox.
func (k Kind) Accepts(v any) bool {
	switch k {
	case KindText, KindPassword, KindEditor, KindList:
		_, ok := v.(string)
		return ok
	case KindConfirm:
		_, ok := v.(bool)
		return ok
	case KindCheckbox:
		_, ok := v.([]string)
		return ok
	default:
		return false
	}
}
