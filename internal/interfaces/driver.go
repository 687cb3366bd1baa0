package interfaces

import (
	"context"

	"wizard-cli/internal/wizard"
)

// Driver collects answers for every section of a wizard, in order.
type Driver interface {
	// Run asks or defaults every question and records the answers
	Run(ctx context.Context, cfg *wizard.Config) error
}

// Renderer serializes collected answers.
type Renderer interface {
	// Render encodes the answers in the configured format
	Render(answers map[string]wizard.Answers, sections []string) (string, error)
}
