package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wizard-cli/internal/wizard"
)

// Error types for different categories of failures
var (
	ErrConfigurationInvalid = errors.New("configuration error")
	ErrDefinitionInvalid    = errors.New("definition error")
	ErrAnswerCollection     = errors.New("answer collection error")
	ErrRenderFailed         = errors.New("render error")
	ErrOutputFailed         = errors.New("output error")
	ErrValidationFailed     = errors.New("validation error")
)

// WizardError represents a structured error with actionable guidance
type WizardError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
}

func (e *WizardError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Guidance != "" {
		msg += "\n\nSuggestion: " + e.Guidance
	}
	return msg
}

func (e *WizardError) Unwrap() error {
	return e.Cause
}

// Is matches the error category as well as the wrapped cause.
func (e *WizardError) Is(target error) bool {
	return target == e.Type
}

// Error constructors with actionable guidance

func NewConfigurationError(message string, cause error) *WizardError {
	guidance := "Check your configuration file syntax and ensure all paths exist. " +
		"Use 'wizard --config /path/to/config.toml' to specify a different config file."

	causeText := errorText(cause)
	if strings.Contains(causeText, "permission") {
		guidance = "Check file permissions for your configuration directory. " +
			"Ensure you have read access to ~/.config/wizard/"
	} else if strings.Contains(causeText, "invalid") {
		guidance = "One or more settings are out of range. Valid formats are yaml, json, toml and template; " +
			"valid targets are stdout, clipboard and file:/path; kafka_worker_nodes must be at least 1."
	}

	return &WizardError{
		Type:     ErrConfigurationInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewDefinitionError(path string, cause error) *WizardError {
	message := fmt.Sprintf("failed to load definition '%s'", path)
	guidance := "Check the definition with 'wizard check " + path + "'. Every question needs a kind " +
		"(text, password, editor, confirm, list or checkbox)."

	switch {
	case errors.Is(cause, os.ErrNotExist):
		guidance = fmt.Sprintf("Definition '%s' does not exist. Check the path spelling.", path)
	case errors.Is(cause, wizard.ErrUnresolvedDependency):
		guidance = "depends_on may only name questions declared earlier in the file. " +
			"Move the dependency above its dependent, or qualify it as section.question."
	case errors.Is(cause, wizard.ErrUndeclaredDependency):
		guidance = "Expressions may only read answers of questions listed in depends_on. " +
			"Add the question to depends_on."
	case errors.Is(cause, wizard.ErrDuplicateName):
		guidance = "Section names must be unique in a definition, and question names unique in a section."
	case errors.Is(cause, wizard.ErrInvalidDefault):
		guidance = "Defaults must match the question kind: a string for text, password, editor and list, " +
			"a bool for confirm, a list of strings for checkbox."
	}

	return &WizardError{
		Type:     ErrDefinitionInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewAnswerError(cause error) *WizardError {
	message := "failed to collect answers"
	guidance := "Re-run the wizard interactively with -i, or pre-answer questions with --set section.question=value."

	switch {
	case errors.Is(cause, wizard.ErrMissingAnswer):
		guidance = "A question has no default and prompting is disabled. Run with -i, or answer it with " +
			"--set section.question=value."
	case errors.Is(cause, wizard.ErrNotMember):
		guidance = "The --set flag names a question that isn't part of this wizard. Use 'wizard list' to see them."
	}

	return &WizardError{
		Type:     ErrAnswerCollection,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewRenderError(format string, cause error) *WizardError {
	message := fmt.Sprintf("failed to render answers as '%s'", format)
	guidance := "Check that the answers can be encoded in the chosen format."

	if format == "template" {
		guidance = "Check the template for valid Go template syntax with {{ }} delimiters. " +
			"Answers are available as .Answers.<section>.<question>."
	}

	return &WizardError{
		Type:     ErrRenderFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewOutputError(target string, cause error) *WizardError {
	message := fmt.Sprintf("failed to output to target '%s'", target)
	guidance := "Check that the output target is valid and accessible."

	if target == "clipboard" {
		guidance = "Clipboard access failed. Ensure you're running in a graphical environment " +
			"or try using --target stdout instead."
	} else if strings.HasPrefix(target, "file:") {
		filePath := strings.TrimPrefix(target, "file:")
		guidance = fmt.Sprintf("Failed to write to file '%s'. Check that you have write permissions.", filePath)
	}

	return &WizardError{
		Type:     ErrOutputFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewValidationError(field string, value interface{}, reason string) *WizardError {
	message := fmt.Sprintf("validation failed for %s: %v (%s)", field, value, reason)
	guidance := "Check the input value and ensure it meets the required format."

	switch field {
	case "set":
		guidance = "Pre-answers take the form --set section.question=value. Booleans accept true/false, " +
			"checkbox answers are comma separated."
	case "target":
		guidance = "Target must be 'clipboard', 'stdout', or 'file:/path/to/file'. " +
			"Example: --target file:/tmp/answers.yaml"
	case "config_path":
		guidance = "Configuration file path must be valid and accessible. " +
			"Ensure the file exists and you have read permissions."
	case "flags":
		guidance = "Use either --interactive or --yes, not both."
	}

	return &WizardError{
		Type:     ErrValidationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    nil,
	}
}

// Recovery strategies

// RecoverFromError attempts to recover from common errors with fallback strategies
func RecoverFromError(err error) error {
	if err == nil {
		return nil
	}

	var wizardErr *WizardError
	if !errors.As(err, &wizardErr) {
		// Wrap unknown errors
		return &WizardError{
			Type:     errors.New("unknown error"),
			Message:  "unexpected failure",
			Guidance: "An unexpected error occurred. Please check your inputs and try again.",
			Cause:    err,
		}
	}

	// Apply recovery strategies based on error type
	switch wizardErr.Type {
	case ErrConfigurationInvalid:
		return recoverFromConfigError(wizardErr)
	case ErrOutputFailed:
		return recoverFromOutputError(wizardErr)
	default:
		return wizardErr
	}
}

func recoverFromConfigError(err *WizardError) error {
	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".config", "wizard")
	if _, statErr := os.Stat(configDir); os.IsNotExist(statErr) {
		err.Guidance += fmt.Sprintf("\n\nNo config directory found. Create '%s/config.toml' to persist settings.",
			configDir)
	}

	return err
}

func recoverFromOutputError(err *WizardError) error {
	// For clipboard errors, suggest stdout fallback
	if strings.Contains(err.Message, "clipboard") {
		err.Guidance += "\n\nTry using --target stdout as a fallback."
	}
	return err
}

// IsRecoverableError checks if an error can be recovered from
func IsRecoverableError(err error) bool {
	var wizardErr *WizardError
	if !errors.As(err, &wizardErr) {
		return false
	}

	// A failed clipboard write falls back to stdout
	return wizardErr.Type == ErrOutputFailed && strings.Contains(wizardErr.Message, "clipboard")
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
