package models

// RunRequest represents one wizard invocation as described by the command line
type RunRequest struct {
	// Definition is the HCL wizard file; empty runs the built-in kafka wizard
	Definition string
	ConfigPath string

	ForceInteractive    bool
	ForceNonInteractive bool
	// Interactive is resolved from the flags above and interactive_default
	Interactive bool

	// UseDefaults is applied only when UseDefaultsSet is true
	UseDefaults    bool
	UseDefaultsSet bool

	Format       string
	Target       string
	TemplatePath string
	LogLevel     string
	LogJSON      bool
	LogJSONSet   bool

	// Set holds section.question=value pre-answers
	Set []string
}

// NewRunRequest creates a RunRequest with default values
func NewRunRequest() *RunRequest {
	return &RunRequest{
		Interactive: true,
		Set:         []string{},
	}
}

// FlagOverrides returns the settings explicitly given on the command line,
// keyed the way the settings manager expects them.
func (r *RunRequest) FlagOverrides() map[string]any {
	flags := map[string]any{}
	if r.UseDefaultsSet {
		flags["use_defaults"] = r.UseDefaults
	}
	if r.Format != "" {
		flags["format"] = r.Format
	}
	if r.Target != "" {
		flags["target"] = r.Target
	}
	if r.TemplatePath != "" {
		flags["template_path"] = r.TemplatePath
	}
	if r.Definition != "" {
		flags["definition"] = r.Definition
	}
	if r.LogLevel != "" {
		flags["log_level"] = r.LogLevel
	}
	if r.LogJSONSet {
		flags["log_json"] = r.LogJSON
	}
	return flags
}
