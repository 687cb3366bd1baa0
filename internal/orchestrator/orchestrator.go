package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"wizard-cli/internal/config"
	"wizard-cli/internal/definition"
	"wizard-cli/internal/interactive"
	"wizard-cli/internal/interfaces"
	"wizard-cli/internal/kafka"
	"wizard-cli/internal/logging"
	"wizard-cli/internal/wizard"
	"wizard-cli/pkg/models"
)

// DriverFactory creates the driver for one run
type DriverFactory func(interactive bool) interfaces.Driver

// Orchestrator coordinates settings, wizard construction, answer
// collection, rendering and output
type Orchestrator struct {
	configManager interfaces.ConfigManager
	outputHandler interfaces.OutputHandler
	newDriver     DriverFactory
	isTerminal    func() bool
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithDriverFactory replaces the survey driver
func WithDriverFactory(f DriverFactory) Option {
	return func(o *Orchestrator) { o.newDriver = f }
}

// WithOutputHandler replaces the default output handler
func WithOutputHandler(h interfaces.OutputHandler) Option {
	return func(o *Orchestrator) { o.outputHandler = h }
}

// WithConfigManager replaces the viper backed settings manager
func WithConfigManager(m interfaces.ConfigManager) Option {
	return func(o *Orchestrator) { o.configManager = m }
}

// WithTerminalCheck replaces terminal detection
func WithTerminalCheck(f func() bool) Option {
	return func(o *Orchestrator) { o.isTerminal = f }
}

// New creates a new orchestrator with all required components
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		configManager: config.NewManager(),
		outputHandler: NewOutputHandler(),
		newDriver: func(interactiveMode bool) interfaces.Driver {
			return interactive.NewDriver(interactiveMode)
		},
		isTerminal: interactive.IsTerminal,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadSettings loads and resolves settings with precedence flags > env > file > defaults
func (o *Orchestrator) LoadSettings(request *models.RunRequest) (*interfaces.Settings, error) {
	if err := o.validateRequest(request); err != nil {
		return nil, err
	}

	if _, err := o.configManager.Load(request.ConfigPath); err != nil {
		return nil, RecoverFromError(NewConfigurationError("failed to load configuration", err))
	}

	for key, value := range request.FlagOverrides() {
		o.configManager.SetFlag(key, value)
	}

	settings, err := o.configManager.Resolve()
	if err != nil {
		return nil, RecoverFromError(NewConfigurationError("failed to resolve configuration", err))
	}

	if err := o.configManager.Validate(settings); err != nil {
		return nil, RecoverFromError(NewConfigurationError("invalid configuration", err))
	}

	return settings, nil
}

// BuildConfig compiles the configured definition, or the built-in kafka
// wizard when no definition is set
func (o *Orchestrator) BuildConfig(ctx context.Context, settings *interfaces.Settings) (*wizard.Config, error) {
	if settings.Definition == "" {
		cfg, _, err := kafka.NewConfig(settings.KafkaWorkerNodes, settings.UseDefaults)
		if err != nil {
			return nil, NewDefinitionError("built-in kafka", err)
		}
		return cfg, nil
	}

	loader := definition.NewLoader(config.SettingsMap(settings))
	cfg, err := loader.LoadFile(ctx, settings.Definition, wizard.WithUseDefaults(settings.UseDefaults))
	if err != nil {
		return nil, NewDefinitionError(settings.Definition, err)
	}
	return cfg, nil
}

// Run collects the answers and renders them in the configured format
func (o *Orchestrator) Run(ctx context.Context, request *models.RunRequest, settings *interfaces.Settings) (string, error) {
	log := logging.FromContext(ctx)

	cfg, err := o.BuildConfig(ctx, settings)
	if err != nil {
		return "", err
	}

	if err := ApplyPresets(cfg, request.Set); err != nil {
		return "", err
	}

	interactiveMode := o.resolveInteractive(request, settings)
	if interactiveMode && !o.isTerminal() {
		log.Info("stdin is not a terminal, accepting defaults without prompting")
		interactiveMode = false
	}
	request.Interactive = interactiveMode

	if err := o.newDriver(interactiveMode).Run(ctx, cfg); err != nil {
		return "", NewAnswerError(err)
	}

	renderer, err := NewRenderer(settings.Format, settings.TemplatePath)
	if err != nil {
		return "", NewRenderError(settings.Format, err)
	}

	out, err := renderer.Render(cfg.Snapshot(), sectionNames(cfg))
	if err != nil {
		return "", NewRenderError(settings.Format, err)
	}
	return out, nil
}

// Output writes rendered answers to the configured target
func (o *Orchestrator) Output(ctx context.Context, content string, settings *interfaces.Settings) error {
	log := logging.FromContext(ctx)

	target := settings.Target
	if target == "" {
		target = "stdout"
	}

	switch {
	case target == "clipboard":
		if err := o.outputHandler.WriteToClipboard(content); err != nil {
			outputErr := NewOutputError(target, err)
			if IsRecoverableError(outputErr) {
				log.Error(outputErr, "falling back to stdout")
				return o.outputHandler.WriteToStdout(content)
			}
			return RecoverFromError(outputErr)
		}
		log.Info("answers copied to clipboard")

	case target == "stdout":
		if err := o.outputHandler.WriteToStdout(content); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}

	case strings.HasPrefix(target, "file:"):
		filePath := strings.TrimPrefix(target, "file:")
		if err := o.outputHandler.WriteToFile(content, filePath); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}
		log.Info("answers written", "path", filePath)

	default:
		return RecoverFromError(NewValidationError("target", target, "unsupported output target"))
	}

	return nil
}

// ApplyPresets records section.question=value answers before the driver
// runs. Values are converted to the question kind and must pass its validator.
func ApplyPresets(cfg *wizard.Config, sets []string) error {
	for _, set := range sets {
		key, raw, ok := strings.Cut(set, "=")
		if !ok {
			return NewValidationError("set", set, "expected section.question=value")
		}
		sectionName, questionName, ok := strings.Cut(key, ".")
		if !ok {
			return NewValidationError("set", set, "expected section.question=value")
		}

		section, ok := cfg.Section(sectionName)
		if !ok {
			return NewAnswerError(&wizard.Error{Type: wizard.ErrNotMember, Section: sectionName, Message: "no such section"})
		}
		q, ok := section.Question(questionName)
		if !ok {
			return NewAnswerError(&wizard.Error{Type: wizard.ErrNotMember, Section: sectionName, Question: questionName, Message: "no such question"})
		}

		value, err := parseAnswer(q.Kind(), raw)
		if err != nil {
			return NewValidationError("set", set, err.Error())
		}
		if !q.Validate(value) {
			return NewValidationError("set", set, "rejected by the question validator")
		}
		section.Answers()[q.Name()] = value
	}
	return nil
}

func parseAnswer(kind wizard.Kind, raw string) (any, error) {
	switch kind {
	case wizard.KindConfirm:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case wizard.KindCheckbox:
		values := []string{}
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		return values, nil
	default:
		return raw, nil
	}
}

// resolveInteractive applies -i / -y over interactive_default
func (o *Orchestrator) resolveInteractive(request *models.RunRequest, settings *interfaces.Settings) bool {
	switch {
	case request.ForceInteractive:
		return true
	case request.ForceNonInteractive:
		return false
	default:
		return settings.InteractiveDefault
	}
}

// validateRequest validates the run request
func (o *Orchestrator) validateRequest(request *models.RunRequest) error {
	if request == nil {
		return NewValidationError("request", nil, "request cannot be nil")
	}

	if request.ForceInteractive && request.ForceNonInteractive {
		return NewValidationError("flags", "--interactive --yes", "mutually exclusive")
	}

	if request.Target != "" && request.Target != "clipboard" && request.Target != "stdout" &&
		!strings.HasPrefix(request.Target, "file:") {
		return NewValidationError("target", request.Target, "must be 'clipboard', 'stdout', or 'file:/path'")
	}

	if request.ConfigPath != "" {
		if _, err := os.Stat(request.ConfigPath); os.IsNotExist(err) {
			return NewValidationError("config_path", request.ConfigPath, "file does not exist")
		}
	}

	return nil
}

func sectionNames(cfg *wizard.Config) []string {
	sections := cfg.Sections()
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name()
	}
	return names
}
