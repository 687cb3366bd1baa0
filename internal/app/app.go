package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wizard-cli/internal/interfaces"
	"wizard-cli/internal/logging"
	"wizard-cli/internal/orchestrator"
	"wizard-cli/internal/wizard"
	"wizard-cli/pkg/models"
)

// Run executes the main application logic
func Run(ctx context.Context, request *models.RunRequest) error {
	orch := orchestrator.New()

	ctx, settings, err := setup(ctx, orch, request)
	if err != nil {
		return err
	}

	out, err := orch.Run(ctx, request, settings)
	if err != nil {
		return err
	}

	return orch.Output(ctx, out, settings)
}

// Check compiles a definition without prompting and reports its shape
func Check(ctx context.Context, w io.Writer, request *models.RunRequest) error {
	orch := orchestrator.New()

	ctx, settings, err := setup(ctx, orch, request)
	if err != nil {
		return err
	}

	cfg, err := orch.BuildConfig(ctx, settings)
	if err != nil {
		return err
	}

	questions := 0
	for _, s := range cfg.Sections() {
		questions += len(s.Questions())
	}
	fmt.Fprintf(w, "%s: ok (%d sections, %d questions)\n",
		displayName(settings.Definition), len(cfg.Sections()), questions)
	return nil
}

// List prints every section and question of a wizard with its kind and dependencies
func List(ctx context.Context, w io.Writer, request *models.RunRequest) error {
	orch := orchestrator.New()

	ctx, settings, err := setup(ctx, orch, request)
	if err != nil {
		return err
	}

	cfg, err := orch.BuildConfig(ctx, settings)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Wizard: %s\n", displayName(settings.Definition))
	for _, section := range cfg.Sections() {
		fmt.Fprintf(w, "\n[%s]\n", section.Name())
		for _, q := range section.Questions() {
			fmt.Fprintf(w, "  - %s (%s)", q.Name(), q.Kind())
			if deps := dependencyNames(section, q); len(deps) > 0 {
				fmt.Fprintf(w, " depends on %s", strings.Join(deps, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// setup resolves settings and attaches the configured logger to ctx
func setup(ctx context.Context, orch *orchestrator.Orchestrator, request *models.RunRequest) (context.Context, *interfaces.Settings, error) {
	settings, err := orch.LoadSettings(request)
	if err != nil {
		return ctx, nil, err
	}

	log, err := logging.New(os.Stderr, settings.LogLevel, settings.LogJSON)
	if err != nil {
		return ctx, nil, orchestrator.NewConfigurationError("invalid log level", err)
	}
	return logging.WithLogger(ctx, log), settings, nil
}

// dependencyNames qualifies dependencies that live in another section
func dependencyNames(section *wizard.Section, q *wizard.Question) []string {
	var names []string
	for _, dep := range q.Dependencies() {
		name := dep.Name()
		if !section.Contains(dep) {
			if owner, err := dep.Section(); err == nil {
				name = owner.Name() + "." + name
			}
		}
		names = append(names, name)
	}
	return names
}

func displayName(definition string) string {
	if definition == "" {
		return "built-in kafka"
	}
	return contractPath(definition)
}

// contractPath converts a full path back to use ~ for the home directory
func contractPath(path string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	// Add trailing slash to home directory for proper matching
	homeDirWithSlash := homeDir + string(filepath.Separator)
	pathWithSlash := path + string(filepath.Separator)

	if strings.HasPrefix(pathWithSlash, homeDirWithSlash) {
		relativePath := path[len(homeDir):]
		if relativePath == "" {
			return "~"
		}
		return "~" + relativePath
	}

	return path
}
