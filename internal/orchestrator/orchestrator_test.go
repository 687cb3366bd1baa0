package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wizard-cli/internal/interactive"
	"wizard-cli/internal/interfaces"
	"wizard-cli/internal/wizard"
	"wizard-cli/pkg/models"
)

type recordingOutput struct {
	clipboardErr error
	stdout       []string
	clipboard    []string
	files        map[string]string
}

func (r *recordingOutput) WriteToClipboard(content string) error {
	if r.clipboardErr != nil {
		return r.clipboardErr
	}
	r.clipboard = append(r.clipboard, content)
	return nil
}

func (r *recordingOutput) WriteToStdout(content string) error {
	r.stdout = append(r.stdout, content)
	return nil
}

func (r *recordingOutput) WriteToFile(content string, path string) error {
	if r.files == nil {
		r.files = map[string]string{}
	}
	r.files[path] = content
	return nil
}

// newTestOrchestrator runs without a terminal and without a config file
func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *recordingOutput) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	out := &recordingOutput{}
	opts = append([]Option{
		WithOutputHandler(out),
		WithTerminalCheck(func() bool { return false }),
	}, opts...)
	return New(opts...), out
}

func run(t *testing.T, o *Orchestrator, request *models.RunRequest) (string, *interfaces.Settings, error) {
	t.Helper()
	settings, err := o.LoadSettings(request)
	require.NoError(t, err)
	out, err := o.Run(context.Background(), request, settings)
	return out, settings, err
}

func TestOrchestrator_validateRequest(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	tests := []struct {
		name    string
		request *models.RunRequest
		wantErr bool
	}{
		{
			name:    "nil request",
			request: nil,
			wantErr: true,
		},
		{
			name:    "defaults",
			request: models.NewRunRequest(),
		},
		{
			name:    "both interactive flags",
			request: &models.RunRequest{ForceInteractive: true, ForceNonInteractive: true},
			wantErr: true,
		},
		{
			name:    "invalid target",
			request: &models.RunRequest{Target: "printer"},
			wantErr: true,
		},
		{
			name:    "valid file target",
			request: &models.RunRequest{Target: "file:/tmp/answers.yaml"},
		},
		{
			name:    "missing config file",
			request: &models.RunRequest{ConfigPath: filepath.Join(t.TempDir(), "nope.toml")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := orch.validateRequest(tt.request)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var wizardErr *WizardError
			require.ErrorAs(t, err, &wizardErr)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.NotEmpty(t, wizardErr.Guidance)
		})
	}
}

func TestOrchestrator_Run_BuiltInKafkaDefaults(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	request := models.NewRunRequest()
	request.UseDefaults, request.UseDefaultsSet = true, true

	out, _, err := run(t, orch, request)
	require.NoError(t, err)

	assert.False(t, request.Interactive, "no terminal means no prompting")
	assert.Equal(t, `kafka:
  auto_discovery: false
  external_access: false
  lb_ips: ""
  replicas: "3"
  version: "0.1"
`, out)
}

func TestOrchestrator_Run_Presets(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	request := models.NewRunRequest()
	request.Format = "json"
	request.Set = []string{
		"kafka.replicas=2",
		"kafka.external_access=true",
		"kafka.auto_discovery=false",
		"kafka.lb_ips=10.0.0.1",
	}

	out, _, err := run(t, orch, request)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kafka": {
		"version": "0.1",
		"replicas": "2",
		"external_access": true,
		"auto_discovery": false,
		"lb_ips": "10.0.0.1"
	}}`, out)
}

func TestOrchestrator_Run_MissingAnswer(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	request := models.NewRunRequest()
	request.Set = []string{"kafka.external_access=true"}

	_, _, err := run(t, orch, request)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnswerCollection)
	assert.ErrorIs(t, err, wizard.ErrMissingAnswer)
}

func TestOrchestrator_Run_Definition(t *testing.T) {
	orch, _ := newTestOrchestrator(t)
	request := models.NewRunRequest()
	request.Definition = filepath.Join("..", "..", "wizards", "kafka.hcl")
	request.Format = "toml"
	request.ForceNonInteractive = true

	out, _, err := run(t, orch, request)
	require.NoError(t, err)
	assert.Contains(t, out, "[kafka]")
	assert.Contains(t, out, "replicas = '3'")
	assert.Contains(t, out, "external_access = false")
}

func TestOrchestrator_Run_DefinitionErrors(t *testing.T) {
	dir := t.TempDir()
	forward := filepath.Join(dir, "forward.hcl")
	require.NoError(t, os.WriteFile(forward, []byte(`
section "a" {
  question "y" {
    kind       = "text"
    depends_on = ["x"]
  }
  question "x" { kind = "confirm" }
}`), 0644))

	tests := []struct {
		name       string
		definition string
		wantErr    error
	}{
		{"missing file", filepath.Join(dir, "missing.hcl"), os.ErrNotExist},
		{"forward reference", forward, wizard.ErrUnresolvedDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, _ := newTestOrchestrator(t)
			request := models.NewRunRequest()
			request.Definition = tt.definition

			_, _, err := run(t, orch, request)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDefinitionInvalid)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrchestrator_Run_UsesDriverFactory(t *testing.T) {
	var gotInteractive []bool
	factory := func(interactiveMode bool) interfaces.Driver {
		gotInteractive = append(gotInteractive, interactiveMode)
		return interactive.NewDriver(false)
	}
	orch, _ := newTestOrchestrator(t,
		WithDriverFactory(factory),
		WithTerminalCheck(func() bool { return true }),
	)

	request := models.NewRunRequest()
	request.ForceInteractive = true
	_, _, err := run(t, orch, request)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, gotInteractive)
}

func TestApplyPresets(t *testing.T) {
	build := func(t *testing.T) *wizard.Config {
		orch, _ := newTestOrchestrator(t)
		cfg, err := orch.BuildConfig(context.Background(), &interfaces.Settings{KafkaWorkerNodes: 3})
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		sets    []string
		wantErr error
	}{
		{"valid", []string{"kafka.replicas=1", "kafka.external_access=true"}, nil},
		{"not a bool", []string{"kafka.external_access=maybe"}, ErrValidationFailed},
		{"no equals", []string{"kafka.replicas"}, ErrValidationFailed},
		{"no section", []string{"replicas=2"}, ErrValidationFailed},
		{"unknown section", []string{"zookeeper.replicas=2"}, wizard.ErrNotMember},
		{"unknown question", []string{"kafka.partitions=2"}, wizard.ErrNotMember},
		{"validator rejects", []string{"kafka.replicas=7"}, ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyPresets(build(t), tt.sets)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrchestrator_Output(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout", func(t *testing.T) {
		orch, out := newTestOrchestrator(t)
		require.NoError(t, orch.Output(ctx, "a: 1", &interfaces.Settings{Target: "stdout"}))
		assert.Equal(t, []string{"a: 1"}, out.stdout)
	})

	t.Run("file", func(t *testing.T) {
		orch, out := newTestOrchestrator(t)
		require.NoError(t, orch.Output(ctx, "a: 1", &interfaces.Settings{Target: "file:/tmp/answers.yaml"}))
		assert.Equal(t, "a: 1", out.files["/tmp/answers.yaml"])
	})

	t.Run("clipboard falls back to stdout", func(t *testing.T) {
		orch, out := newTestOrchestrator(t)
		out.clipboardErr = errors.New("no display")
		require.NoError(t, orch.Output(ctx, "a: 1", &interfaces.Settings{Target: "clipboard"}))
		assert.Equal(t, []string{"a: 1"}, out.stdout)
	})

	t.Run("unknown target", func(t *testing.T) {
		orch, _ := newTestOrchestrator(t)
		err := orch.Output(ctx, "a: 1", &interfaces.Settings{Target: "printer"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestOutputHandler_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "answers.yaml")
	require.NoError(t, NewOutputHandler().WriteToFile("a: 1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1", string(data))
}

func TestOutputHandler_WriteToStdout(t *testing.T) {
	var buf strings.Builder
	h := &OutputHandler{stdout: &buf}
	require.NoError(t, h.WriteToStdout("hello"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestWizardError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *WizardError
		wantText string
	}{
		{
			name: "error with guidance",
			err: &WizardError{
				Type:     ErrValidationFailed,
				Message:  "test message",
				Guidance: "test guidance",
			},
			wantText: "validation error: test message\n\nSuggestion: test guidance",
		},
		{
			name: "error with cause",
			err: &WizardError{
				Type:    ErrConfigurationInvalid,
				Message: "config error",
				Cause:   errors.New("boom"),
			},
			wantText: "configuration error: config error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantText {
				t.Errorf("WizardError.Error() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestNewDefinitionError_Guidance(t *testing.T) {
	tests := []struct {
		cause error
		want  string
	}{
		{&wizard.Error{Type: wizard.ErrUnresolvedDependency}, "declared earlier"},
		{&wizard.Error{Type: wizard.ErrUndeclaredDependency}, "depends_on"},
		{&wizard.Error{Type: wizard.ErrInvalidDefault}, "match the question kind"},
		{os.ErrNotExist, "does not exist"},
	}

	for _, tt := range tests {
		err := NewDefinitionError("w.hcl", tt.cause)
		assert.Contains(t, err.Guidance, tt.want)
		assert.ErrorIs(t, err, tt.cause)
	}
}

func TestIsRecoverableError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		recoverable bool
	}{
		{
			name:        "clipboard output error",
			err:         NewOutputError("clipboard", errors.New("no display")),
			recoverable: true,
		},
		{
			name:        "file output error",
			err:         NewOutputError("file:/x", errors.New("denied")),
			recoverable: false,
		},
		{
			name:        "configuration error",
			err:         NewConfigurationError("config invalid", nil),
			recoverable: false,
		},
		{
			name:        "plain error",
			err:         errors.New("regular error"),
			recoverable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverableError(tt.err); got != tt.recoverable {
				t.Errorf("IsRecoverableError() = %v, want %v", got, tt.recoverable)
			}
		})
	}
}

func TestRecoverFromError_WrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	err := RecoverFromError(cause)

	var wizardErr *WizardError
	require.ErrorAs(t, err, &wizardErr)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, RecoverFromError(nil))
}
