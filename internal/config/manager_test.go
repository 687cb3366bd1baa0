package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
	"wizard-cli/internal/interfaces"
)

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager() returned nil")
	}
	if manager.v == nil {
		t.Fatal("NewManager() created manager with nil viper instance")
	}
}

func TestManager_Load_DefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	manager := NewManager()

	// No config file under the fake home, defaults apply
	settings, err := manager.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if settings.Format != "yaml" {
		t.Errorf("Expected Format to be 'yaml', got %s", settings.Format)
	}
	if settings.Target != "stdout" {
		t.Errorf("Expected Target to be 'stdout', got %s", settings.Target)
	}
	if !settings.InteractiveDefault {
		t.Error("Expected InteractiveDefault to be true")
	}
	if settings.UseDefaults {
		t.Error("Expected UseDefaults to be false")
	}
	if settings.KafkaWorkerNodes != 3 {
		t.Errorf("Expected KafkaWorkerNodes to be 3, got %d", settings.KafkaWorkerNodes)
	}
}

func TestManager_Load_CustomFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
use_defaults = true
interactive_default = false
format = "JSON"
target = "file:/tmp/answers.json"
definition = "/wizards/kafka.hcl"
log_level = "debug"
kafka_worker_nodes = 5
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	manager := NewManager()
	settings, err := manager.Load(configPath)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", configPath, err)
	}

	if !settings.UseDefaults {
		t.Error("Expected UseDefaults to be true")
	}
	if settings.InteractiveDefault {
		t.Error("Expected InteractiveDefault to be false")
	}
	if settings.Format != "json" {
		t.Errorf("Expected Format to be 'json', got %s", settings.Format)
	}
	if settings.Definition != "/wizards/kafka.hcl" {
		t.Errorf("Expected Definition to be '/wizards/kafka.hcl', got %s", settings.Definition)
	}
	if settings.KafkaWorkerNodes != 5 {
		t.Errorf("Expected KafkaWorkerNodes to be 5, got %d", settings.KafkaWorkerNodes)
	}
}

func TestManager_Load_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("format = ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager().Load(configPath); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestManager_Validate(t *testing.T) {
	manager := NewManager()

	valid := func() *interfaces.Settings {
		return &interfaces.Settings{
			Format:           "yaml",
			Target:           "stdout",
			LogLevel:         "info",
			KafkaWorkerNodes: 3,
		}
	}

	tests := []struct {
		name     string
		settings func() *interfaces.Settings
		wantErrs int
	}{
		{
			name:     "nil settings",
			settings: func() *interfaces.Settings { return nil },
			wantErrs: 1,
		},
		{
			name:     "valid settings",
			settings: valid,
		},
		{
			name: "invalid format",
			settings: func() *interfaces.Settings {
				s := valid()
				s.Format = "xml"
				return s
			},
			wantErrs: 1,
		},
		{
			name: "template without path",
			settings: func() *interfaces.Settings {
				s := valid()
				s.Format = "template"
				return s
			},
			wantErrs: 1,
		},
		{
			name: "valid file target",
			settings: func() *interfaces.Settings {
				s := valid()
				s.Target = "file:/tmp/answers.yaml"
				return s
			},
		},
		{
			name: "every field invalid",
			settings: func() *interfaces.Settings {
				return &interfaces.Settings{
					Format:           "xml",
					Target:           "printer",
					LogLevel:         "loud",
					KafkaWorkerNodes: 0,
				}
			},
			wantErrs: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.Validate(tt.settings())
			if got := len(multierr.Errors(err)); got != tt.wantErrs {
				t.Errorf("Validate() returned %d errors (%v), want %d", got, err, tt.wantErrs)
			}
		})
	}
}

func TestManager_SetFlag(t *testing.T) {
	manager := NewManager()

	manager.SetFlag("format", "toml")
	manager.SetFlag("target", "clipboard")

	if manager.flags["format"] != "toml" {
		t.Errorf("Expected flag 'format' to be 'toml', got %v", manager.flags["format"])
	}
	if manager.flags["target"] != "clipboard" {
		t.Errorf("Expected flag 'target' to be 'clipboard', got %v", manager.flags["target"])
	}
}

func TestManager_Resolve_FlagPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
format = "toml"
target = "clipboard"
use_defaults = true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	manager := NewManager()

	if _, err := manager.Load(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Flags override config values
	manager.SetFlag("format", "json")
	manager.SetFlag("use_defaults", false)
	manager.SetFlag("kafka_worker_nodes", 7)

	settings, err := manager.Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if settings.Format != "json" {
		t.Errorf("Expected Format to be 'json' (from flag), got %s", settings.Format)
	}
	if settings.UseDefaults {
		t.Error("Expected UseDefaults to be false (from flag)")
	}
	if settings.KafkaWorkerNodes != 7 {
		t.Errorf("Expected KafkaWorkerNodes to be 7 (from flag), got %d", settings.KafkaWorkerNodes)
	}

	// Target should remain from config since no flag was set
	if settings.Target != "clipboard" {
		t.Errorf("Expected Target to be 'clipboard' (from config), got %s", settings.Target)
	}
}

func TestManager_Resolve_EnvironmentVariables(t *testing.T) {
	t.Setenv("WIZARD_FORMAT", "toml")
	t.Setenv("WIZARD_USE_DEFAULTS", "true")

	manager := NewManager()

	settings, err := manager.Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if settings.Format != "toml" {
		t.Errorf("Expected Format to be 'toml' (from env), got %s", settings.Format)
	}
	if !settings.UseDefaults {
		t.Error("Expected UseDefaults to be true (from env)")
	}
}

func TestManager_Resolve_DecodesEveryKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIZARD_USE_DEFAULTS", "true")
	t.Setenv("WIZARD_INTERACTIVE_DEFAULT", "false")
	t.Setenv("WIZARD_FORMAT", "TEMPLATE")
	t.Setenv("WIZARD_TARGET", "clipboard")
	t.Setenv("WIZARD_TEMPLATE_PATH", "/tmpl/values.tmpl")
	t.Setenv("WIZARD_DEFINITION", "/wizards/kafka.hcl")
	t.Setenv("WIZARD_LOG_LEVEL", "debug")
	t.Setenv("WIZARD_LOG_JSON", "true")
	t.Setenv("WIZARD_KAFKA_WORKER_NODES", "6")

	settings, err := NewManager().Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	want := &interfaces.Settings{
		UseDefaults:        true,
		InteractiveDefault: false,
		Format:             "template",
		Target:             "clipboard",
		TemplatePath:       "/tmpl/values.tmpl",
		Definition:         "/wizards/kafka.hcl",
		LogLevel:           "debug",
		LogJSON:            true,
		KafkaWorkerNodes:   6,
	}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_Resolve_UndecodableValue(t *testing.T) {
	t.Setenv("WIZARD_KAFKA_WORKER_NODES", "many")

	if _, err := NewManager().Resolve(); err == nil {
		t.Error("Expected error for non-numeric kafka_worker_nodes")
	}
}

func TestManager_Load_TildePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "wizard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "custom.toml"), []byte(`definition = "~/wizards/kafka.hcl"`), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := NewManager().Load("~/.config/wizard/custom.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(home, "wizards", "kafka.hcl"); settings.Definition != want {
		t.Errorf("Definition = %s, expected %s", settings.Definition, want)
	}
}

func TestSettingsMap(t *testing.T) {
	m := SettingsMap(&interfaces.Settings{KafkaWorkerNodes: 4, Format: "yaml"})
	if m["kafka_worker_nodes"] != 4 {
		t.Errorf("kafka_worker_nodes = %v, want 4", m["kafka_worker_nodes"])
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "absolute path",
			path:     "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "relative path",
			path:     "relative/path",
			expected: "relative/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.path)
			if result != tt.expected {
				t.Errorf("expandPath(%s) = %s, expected %s", tt.path, result, tt.expected)
			}
		})
	}

	// Test tilde expansion separately since it depends on user home
	homeDir, err := os.UserHomeDir()
	if err == nil {
		result := expandPath("~/test/path")
		expected := filepath.Join(homeDir, "test/path")
		if result != expected {
			t.Errorf("expandPath(~/test/path) = %s, expected %s", result, expected)
		}
	}

	if !strings.HasSuffix(expandPath("~/x"), "x") {
		t.Error("expandPath must keep the path tail")
	}
}
