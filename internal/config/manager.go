package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"wizard-cli/internal/interfaces"
	"wizard-cli/internal/logging"
)

// Supported output formats
var validFormats = map[string]bool{
	"yaml":     true,
	"json":     true,
	"toml":     true,
	"template": true,
}

// Manager implements the ConfigManager interface
type Manager struct {
	v     *viper.Viper
	flags map[string]interface{} // Store flag values for precedence
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("WIZARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	setDefaults(v)

	return &Manager{
		v:     v,
		flags: make(map[string]interface{}),
	}
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("use_defaults", false)
	v.SetDefault("interactive_default", true)
	v.SetDefault("format", "yaml")
	v.SetDefault("target", "stdout")
	v.SetDefault("template_path", "")
	v.SetDefault("definition", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("kafka_worker_nodes", 3)
}

// DefaultPath returns ~/.config/wizard/config.toml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "wizard", "config.toml"), nil
}

// Load loads configuration from the specified path
func (m *Manager) Load(path string) (*interfaces.Settings, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	path = expandPath(path)

	// Config file is optional, defaults apply when it is missing
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return m.getSettingsFromViper()
	}

	m.v.SetConfigFile(path)

	if err := m.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return m.getSettingsFromViper()
}

// SetFlag sets a flag value for precedence resolution
func (m *Manager) SetFlag(key string, value interface{}) {
	m.flags[key] = value
}

// Resolve applies precedence rules (flags > env > config > defaults)
func (m *Manager) Resolve() (*interfaces.Settings, error) {
	settings, err := m.getSettingsFromViper()
	if err != nil {
		return nil, err
	}

	// Apply flag overrides (highest precedence)
	m.applyFlagOverrides(settings)

	return settings, nil
}

// applyFlagOverrides applies flag values over the configuration
func (m *Manager) applyFlagOverrides(settings *interfaces.Settings) {
	if val, ok := m.flags["use_defaults"].(bool); ok {
		settings.UseDefaults = val
	}

	if val, ok := m.flags["format"].(string); ok && val != "" {
		settings.Format = strings.ToLower(val)
	}

	if val, ok := m.flags["target"].(string); ok && val != "" {
		settings.Target = val
	}

	if val, ok := m.flags["template_path"].(string); ok && val != "" {
		settings.TemplatePath = expandPath(val)
	}

	if val, ok := m.flags["definition"].(string); ok && val != "" {
		settings.Definition = expandPath(val)
	}

	if val, ok := m.flags["log_level"].(string); ok && val != "" {
		settings.LogLevel = val
	}

	if val, ok := m.flags["log_json"].(bool); ok {
		settings.LogJSON = val
	}

	if val, ok := m.flags["kafka_worker_nodes"].(int); ok && val != 0 {
		settings.KafkaWorkerNodes = val
	}
}

// Validate validates the configuration values, reporting every problem at once
func (m *Manager) Validate(settings *interfaces.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	var errs error

	if !validFormats[settings.Format] {
		errs = multierr.Append(errs, fmt.Errorf("invalid format: %s (must be 'yaml', 'json', 'toml' or 'template')", settings.Format))
	}

	if settings.Format == "template" && settings.TemplatePath == "" {
		errs = multierr.Append(errs, errors.New("template format requires template_path"))
	}

	validTargets := map[string]bool{
		"clipboard": true,
		"stdout":    true,
	}
	// Also allow file: prefix
	if !validTargets[settings.Target] && !strings.HasPrefix(settings.Target, "file:") {
		errs = multierr.Append(errs, fmt.Errorf("invalid target: %s (must be 'clipboard', 'stdout', or 'file:/path')", settings.Target))
	}

	if settings.KafkaWorkerNodes < 1 {
		errs = multierr.Append(errs, fmt.Errorf("invalid kafka_worker_nodes: %d (must be at least 1)", settings.KafkaWorkerNodes))
	}

	if _, err := logging.ParseLevel(settings.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// getSettingsFromViper decodes viper configuration into Settings
// This handles env > config > defaults precedence (flags are applied separately)
func (m *Manager) getSettingsFromViper() (*interfaces.Settings, error) {
	settings := &interfaces.Settings{}
	if err := m.v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	settings.Format = strings.ToLower(settings.Format)
	settings.TemplatePath = expandPath(settings.TemplatePath)
	settings.Definition = expandPath(settings.Definition)
	return settings, nil
}

// SettingsMap exposes the resolved settings to definition expressions
func SettingsMap(settings *interfaces.Settings) map[string]any {
	return map[string]any{
		"use_defaults":       settings.UseDefaults,
		"format":             settings.Format,
		"target":             settings.Target,
		"kafka_worker_nodes": settings.KafkaWorkerNodes,
	}
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path // Return original path if we can't get home dir
	}

	return filepath.Join(homeDir, path[2:])
}
