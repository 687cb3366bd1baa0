package interfaces

// Settings represents the application configuration
type Settings struct {
	UseDefaults        bool   `mapstructure:"use_defaults"`
	InteractiveDefault bool   `mapstructure:"interactive_default"`
	Format             string `mapstructure:"format"`
	Target             string `mapstructure:"target"`
	TemplatePath       string `mapstructure:"template_path"`
	Definition         string `mapstructure:"definition"`
	LogLevel           string `mapstructure:"log_level"`
	LogJSON            bool   `mapstructure:"log_json"`
	KafkaWorkerNodes   int    `mapstructure:"kafka_worker_nodes"`
}

// ConfigManager handles configuration loading and resolution
type ConfigManager interface {
	// Load loads configuration from the specified path
	Load(path string) (*Settings, error)

	// SetFlag records a command line override for Resolve
	SetFlag(key string, value any)

	// Resolve applies precedence rules (flags > env > config > defaults)
	Resolve() (*Settings, error)

	// Validate validates the configuration values
	Validate(settings *Settings) error
}
