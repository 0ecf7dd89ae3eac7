package config

// Config represents the full application configuration.
type Config struct {
	Suites        SuitesConfig        `yaml:"suites"`
	Defense       DefenseConfig       `yaml:"defense"`
	Output        OutputConfig        `yaml:"output"`
	Redaction     RedactionConfig     `yaml:"redaction"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// SuitesConfig configures where suite definitions are read from.
type SuitesConfig struct {
	Directory string `yaml:"directory"`
}

// DefenseConfig configures the defense simulator.
type DefenseConfig struct {
	// StrategiesPath is the YAML file holding named defense strategies.
	StrategiesPath string `yaml:"strategiesPath"`

	// CatalogPath is the YAML file holding attack vectors. Empty means the
	// built-in catalog.
	CatalogPath string `yaml:"catalogPath"`

	// SampleSize limits how many vectors a probe uses. Zero means all.
	SampleSize int `yaml:"sampleSize"`
}

// OutputConfig configures where report artifacts are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// RedactionConfig configures secret scrubbing of artifacts and history.
type RedactionConfig struct {
	Enabled bool `yaml:"enabled"`

	// Patterns maps extra pattern names to regular expressions, applied on
	// top of the built-in detectors.
	Patterns map[string]string `yaml:"patterns"`
}

// StoreConfig configures the persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warning
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.Suites = chooseSuites(base.Suites, overlay.Suites)
	result.Defense = chooseDefense(base.Defense, overlay.Defense)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Redaction = chooseRedaction(base.Redaction, overlay.Redaction)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseSuites(base, overlay SuitesConfig) SuitesConfig {
	if overlay.Directory != "" {
		return overlay
	}
	return base
}

func chooseDefense(base, overlay DefenseConfig) DefenseConfig {
	if overlay.StrategiesPath != "" || overlay.CatalogPath != "" || overlay.SampleSize != 0 {
		return overlay
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	if overlay.Directory != "" {
		return overlay
	}
	return base
}

func chooseRedaction(base, overlay RedactionConfig) RedactionConfig {
	if overlay.Enabled || len(overlay.Patterns) > 0 {
		return overlay
	}
	return base
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base
	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	return result
}
