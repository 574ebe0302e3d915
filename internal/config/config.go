package config

// Config is the command line tool configuration.
type Config struct {
	// Catalog is the path of the class catalog YAML file.
	Catalog    string           `yaml:"catalog"`
	Logging    LoggingConfig    `yaml:"logging"`
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type SupervisorConfig struct {
	// MaxDepth bounds the failover chain length. Negative means unlimited.
	MaxDepth               int  `yaml:"max_depth"`
	InheritDefaultFailover bool `yaml:"inherit_default_failover"`
}

type MetricsConfig struct {
	// Print writes the failover counters after each command.
	Print bool `yaml:"print"`
}
