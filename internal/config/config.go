package config

import (
	"time"
)

// Config is the root harness configuration.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Conformance ConformanceConfig `yaml:"conformance"`
}

// DatabaseConfig holds PostgreSQL connection settings. The harness uses a
// single logical connection, so MaxConns defaults to 1.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_URL"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"1"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// ConformanceConfig selects the table, the contract and the type policy.
// An empty Table means the contract's own table (users for the built-in one).
type ConformanceConfig struct {
	Table        string        `yaml:"table"         env:"CONFORMANCE_TABLE"`
	ContractPath string        `yaml:"contract_path" env:"CONFORMANCE_CONTRACT_PATH"`
	TypePolicy   string        `yaml:"type_policy"   env:"CONFORMANCE_TYPE_POLICY"   env-default:"exact"`
	Timeout      time.Duration `yaml:"timeout"       env:"CONFORMANCE_TIMEOUT"       env-default:"2m"`
	NoColor      bool          `yaml:"no_color"`
	// NoColorEnv follows the NO_COLOR convention: any non-empty value counts.
	NoColorEnv string `yaml:"-" env:"NO_COLOR"`
}

// ColorDisabled reports whether colored output is turned off by the config
// file or by NO_COLOR.
func (c ConformanceConfig) ColorDisabled() bool {
	return c.NoColor || c.NoColorEnv != ""
}
