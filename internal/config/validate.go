package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate performs rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be >= 1 (got %d)", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be between 0 and max_conns (got %d)", c.Database.MinConns)
	}

	if err := c.Conformance.validate(); err != nil {
		return fmt.Errorf("conformance: %w", err)
	}

	return nil
}

func (c *ConformanceConfig) validate() error {
	if c.Table != "" && !tableNameRe.MatchString(c.Table) {
		return fmt.Errorf("table %q is not a valid identifier", c.Table)
	}
	if !domain.TypePolicy(c.TypePolicy).IsValid() {
		return fmt.Errorf("type_policy must be %q or %q (got %q)", domain.TypePolicyExact, domain.TypePolicyLenient, c.TypePolicy)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", c.Timeout)
	}
	return nil
}

// Policy returns the configured type policy.
func (c ConformanceConfig) Policy() domain.TypePolicy {
	return domain.TypePolicy(c.TypePolicy)
}
