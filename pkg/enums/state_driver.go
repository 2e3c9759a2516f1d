package enums

import (
	"fmt"
	"strings"
)

// StateDriver names the key-value backend that persists client state.
type StateDriver string

const (
	StateDriverMemory   StateDriver = "memory"
	StateDriverRedis    StateDriver = "redis"
	StateDriverSQLite   StateDriver = "sqlite"
	StateDriverPostgres StateDriver = "postgres"
)

var validStateDrivers = []StateDriver{
	StateDriverMemory,
	StateDriverRedis,
	StateDriverSQLite,
	StateDriverPostgres,
}

func (d StateDriver) String() string {
	return string(d)
}

func (d StateDriver) IsValid() bool {
	for _, candidate := range validStateDrivers {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsSQL reports whether the driver is backed by a gorm dialect.
func (d StateDriver) IsSQL() bool {
	return d == StateDriverSQLite || d == StateDriverPostgres
}

// ParseStateDriver converts raw input into a StateDriver, ignoring case.
func ParseStateDriver(value string) (StateDriver, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStateDrivers {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid state driver %q", value)
}
