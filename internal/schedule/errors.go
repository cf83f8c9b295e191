package schedule

import "fmt"

// ConfigError reports invalid or inconsistent schedule/checkpoint
// configuration. It is detected at load or build time and is fatal: no
// partial construction proceeds.
type ConfigError struct {
	Field   string // offending field, e.g. "timesteps"
	Value   any    // value that failed validation
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Details)
	}
	return fmt.Sprintf("config: %s", e.Details)
}

// RangeError reports a timestep outside [0, Timesteps). It is fatal to
// the call that produced it.
//
//nolint:revive // RangeError is clearer than Error at call sites
type RangeError struct {
	Timestep  int
	Timesteps int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("timestep %d out of range [0, %d)", e.Timestep, e.Timesteps)
}
