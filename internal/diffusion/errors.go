package diffusion

import "fmt"

// SamplingError reports a reverse-loop failure, tagged with the
// timestep the loop had reached. The affected sample is aborted
// without retry; anything the caller already persisted from earlier
// timesteps is left in place for the caller to clean up.
type SamplingError struct {
	Timestep int
	Err      error
}

// Error implements the error interface.
func (e *SamplingError) Error() string {
	return fmt.Sprintf("sampling aborted at timestep %d: %v", e.Timestep, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SamplingError) Unwrap() error { return e.Err }
