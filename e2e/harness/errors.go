package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigError.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrProcessResolution means the UI-hosting process never appeared.
	ErrProcessResolution = errors.New("UI process not resolved")
	// ErrAttach means no automation session could be attached in time.
	ErrAttach = errors.New("attach failed")
	// ErrProcessTableUnsupported marks platforms without a supported way to
	// read parent process ids.
	ErrProcessTableUnsupported = errors.New("process table not supported on this platform")
)

// ConfigError reports a missing or malformed configuration value. It is
// raised before any process is started.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// StepError reports the scenario step that failed and the state the scenario
// was in when it did.
type StepError struct {
	Step  string
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q (in state %s): %v", e.Step, e.State, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
