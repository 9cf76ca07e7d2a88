package kernel

import "fmt"

// FatalError marks a configuration, resource, or geometric-invariant
// violation. The engine's tick loop recovers it at the boundary and
// reports it as a single message before the process exits — never
// silently swallowed. Raised outside the tick loop (RegisterRobot), it
// propagates to the caller as an unrecovered panic.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return e.Message }

func fatalf(format string, args ...interface{}) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}
