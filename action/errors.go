package action

import "fmt"

// ErrActionNotFound is returned when an invocation references an
// unregistered action.
type ErrActionNotFound struct {
	Name string
}

// Error returns a formatted error message including the action name.
func (e *ErrActionNotFound) Error() string {
	return fmt.Sprintf("action: not found: %s", e.Name)
}

// ErrActionAlreadyRegistered is returned when registering an action with a
// duplicate name.
type ErrActionAlreadyRegistered struct {
	Name string
}

// Error returns a formatted error message including the duplicate name.
func (e *ErrActionAlreadyRegistered) Error() string {
	return fmt.Sprintf("action: already registered: %s", e.Name)
}

// ErrInvalidArguments is returned when invocation arguments fail schema
// validation or do not parse as JSON.
type ErrInvalidArguments struct {
	Name string
	Err  error
}

// Error returns a formatted error message including the action name and cause.
func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("action: %s: invalid arguments: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}
