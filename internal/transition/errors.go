package transition

import "fmt"

// ValidationError reports a required transition field that neither configuration nor
// the user supplied.
type ValidationError struct {
	Transition string
	FieldID    string
	Field      string
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Message is the corrective line shown to the user.
func (e *ValidationError) Message() string {
	name := e.Field
	if name == "" {
		name = e.FieldID
	}
	return fmt.Sprintf("%s requires %q, set it under transitions in the configuration or run interactively.", e.Transition, name)
}
