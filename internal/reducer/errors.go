package reducer

import "fmt"

// ValidationError rejects an action whose payload breaks a data rule.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Description)
}

// ReferenceError rejects an action that targets an id that does not exist.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}
