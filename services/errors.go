package services

import "fmt"

// ValidationError reports malformed or out-of-range input, such as a quoted
// percentage outside [-99.99, 99.99] or a work record missing required fields.
// It aborts the whole request; nothing partial is produced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PreconditionError reports that an operation was attempted out of order,
// e.g. building a document view for a work whose bids were never ranked.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// RenderError reports that one document could not be rendered because a field
// its template requires is missing. It is scoped to a single document; the
// remaining documents in a batch still render.
type RenderError struct {
	DocumentType DocumentType
	Field        string
	Message      string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: missing %s: %s", e.DocumentType, e.Field, e.Message)
}

// AssemblyError reports that a package could not be assembled because no
// artifact rendered successfully.
type AssemblyError struct {
	Message string
}

func (e *AssemblyError) Error() string {
	return e.Message
}
