package nacm

import "fmt"

// FatalConfigError is raised when a mandatory policy field is missing or
// unrecognised (spec.md §7). It is never recovered by the engine; it
// terminates the current evaluation.
type FatalConfigError struct {
	Msg string
}

func (e *FatalConfigError) Error() string {
	return "nacm: fatal config: " + e.Msg
}

// CollaboratorError wraps a failure returned by the DataTree or Schema
// collaborators (path canonicalisation, instance-id resolution, xpath
// evaluation, ...). It is propagated unchanged, per spec.md §7.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("nacm: collaborator failure in %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

const (
	// AppTagAccessDenied is the RFC 8341 application-tag value used for
	// every DeniedAccessControl verdict, rule-driven or default.
	AppTagAccessDenied = "access-denied"

	msgAccessDenied = "access denied"
	msgDefaultDeny  = "default deny"
)
