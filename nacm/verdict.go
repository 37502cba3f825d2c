package nacm

// Verdict is the result of evaluate_rpc/evaluate_write. The zero value
// is Permit. A denied Verdict always carries a non-nil Err built by the
// ErrorPayload collaborator.
type Verdict struct {
	Deny bool
	Err  error
}

// Permitted reports whether the verdict allows the request.
func (v Verdict) Permitted() bool {
	return !v.Deny
}

func deny(ep ErrorPayload, appTag, message string) (Verdict, error) {
	builtErr, err := ep.AccessDenied(appTag, message)
	if err != nil {
		return Verdict{}, &CollaboratorError{Op: "access_denied", Err: err}
	}
	return Verdict{Deny: true, Err: builtErr}, nil
}
