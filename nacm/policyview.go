package nacm

// PolicyView is the read-only projection of a Policy the rest of the
// engine queries (spec.md §4.1). It materialises nothing: every method
// is a direct query over the borrowed Policy.
type PolicyView struct {
	p *Policy
}

// NewPolicyView wraps policy for the duration of one evaluation. policy
// is borrowed, never copied or retained past the call that created this
// view.
func NewPolicyView(policy *Policy) *PolicyView {
	return &PolicyView{p: policy}
}

// Enabled reports enable-nacm. A nil Policy is treated as disabled,
// matching evaluate_rpc/evaluate_write/evaluate_read's first pre-check
// ("If Policy is absent or enable-nacm is false -> Permit").
func (v *PolicyView) Enabled() bool {
	return v.p != nil && v.p.EnableNACM
}

// IsRecovery reports whether user is the configured recovery user.
func (v *PolicyView) IsRecovery(user string) bool {
	if v.p == nil || user == "" {
		return false
	}
	return v.p.RecoveryUser != "" && v.p.RecoveryUser == user
}

// Default returns the configured default action for kind. write-default
// is mandatory: its absence is a FatalConfigError. read-default and
// exec-default default to permit when absent.
func (v *PolicyView) Default(kind DefaultKind) (Action, error) {
	if v.p == nil {
		return ActionUnspecified, &FatalConfigError{Msg: "policy is absent"}
	}
	switch kind {
	case DefaultRead:
		if v.p.ReadDefault == nil {
			return ActionPermit, nil
		}
		return *v.p.ReadDefault, nil
	case DefaultExec:
		if v.p.ExecDefault == nil {
			return ActionPermit, nil
		}
		return *v.p.ExecDefault, nil
	case DefaultWrite:
		if v.p.WriteDefault == nil {
			return ActionUnspecified, &FatalConfigError{Msg: "write-default is not configured"}
		}
		return *v.p.WriteDefault, nil
	default:
		return ActionUnspecified, &FatalConfigError{Msg: "unrecognised default kind"}
	}
}

// GroupsFor returns every Group the user belongs to, in policy document
// order. extGroups are transport-provided group names unioned in only
// when enable-external-groups is set; they are matched against the same
// Policy.Groups list by name, not invented on the fly.
func (v *PolicyView) GroupsFor(user string, extGroups []string) []*Group {
	if v.p == nil || user == "" {
		return nil
	}
	external := map[string]bool{}
	if v.p.EnableExternalGroups {
		for _, g := range extGroups {
			external[g] = true
		}
	}
	var out []*Group
	for _, g := range v.p.Groups {
		if g.hasUser(user) || external[g.Name] {
			out = append(out, g)
		}
	}
	return out
}

// RuleLists returns the policy's rule-lists in document order.
func (v *PolicyView) RuleLists() []*RuleList {
	if v.p == nil {
		return nil
	}
	return v.p.RuleLists
}

func groupNameSet(groups []*Group) map[string]bool {
	set := make(map[string]bool, len(groups))
	for _, g := range groups {
		set[g.Name] = true
	}
	return set
}
