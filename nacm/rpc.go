package nacm

import log "github.com/golang/glog"

// EvaluateRPC implements spec.md §4.4 (RFC 8341 §3.4.4). user == "" means
// the requestor identity is unknown, which jumps straight to the default
// step exactly as an authenticated-but-groupless user would.
func EvaluateRPC(policy *Policy, ep ErrorPayload, user string, extGroups []string, module, operation string) (Verdict, error) {
	view := NewPolicyView(policy)

	if !view.Enabled() {
		return Verdict{}, nil
	}
	if view.IsRecovery(user) {
		return Verdict{}, nil
	}
	if operation == "close-session" {
		return Verdict{}, nil
	}

	if user != "" {
		groups := view.GroupsFor(user, extGroups)
		if len(groups) > 0 {
			groupSet := groupNameSet(groups)
			for _, rl := range view.RuleLists() {
				if !rl.appliesToAny(groupSet) {
					continue
				}
				for _, r := range rl.Rules {
					if !matchRPC(r, module, operation) {
						continue
					}
					log.V(2).Infof("nacm: rpc %s/%s matched rule %q for user %q: %s", module, operation, r.Name, user, r.Action)
					if r.Action == ActionDeny {
						return deny(ep, AppTagAccessDenied, msgAccessDenied)
					}
					return Verdict{}, nil
				}
			}
		}
	}

	// Default step (spec.md §4.4 step 7).
	if operation == "kill-session" || operation == "delete-config" {
		log.V(2).Infof("nacm: rpc %s is unconditionally denied by default unless explicitly permitted", operation)
		return deny(ep, AppTagAccessDenied, msgDefaultDeny)
	}
	execDefault, err := view.Default(DefaultExec)
	if err != nil {
		return Verdict{}, err
	}
	if execDefault == ActionDeny {
		return deny(ep, AppTagAccessDenied, msgDefaultDeny)
	}
	return Verdict{}, nil
}
