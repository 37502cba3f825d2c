package nacm

import log "github.com/golang/glog"

// EvaluateWrite implements spec.md §4.5 (RFC 8341 §3.4.5, write path).
// access is one of "create", "update", "delete". requestedRoot is the
// node the write targets; fullTree is the whole configuration tree the
// Preparation Cache resolves rule paths against.
func EvaluateWrite(policy *Policy, tree DataTree, schema Schema, ep ErrorPayload, user string, extGroups []string, access string, requestedRoot, fullTree Node) (Verdict, error) {
	view := NewPolicyView(policy)

	if !view.Enabled() {
		return Verdict{}, nil
	}
	if view.IsRecovery(user) {
		return Verdict{}, nil
	}

	// write-default must be configured regardless of which branch below
	// actually consults it (spec.md §4.5).
	writeDefault, err := view.Default(DefaultWrite)
	if err != nil {
		return Verdict{}, err
	}

	var groups []*Group
	if user != "" {
		groups = view.GroupsFor(user, extGroups)
	}

	cache, err := buildCache(view, groups, access, "write", tree, schema, fullTree)
	if err != nil {
		return Verdict{}, err
	}

	deniedNode, err := writeRecurse(requestedRoot, tree, schema, cache, writeDefault)
	if err != nil {
		return Verdict{}, err
	}
	if deniedNode == "" {
		return Verdict{}, nil
	}
	log.V(2).Infof("nacm: write %s on %v denied: %s", access, requestedRoot, deniedNode)
	return deny(ep, AppTagAccessDenied, deniedNode)
}

// writeRecurse returns the non-empty deny message of the first node for
// which access must be denied, or "" if the whole subtree is permitted.
// After a permit match (or a permit default) it still scans every
// descendant against the whole cache, so a deny that applies to a
// descendant fails the write.
func writeRecurse(node Node, tree DataTree, schema Schema, cache Cache, writeDefault Action) (string, error) {
	matched, action, err := scanCacheForNode(node, tree, schema, cache)
	if err != nil {
		return "", err
	}

	if matched {
		if action == ActionDeny {
			// Descendant-deny: the whole write fails immediately,
			// without visiting any descendant.
			return msgAccessDenied, nil
		}
		return recurseChildren(node, tree, schema, cache, writeDefault)
	}

	if writeDefault == ActionDeny {
		return msgDefaultDeny, nil
	}
	return recurseChildren(node, tree, schema, cache, writeDefault)
}

func recurseChildren(node Node, tree DataTree, schema Schema, cache Cache, writeDefault Action) (string, error) {
	for _, child := range tree.Children(node) {
		msg, err := writeRecurse(child, tree, schema, cache, writeDefault)
		if err != nil {
			return "", err
		}
		if msg != "" {
			return msg, nil
		}
	}
	return "", nil
}

// scanCacheForNode implements the per-node rule scan shared by
// evaluate_write (spec.md §4.5 step 1) and evaluate_read (spec.md §4.6):
// walk the cache in order, stop at the first entry whose rule applies to
// node.
func scanCacheForNode(node Node, tree DataTree, schema Schema, cache Cache) (matched bool, action Action, err error) {
	nodeModule, err := moduleNameOf(node, tree, schema)
	if err != nil {
		return false, ActionUnspecified, err
	}
	for _, entry := range cache {
		var inPaths bool
		if entry.Rule.Type == RuleTypePath {
			inPaths = nodeInRuleSet(tree, node, entry.Nodes)
		}
		if matchDataNode(entry.Rule, nodeModule, inPaths) {
			return true, entry.Rule.Action, nil
		}
	}
	return false, ActionUnspecified, nil
}
