package nacm

import log "github.com/golang/glog"

// EvaluateRead implements spec.md §4.6 (RFC 8341 §3.4.5, read path). It
// mutates fullTree and requestedRoots in place via the DataTree
// collaborator; it never returns a structured deny (reads are silently
// pruned, never erred), only a CollaboratorError/FatalConfigError should
// one of the collaborators fail.
func EvaluateRead(policy *Policy, tree DataTree, schema Schema, user string, extGroups []string, fullTree Node, requestedRoots []Node) error {
	view := NewPolicyView(policy)

	if !view.Enabled() {
		return nil
	}
	if view.IsRecovery(user) {
		return nil
	}

	var groups []*Group
	if user != "" {
		groups = view.GroupsFor(user, extGroups)
	}
	if len(groups) == 0 {
		// No rule-list could have permitted anything; the safe default
		// (spec.md §4.6, final paragraph) is to remove every requested
		// root outright.
		log.V(2).Infof("nacm: read by user %q has no groups, denying all requested roots", user)
		for _, root := range requestedRoots {
			tree.Detach(root)
		}
		return nil
	}

	readDefault, err := view.Default(DefaultRead)
	if err != nil {
		return err
	}

	cache, err := buildCache(view, groups, "read", "", tree, schema, fullTree)
	if err != nil {
		return err
	}

	for _, root := range requestedRoots {
		deleted, err := markSubtree(root, tree, schema, cache)
		if err != nil {
			return err
		}
		if deleted {
			tree.Detach(root)
			continue
		}
		if readDefault == ActionDeny {
			tree.PruneUnmarked(root, FlagMark)
		}
		clearMarks(root, tree)
	}
	return nil
}

// markSubtree implements the per-node rule scan and depth-first
// traversal of spec.md §4.6. It sets MARK or DELETE on node per the
// matched rule's action, recurses into element children unless node is
// flagged DELETE, and detaches any child flagged DELETE immediately
// after that child's own traversal returns. It reports whether node
// itself ended up flagged DELETE, so a caller one level up can detach it
// without needing to read the flag back out of the tree.
func markSubtree(node Node, tree DataTree, schema Schema, cache Cache) (deleted bool, err error) {
	matched, action, err := scanCacheForNode(node, tree, schema, cache)
	if err != nil {
		return false, err
	}

	if matched {
		if action == ActionDeny {
			tree.SetFlag(node, FlagDelete)
			// Do not recurse into a denied subtree.
			return true, nil
		}
		tree.SetFlag(node, FlagMark)
	}

	for _, child := range tree.Children(node) {
		childDeleted, err := markSubtree(child, tree, schema, cache)
		if err != nil {
			return false, err
		}
		if childDeleted {
			tree.Detach(child)
		}
	}
	return false, nil
}

// clearMarks removes every MARK flag left over from the read evaluation,
// regardless of which regime set it.
func clearMarks(node Node, tree DataTree) {
	tree.ClearFlag(node, FlagMark)
	for _, child := range tree.Children(node) {
		clearMarks(child, tree)
	}
}
