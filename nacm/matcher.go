package nacm

// matchRPC implements spec.md §4.2.1 (RFC 8341 §3.4.4 step 7).
func matchRPC(r *Rule, module, name string) bool {
	if !moduleMatches(r.ModuleName, module) {
		return false
	}
	switch r.Type {
	case RuleTypeAny:
		// no rpc-name/path/notification-name: matches any operation.
	case RuleTypeRPC:
		if !(r.RPCName == "*" || r.RPCName == name) {
			return false
		}
	default:
		// wrong rule-type (path or notification-name): never matches an RPC.
		return false
	}
	return r.matchesMode("exec", "")
}

// dataNodeAccessMode maps a requested data-node access to its primary
// and secondary (write) mode strings for §4.2.3 token matching.
func dataNodeAccessMode(op string) (primary, secondary string) {
	switch op {
	case "read":
		return "read", ""
	case "create", "update", "delete":
		return op, "write"
	default:
		return op, ""
	}
}

// matchDataNode implements spec.md §4.2.2 items 1-2 (item 3,
// access-operations, is filtered earlier, at Preparation Cache build
// time, since it depends only on the rule, not on the candidate node).
//
// inPaths reports whether node is a member of (or has an ancestor in)
// the rule's pre-evaluated node set; it is meaningless (and ignored) for
// rule-type-any rules, which have no path.
func matchDataNode(r *Rule, nodeModule string, inPaths bool) bool {
	if !moduleMatches(r.ModuleName, nodeModule) {
		return false
	}
	if r.Type == RuleTypePath {
		return inPaths
	}
	// rule-type-any: matches any node of compatible access-operation
	// and module.
	return r.Type == RuleTypeAny
}

// nodeInRuleSet reports whether node itself, or any ancestor of node, is
// one of the concrete nodes a path rule pre-evaluated to.
func nodeInRuleSet(tree DataTree, node Node, set []Node) bool {
	for _, n := range set {
		if n == node || tree.IsAncestor(node, n) {
			return true
		}
	}
	return false
}
