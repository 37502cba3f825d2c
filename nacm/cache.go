package nacm

import "github.com/Workiva/go-datastructures/queue"

// CacheEntry pairs a borrowed Rule with the concrete node set its Path
// pre-evaluated to. Nodes is nil for rule-type-any entries (spec.md
// §4.3 step 2c), which match by module-name alone.
type CacheEntry struct {
	Rule  *Rule
	Nodes []Node

	// seq is this entry's position among its rule-list's surviving
	// rules, used only as the PriorityQueue ordering key.
	seq int
}

// Compare orders cache entries by seq, so a PriorityQueue used purely
// for staging yields them back in document order.
func (c CacheEntry) Compare(other queue.Item) int {
	return c.seq - other.(CacheEntry).seq
}

// Cache is the Preparation Cache: an ordered sequence of (Rule, NodeSet)
// entries, scoped to one data-node access request (spec.md §4.3). Order
// preserves both inter-rule-list and intra-rule-list document order.
type Cache []CacheEntry

// buildCache implements spec.md §4.3. mode/secondary select which
// requested access the cache is built for ("read"/"" or
// "create"/"write" etc., see dataNodeAccessMode). fullTree is the root
// instance-identifiers are resolved against.
//
// The per-rule-list staging area is a
// github.com/Workiva/go-datastructures/queue.PriorityQueue, the same
// type the teacher's own sonic_data_client package constructs per
// subscription (queue.NewPriorityQueue(hint, false)); here each staged
// CacheEntry carries its survival-order sequence number as its
// priority key, so draining the queue after a rule-list's rules have
// all been considered yields them back in the exact document order
// they were staged in, with rules dropped for empty path resolution
// never perturbing that order.
func buildCache(view *PolicyView, userGroups []*Group, mode, secondary string, tree DataTree, schema Schema, fullTree Node) (Cache, error) {
	groupSet := groupNameSet(userGroups)

	var cache Cache
	for _, rl := range view.RuleLists() {
		if !rl.appliesToAny(groupSet) {
			continue
		}

		staged := queue.NewPriorityQueue(len(rl.Rules), false)
		seq := 0
		for _, r := range rl.Rules {
			if r.Type == RuleTypeRPC || r.Type == RuleTypeNotification {
				continue
			}
			if !r.matchesMode(mode, secondary) {
				continue
			}
			if r.Type == RuleTypePath {
				canon, err := tree.CanonicalisePath(r.Path, r.NSContext, schema)
				if err != nil {
					return nil, &CollaboratorError{Op: "canonicalise_path", Err: err}
				}
				nodes, err := tree.ResolveInstanceID(fullTree, schema, canon)
				if err != nil {
					return nil, &CollaboratorError{Op: "resolve_instance_id", Err: err}
				}
				if len(nodes) == 0 {
					// Drop the rule entirely: it targets nothing in
					// this tree.
					continue
				}
				if err := staged.Put(CacheEntry{Rule: r, Nodes: nodes, seq: seq}); err != nil {
					return nil, &CollaboratorError{Op: "cache_stage", Err: err}
				}
				seq++
				continue
			}
			// rule-type-any.
			if err := staged.Put(CacheEntry{Rule: r, Nodes: nil, seq: seq}); err != nil {
				return nil, &CollaboratorError{Op: "cache_stage", Err: err}
			}
			seq++
		}

		n := staged.Len()
		if n == 0 {
			continue
		}
		items, err := staged.Get(n)
		if err != nil {
			return nil, &CollaboratorError{Op: "cache_drain", Err: err}
		}
		for _, it := range items {
			cache = append(cache, it.(CacheEntry))
		}
	}
	return cache, nil
}
