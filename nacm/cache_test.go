package nacm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cache order must survive a dropped rule (one whose path resolves to
// no nodes) sitting between two kept rules.
func TestBuildCachePreservesOrderAroundDroppedRule(t *testing.T) {
	x := node("x")
	y := node("y")
	root := node("r", x, y)
	full := node("", root)

	first := &Rule{Name: "first", ModuleName: "*", Type: RuleTypePath, Path: "/r/x", AccessOperations: "read", Action: ActionPermit}
	dropped := &Rule{Name: "dropped", ModuleName: "*", Type: RuleTypePath, Path: "/r/nonexistent", AccessOperations: "read", Action: ActionDeny}
	last := &Rule{Name: "last", ModuleName: "*", Type: RuleTypePath, Path: "/r/y", AccessOperations: "read", Action: ActionDeny}

	view := NewPolicyView(&Policy{
		EnableNACM: true,
		RuleLists:  []*RuleList{{Name: "RL", Groups: []string{"G"}, Rules: []*Rule{first, dropped, last}}},
	})
	groups := []*Group{{Name: "G", Users: []string{"u"}}}

	cache, err := buildCache(view, groups, "read", "", fakeTree{}, fakeSchema{}, full)
	require.NoError(t, err)
	require.Len(t, cache, 2)
	assert.Equal(t, "first", cache[0].Rule.Name)
	assert.Equal(t, "last", cache[1].Rule.Name)
}

// A rule-list that does not apply to the user's groups contributes no
// entries at all.
func TestBuildCacheSkipsNonApplyingRuleList(t *testing.T) {
	root := node("r", node("x"))
	full := node("", root)
	r := &Rule{Name: "r", ModuleName: "*", Type: RuleTypePath, Path: "/r/x", AccessOperations: "read", Action: ActionDeny}
	view := NewPolicyView(&Policy{
		EnableNACM: true,
		RuleLists:  []*RuleList{{Name: "RL", Groups: []string{"other"}, Rules: []*Rule{r}}},
	})
	groups := []*Group{{Name: "G", Users: []string{"u"}}}

	cache, err := buildCache(view, groups, "read", "", fakeTree{}, fakeSchema{}, full)
	require.NoError(t, err)
	assert.Empty(t, cache)
}
