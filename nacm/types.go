// Package nacm implements the access-control engine of RFC 8341 (NACM):
// rule-list lookup, per-request rule caching and path pre-evaluation, the
// two-pass read algorithm, and the recursive write check with
// descendant-deny semantics. The package has no dependency on any
// particular data-tree, schema, or transport library; it only knows the
// collaborator interfaces declared in collaborators.go.
package nacm

import "strings"

// Action is the verdict a rule or a default prescribes.
type Action int

const (
	ActionUnspecified Action = iota
	ActionPermit
	ActionDeny
)

func (a Action) String() string {
	switch a {
	case ActionPermit:
		return "permit"
	case ActionDeny:
		return "deny"
	default:
		return "unspecified"
	}
}

// ParseAction parses the "permit"/"deny" leaf value used throughout NACM
// policy documents.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "permit":
		return ActionPermit, true
	case "deny":
		return ActionDeny, true
	default:
		return ActionUnspecified, false
	}
}

// RuleType distinguishes the (at most one) rule-type leaf a Rule carries.
type RuleType int

const (
	// RuleTypeAny is a "rule-type-any" rule: none of rpc-name, path, or
	// notification-name is set. It matches any target of compatible
	// access-operation.
	RuleTypeAny RuleType = iota
	RuleTypeRPC
	RuleTypePath
	RuleTypeNotification
)

// Group is a named collection of user-names.
type Group struct {
	Name  string
	Users []string
}

func (g *Group) hasUser(user string) bool {
	for _, u := range g.Users {
		if u == user {
			return true
		}
	}
	return false
}

// Rule is a single NACM rule entry. At most one of RPCName, Path, or
// NotificationName is populated; Type records which (or RuleTypeAny).
type Rule struct {
	Name string

	// ModuleName is the rule's module-name leaf. An empty string means
	// the leaf is absent, which never matches a data-node or RPC
	// request (spec.md §3 item 3 / §4.2.2 item 1).
	ModuleName string

	Type             RuleType
	RPCName          string
	Path             string
	NotificationName string

	// NSContext is the local namespace context the Path expression was
	// written against (prefix -> namespace URI), used by the
	// Data-tree collaborator to canonicalise Path.
	NSContext map[string]string

	// AccessOperations is the raw, space-separated access-operations
	// leaf value ("*", "read write", "create update delete exec", ...).
	// An empty string means the leaf is absent (matches nothing).
	AccessOperations string

	Action Action
}

// matchesMode tests whether the rule's access-operations leaf contains
// the requested primary mode, the given secondary mode (e.g. "write" for
// create/update/delete), or the wildcard "*". Implemented as set
// membership over whitespace-separated tokens, never substring matching
// (spec.md §4.2.3).
func (r *Rule) matchesMode(primary, secondary string) bool {
	if r.AccessOperations == "" {
		return false
	}
	for _, tok := range strings.Fields(r.AccessOperations) {
		if tok == "*" || tok == primary || (secondary != "" && tok == secondary) {
			return true
		}
	}
	return false
}

// RuleList is an ordered, named container of Rules applying to a set of
// groups.
type RuleList struct {
	Name   string
	Groups []string
	Rules  []*Rule
}

func (rl *RuleList) appliesToAny(userGroups map[string]bool) bool {
	for _, g := range rl.Groups {
		if userGroups[g] {
			return true
		}
	}
	return false
}

// DefaultKind selects which of the three NACM defaults is being queried.
type DefaultKind int

const (
	DefaultRead DefaultKind = iota
	DefaultWrite
	DefaultExec
)

// Policy is the read-only projection of an NACM policy document the
// engine consumes for the duration of one request. The loader that
// produces it, and any caching of it across requests, is out of scope
// (spec.md §1).
type Policy struct {
	EnableNACM           bool
	RecoveryUser         string
	EnableExternalGroups bool

	// ReadDefault/ExecDefault: nil means absent, which defaults to
	// permit. WriteDefault: nil means absent, which is a
	// configuration error (FatalConfigError) the moment it is needed.
	ReadDefault  *Action
	WriteDefault *Action
	ExecDefault  *Action

	Groups    []*Group
	RuleLists []*RuleList
}
