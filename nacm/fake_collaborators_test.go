package nacm

import (
	"fmt"
	"strings"
)

// testNode is a minimal in-memory data tree used to exercise the engine
// in unit tests, standing in for the xmltree package's real
// antchfx/xmlquery-backed implementation.
type testNode struct {
	name     string
	module   string
	parent   *testNode
	children []*testNode
	flags    map[Flag]bool
}

func node(name string, children ...*testNode) *testNode {
	n := &testNode{name: name, module: "test-module", flags: map[Flag]bool{}}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *testNode) String() string {
	return n.name
}

// fakeTree is the DataTree collaborator used by tests.
type fakeTree struct{}

func (fakeTree) FindChildBody(n Node, name string) (string, bool) {
	tn := n.(*testNode)
	for _, c := range tn.children {
		if c.name == name {
			return c.name, true
		}
	}
	return "", false
}

func (fakeTree) FindChildElement(n Node, name string) (Node, bool) {
	tn := n.(*testNode)
	for _, c := range tn.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (fakeTree) Children(n Node) []Node {
	tn := n.(*testNode)
	out := make([]Node, len(tn.children))
	for i, c := range tn.children {
		out[i] = c
	}
	return out
}

func (fakeTree) IsAncestor(n, candidateAncestor Node) bool {
	tn := n.(*testNode)
	anc := candidateAncestor.(*testNode)
	for p := tn.parent; p != nil; p = p.parent {
		if p == anc {
			return true
		}
	}
	return false
}

func (fakeTree) Detach(n Node) {
	tn := n.(*testNode)
	if tn.parent == nil {
		return
	}
	p := tn.parent
	for i, c := range p.children {
		if c == tn {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	tn.parent = nil
}

func (fakeTree) SetFlag(n Node, flag Flag) {
	n.(*testNode).flags[flag] = true
}

func (fakeTree) ClearFlag(n Node, flag Flag) {
	delete(n.(*testNode).flags, flag)
}

func (t fakeTree) PruneUnmarked(root Node, flag Flag) {
	tn := root.(*testNode)
	kept := tn.children[:0:0]
	for _, c := range tn.children {
		if t.subtreeHasFlag(c, flag) {
			t.PruneUnmarked(c, flag)
			kept = append(kept, c)
		} else {
			c.parent = nil
		}
	}
	tn.children = kept
}

func (fakeTree) subtreeHasFlag(n *testNode, flag Flag) bool {
	if n.flags[flag] {
		return true
	}
	for _, c := range n.children {
		if (fakeTree{}).subtreeHasFlag(c, flag) {
			return true
		}
	}
	return false
}

func (fakeTree) ResolveInstanceID(root Node, schema Schema, path string) ([]Node, error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	cur := []*testNode{root.(*testNode)}
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		var next []*testNode
		for _, c := range cur {
			for _, child := range c.children {
				if child.name == seg {
					next = append(next, child)
				}
			}
		}
		cur = next
	}
	out := make([]Node, len(cur))
	for i, n := range cur {
		out[i] = n
	}
	return out, nil
}

func (fakeTree) CanonicalisePath(path string, nsctx map[string]string, schema Schema) (string, error) {
	return path, nil
}

// fakeSchema is the Schema collaborator used by tests: every node
// carries its module name directly.
type fakeSchema struct{}

func (fakeSchema) ModuleOf(n Node, tree DataTree) (Module, error) {
	return n.(*testNode).module, nil
}

func (fakeSchema) ModuleName(m Module) string {
	return m.(string)
}

// fakeDeniedErr is the structured deny payload built by fakeErrorPayload.
type fakeDeniedErr struct {
	AppTag  string
	Message string
}

func (e *fakeDeniedErr) Error() string {
	return fmt.Sprintf("%s: %s", e.AppTag, e.Message)
}

type fakeErrorPayload struct{}

func (fakeErrorPayload) AccessDenied(appTag, message string) (error, error) {
	return &fakeDeniedErr{AppTag: appTag, Message: message}, nil
}

// failingErrorPayload simulates a CollaboratorFailure from the
// error-payload collaborator.
type failingErrorPayload struct{}

func (failingErrorPayload) AccessDenied(appTag, message string) (error, error) {
	return nil, fmt.Errorf("sink unavailable")
}

