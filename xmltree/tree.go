// Package xmltree is a reference implementation of the nacm.DataTree
// collaborator (spec.md §6) over an in-memory XML document, using
// github.com/antchfx/xmlquery for tree navigation and
// github.com/antchfx/xpath for instance-identifier / XPath resolution.
// It is grounded in how the teacher's own translib-adjacent packages
// resolve a request path against a parsed configuration document before
// handing it to the data-client layer, but swaps translib's native tree
// for a small, dependency-light XML one.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	log "github.com/golang/glog"

	"github.com/sonic-net/sonic-nacm/nacm"
)

// Tree adapts an antchfx/xmlquery document to nacm.DataTree. The zero
// value is ready to use.
type Tree struct{}

// Parse reads an XML document and returns its root element, suitable as
// the fullTree/requestedRoots arguments to the nacm evaluators.
func Parse(r io.Reader) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("xmltree: parse: %w", err)
	}
	root := xmlquery.FindOne(doc, "/*")
	if root == nil {
		return doc, nil
	}
	return root, nil
}

func asNode(n nacm.Node) *xmlquery.Node {
	x, ok := n.(*xmlquery.Node)
	if !ok || x == nil {
		return nil
	}
	return x
}

func (Tree) FindChildBody(n nacm.Node, name string) (string, bool) {
	x := asNode(n)
	for c := x.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return strings.TrimSpace(c.InnerText()), true
		}
	}
	return "", false
}

func (Tree) FindChildElement(n nacm.Node, name string) (nacm.Node, bool) {
	x := asNode(n)
	for c := x.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c, true
		}
	}
	return nil, false
}

func (Tree) Children(n nacm.Node) []nacm.Node {
	x := asNode(n)
	var out []nacm.Node
	for c := x.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func (Tree) IsAncestor(n, candidateAncestor nacm.Node) bool {
	x := asNode(n)
	anc := asNode(candidateAncestor)
	for p := x.Parent; p != nil; p = p.Parent {
		if p == anc {
			return true
		}
	}
	return false
}

func (Tree) Detach(n nacm.Node) {
	xmlquery.RemoveFromTree(asNode(n))
}

func (Tree) SetFlag(n nacm.Node, flag nacm.Flag) {
	setAttrFlag(asNode(n), flagAttrName(flag))
}

func (Tree) ClearFlag(n nacm.Node, flag nacm.Flag) {
	clearAttrFlag(asNode(n), flagAttrName(flag))
}

func (t Tree) PruneUnmarked(root nacm.Node, flag nacm.Flag) {
	x := asNode(root)
	var next *xmlquery.Node
	for c := x.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if t.subtreeMarked(c, flag) {
			t.PruneUnmarked(c, flag)
			continue
		}
		xmlquery.RemoveFromTree(c)
	}
}

func (t Tree) subtreeMarked(n *xmlquery.Node, flag nacm.Flag) bool {
	if hasAttrFlag(n, flagAttrName(flag)) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && t.subtreeMarked(c, flag) {
			return true
		}
	}
	return false
}

// Flags are stashed as synthetic, unprefixed attributes directly on the
// node rather than in a side table, so that they live and die with the
// node itself (no global registry to leak or to guard with a mutex).
func flagAttrName(flag nacm.Flag) string {
	if flag == nacm.FlagMark {
		return "_nacm_mark"
	}
	return "_nacm_delete"
}

func setAttrFlag(n *xmlquery.Node, key string) {
	if hasAttrFlag(n, key) {
		return
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Local: key}, Value: "1"})
}

func clearAttrFlag(n *xmlquery.Node, key string) {
	for i, a := range n.Attr {
		if a.Name.Local == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func hasAttrFlag(n *xmlquery.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Name.Local == key {
			return true
		}
	}
	return false
}

// ResolveInstanceID evaluates path (as returned by CanonicalisePath,
// prefixes left in place) as an XPath expression against root, returning every
// element node it selects.
func (Tree) ResolveInstanceID(root nacm.Node, schema nacm.Schema, path string) ([]nacm.Node, error) {
	expr, err := xpath.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("xmltree: compile instance-id %q: %w", path, err)
	}
	nav := xmlquery.CreateXPathNavigator(asNode(root))
	iter := expr.Select(nav)
	var out []nacm.Node
	for iter.MoveNext() {
		cur := iter.Current().(*xmlquery.NodeNavigator).Current()
		if cur.Type == xmlquery.ElementNode {
			out = append(out, cur)
		}
	}
	log.V(3).Infof("xmltree: resolve_instance_id %q -> %d node(s)", path, len(out))
	return out, nil
}

// CanonicalisePath resolves the prefixes in path against nsctx (the
// rule element's local namespace context) by compiling it with
// xpath.CompileWithNS -- which validates every prefix actually resolves
// -- then returns the expression unchanged, since the antchfx xpath
// engine accepts either prefixed or canonical (unprefixed, single
// module-local) expressions identically once a namespace map is
// supplied.
func (Tree) CanonicalisePath(path string, nsctx map[string]string, schema nacm.Schema) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("xmltree: empty path")
	}
	if _, err := xpath.CompileWithNS(path, nsctx); err != nil {
		return "", fmt.Errorf("xmltree: canonicalise %q: %w", path, err)
	}
	return path, nil
}
