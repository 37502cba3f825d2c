// Package yangschema is a reference implementation of the nacm.Schema
// collaborator (spec.md §6), backed by github.com/openconfig/goyang —
// the YANG front-end the teacher vendors (transitively, through ygot)
// for translib's own schema tree. It pairs with xmltree: Module lookups
// walk an *xmlquery.Node's parent chain directly, the same way
// transl_utils resolves a path against the compiled schema before
// handing a request to translib.
package yangschema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	log "github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"

	"github.com/sonic-net/sonic-nacm/nacm"
)

// Registry is a compiled set of YANG modules, keyed by their top-level
// container/list element names so that a data node's module can be
// found by its outermost ancestor name alone -- module_of only needs to
// know "which module owns this node's root", never the node's full
// schema path.
type Registry struct {
	// topElement maps a module's top-level data-node name to the
	// module that declares it.
	topElement map[string]string
}

// Load parses every .yang file under dir and indexes their top-level
// data definitions.
func Load(dir string) (*Registry, error) {
	ms := yang.NewModules()
	entries, err := yangFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("yangschema: list %s: %w", dir, err)
	}
	for _, f := range entries {
		if err := ms.Read(f); err != nil {
			return nil, fmt.Errorf("yangschema: parse %s: %w", f, err)
		}
	}
	if errs := ms.Process(); len(errs) > 0 {
		return nil, fmt.Errorf("yangschema: process modules: %v", errs)
	}

	reg := &Registry{topElement: map[string]string{}}
	for _, m := range ms.Modules {
		entry := yang.ToEntry(m)
		for name := range entry.Dir {
			reg.topElement[name] = m.Name
			log.V(3).Infof("yangschema: %s/%s -> module %s", m.Name, name, m.Name)
		}
	}
	return reg, nil
}

// ModuleOf walks n's ancestor chain up to the document root and reports
// the module that declares the outermost element on that chain.
// tree is accepted to satisfy nacm.Schema's signature; this
// implementation is paired one-to-one with xmltree.Tree and type-asserts
// directly to *xmlquery.Node rather than going back through the
// abstract DataTree interface (which, per spec.md §6, has no parent
// accessor).
func (r *Registry) ModuleOf(n nacm.Node, tree nacm.DataTree) (nacm.Module, error) {
	x, ok := n.(*xmlquery.Node)
	if !ok || x == nil {
		return nil, fmt.Errorf("yangschema: not an xmltree node")
	}
	top := x
	for top.Parent != nil && top.Parent.Type == xmlquery.ElementNode {
		top = top.Parent
	}
	module, ok := r.topElement[top.Data]
	if !ok {
		return nil, fmt.Errorf("yangschema: no module declares top-level element %q", top.Data)
	}
	return module, nil
}

// ModuleName returns m's YANG module name.
func (r *Registry) ModuleName(m nacm.Module) string {
	name, _ := m.(string)
	return name
}

func yangFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yang") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
