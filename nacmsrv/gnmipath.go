package nacmsrv

import (
	"sort"

	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
)

// PathString renders a gNMI path (with an optional prefix) as the
// slash-separated, alphabetically-keyed instance-identifier string the
// nacm engine's Rule.Path and the xmltree collaborator's
// ResolveInstanceID expect, adapted from pathz_authorizer's own
// PrintPathWithPrefix/printPath -- that package builds the same string
// to match against its gNMI-native authorization tree, this one builds
// it to resolve against an xmltree.Tree document instead.
func PathString(prefix, path *gnmipb.Path) string {
	elems := append(append([]*gnmipb.PathElem{}, prefix.GetElem()...), path.GetElem()...)
	return elemsToPath(elems)
}

func elemsToPath(elems []*gnmipb.PathElem) string {
	out := ""
	for _, e := range elems {
		out += "/" + e.GetName()
		if len(e.GetKey()) == 0 {
			continue
		}
		keys := make([]string, 0, len(e.GetKey()))
		for k := range e.GetKey() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out += "[" + k + "=" + e.GetKey()[k] + "]"
		}
	}
	if out == "" {
		return "/"
	}
	return out
}

// ModuleOfPath returns the path's own origin field when it is set,
// falling back to the name of the path's first element -- the module-name NACM rule matching needs but a raw gNMI
// Path never carries explicitly once serialized to a plain string.
func ModuleOfPath(path *gnmipb.Path) string {
	if origin := path.GetOrigin(); origin != "" {
		return origin
	}
	if elems := path.GetElem(); len(elems) > 0 {
		return elems[0].GetName()
	}
	return ""
}
