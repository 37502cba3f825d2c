package nacmsrv

import (
	"testing"

	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
	"github.com/stretchr/testify/assert"
)

func TestPathStringWithPrefixAndKeys(t *testing.T) {
	prefix := &gnmipb.Path{Elem: []*gnmipb.PathElem{{Name: "interfaces"}}}
	path := &gnmipb.Path{Elem: []*gnmipb.PathElem{
		{Name: "interface", Key: map[string]string{"name": "Ethernet0"}},
		{Name: "state"},
	}}
	assert.Equal(t, `/interfaces/interface[name=Ethernet0]/state`, PathString(prefix, path))
}

func TestPathStringEmpty(t *testing.T) {
	assert.Equal(t, "/", PathString(&gnmipb.Path{}, &gnmipb.Path{}))
}

func TestModuleOfPathPrefersOrigin(t *testing.T) {
	p := &gnmipb.Path{Origin: "openconfig", Elem: []*gnmipb.PathElem{{Name: "interfaces"}}}
	assert.Equal(t, "openconfig", ModuleOfPath(p))
}

func TestModuleOfPathFallsBackToFirstElem(t *testing.T) {
	p := &gnmipb.Path{Elem: []*gnmipb.PathElem{{Name: "interfaces"}}}
	assert.Equal(t, "interfaces", ModuleOfPath(p))
}
