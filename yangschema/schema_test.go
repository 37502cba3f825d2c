package yangschema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYang = `module test-if {
  namespace "urn:test:if";
  prefix "if";

  container interfaces {
    list interface {
      key "name";
      leaf name {
        type string;
      }
      leaf admin-status {
        type string;
      }
    }
  }
}
`

func writeTestYang(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test-if.yang"), []byte(testYang), 0644))
	return dir
}

func TestLoadIndexesTopLevelElements(t *testing.T) {
	reg, err := Load(writeTestYang(t))
	require.NoError(t, err)
	assert.Equal(t, "test-if", reg.topElement["interfaces"])
}

func TestModuleOfWalksAncestorChain(t *testing.T) {
	reg, err := Load(writeTestYang(t))
	require.NoError(t, err)

	doc, err := xmlquery.Parse(strings.NewReader(`<interfaces><interface><name>Ethernet0</name></interface></interfaces>`))
	require.NoError(t, err)
	root := xmlquery.FindOne(doc, "/*")
	iface := xmlquery.FindOne(root, "//interface")
	name := xmlquery.FindOne(iface, "name")

	mod, err := reg.ModuleOf(name, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-if", reg.ModuleName(mod))
}

func TestModuleOfRejectsForeignNodeType(t *testing.T) {
	reg, err := Load(writeTestYang(t))
	require.NoError(t, err)
	_, err = reg.ModuleOf("not-a-node", nil)
	assert.Error(t, err)
}
