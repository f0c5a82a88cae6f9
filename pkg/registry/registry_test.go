package registry

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/treesupport"
)

func TestRegisterStockTypesRegistersEveryNodeType(t *testing.T) {
	support := treesupport.New()
	RegisterStockTypes(support, logrus.StandardLogger())

	wantNodeTypes := []model.NodeType{
		"sequence", "selector", "parallel", "if_then_else",
		"succeed", "fail", "constant_running", "retry", "status_write", "status_read",
		"log", "http_request", "transform", "cron_gate", "queue_poll",
	}

	for _, nodeType := range wantNodeTypes {
		_, ok := support.NodeFactory(nodeType)
		assert.True(t, ok, "expected node type %s to be registered", nodeType)
	}
}

func TestRegisterStockTypesRegistersEveryValueType(t *testing.T) {
	support := treesupport.New()
	RegisterStockTypes(support, logrus.StandardLogger())

	wantValueTypes := []model.ValueType{"string", "float", "bool", "map", "list", "node_status"}

	for _, valueType := range wantValueTypes {
		_, ok := support.ValueCodec(valueType)
		assert.True(t, ok, "expected value type %s to be registered", valueType)
	}
}

func TestLoadPluginsMissingDirIsNotAnError(t *testing.T) {
	support := treesupport.New()

	err := LoadPlugins(support, filepath.Join(t.TempDir(), "missing"), logrus.StandardLogger())
	require.NoError(t, err)
}

func TestLoadPluginsEmptyPluginDirIsNoop(t *testing.T) {
	support := treesupport.New()

	err := LoadPlugins(support, t.TempDir(), logrus.StandardLogger())
	require.NoError(t, err)
	assert.Empty(t, support.NodeTypes())
}

func TestLoadPluginsEmptyStringDisablesLoading(t *testing.T) {
	support := treesupport.New()

	err := LoadPlugins(support, "", logrus.StandardLogger())
	require.NoError(t, err)
}
