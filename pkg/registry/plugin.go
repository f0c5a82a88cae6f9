package registry

import (
	"fmt"
	"io/fs"
	"os"
	pluginpkg "plugin"

	"github.com/sirupsen/logrus"

	"github.com/dukex/betula/pkg/protocol"
	"github.com/dukex/betula/pkg/treesupport"
)

// LoadPlugins opens every *.so under pluginDir and registers the
// NodeFactory value each exports under the symbol name "NodeFactory". A
// missing directory is not an error — a fresh checkout has none.
func LoadPlugins(support *treesupport.TreeSupport, pluginDir string, logger *logrus.Logger) error {
	if pluginDir == "" {
		return nil
	}

	root := os.DirFS(pluginDir)

	paths, err := fs.Glob(root, "*.so")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("registry: glob plugin dir %s: %w", pluginDir, err)
	}

	entry := logger.WithField("component", "registry")

	for _, name := range paths {
		path := pluginDir + "/" + name

		plg, err := pluginpkg.Open(path)
		if err != nil {
			return fmt.Errorf("registry: open plugin %s: %w", path, err)
		}

		sym, err := plg.Lookup("NodeFactory")
		if err != nil {
			return fmt.Errorf("registry: lookup NodeFactory in %s: %w", path, err)
		}

		factory, ok := sym.(protocol.NodeFactory)
		if !ok {
			return fmt.Errorf("registry: %s's NodeFactory symbol does not implement protocol.NodeFactory", path)
		}

		support.RegisterNodeFactory(factory)
		entry.WithField("plugin", path).WithField("node_type", factory.Type()).Info("loaded plugin node factory")
	}

	return nil
}
