package pluginrt

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/nexushub/nexushub/pkg/nexuslib"
)

var pluginFs = afero.NewOsFs()

// PluginPath maps a plugin id to its module file in the plugin
// directory. ErrPluginNotFound when no such module is installed.
func PluginPath(pluginId string) (string, error) {
	p := filepath.Join(nexuslib.PluginsDir, pluginId+".js")
	ok, err := afero.Exists(pluginFs, p)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrPluginNotFound
	}
	return p, nil
}

// ListPlugins returns the ids of every plugin module installed in the
// plugin directory, sorted.
func ListPlugins() ([]string, error) {
	matches, err := afero.Glob(pluginFs, filepath.Join(nexuslib.PluginsDir, "*.js"))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), ".js"))
	}
	sort.Strings(ids)
	return ids, nil
}
