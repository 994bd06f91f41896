package lspclient

import (
	"strings"

	"github.com/Camilotk/lspclient/config"
)

// Settings holds the workspace settings the client serves back to the server
// on workspace/configuration. The underlying store supports atomic swaps and
// change listeners, so a config file watcher can hot-reload it.
type Settings = config.Store[map[string]interface{}]

// NewSettings creates a settings store with the given initial values.
func NewSettings(values map[string]interface{}) *Settings {
	if values == nil {
		values = map[string]interface{}{}
	}
	return config.NewStore(&values)
}

// settingsSection resolves a dotted section path ("gopls.ui.completion")
// against nested string-keyed maps. An empty section returns the whole tree.
func settingsSection(values map[string]interface{}, section string) (interface{}, bool) {
	if section == "" {
		return values, true
	}
	var current interface{} = values
	for _, part := range strings.Split(section, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
