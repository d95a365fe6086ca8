package modules

import (
	"github.com/Seklfreak/highlights/modules/plugins/highlights"
)

var (
	pluginCache map[string]Plugin

	PluginList = []Plugin{
		&highlights.Handler{},
	}
)
