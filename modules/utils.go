package modules

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"sync"

	"github.com/Seklfreak/highlights/cache"
	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/metrics"
	"github.com/bwmarrin/discordgo"
)

var initOnce sync.Once

// Init registers the commands and initializes the plugins, later calls do nothing
func Init(session *discordgo.Session) {
	initOnce.Do(func() {
		initPlugins(session)
	})
}

func initPlugins(session *discordgo.Session) {
	checkDuplicateCommands(PluginList)

	pluginCache = make(map[string]Plugin)

	logTemplate := "[PLUG] %s reacts to [ %s]"
	listeners := ""

	for _, plugin := range PluginList {
		for _, cmd := range plugin.Commands() {
			pluginCache[cmd] = plugin
			listeners += cmd + " "
		}

		cache.GetLogger().WithField("module", "modules").Info(fmt.Sprintf(
			logTemplate,
			typeOf(plugin),
			listeners,
		))
		listeners = ""

		plugin.Init(session)
	}

	cache.GetLogger().WithField("module", "modules").Info(
		"Initializer finished. Loaded " + strconv.Itoa(len(PluginList)) + " plugins",
	)
}

// IsCommand returns true if a plugin listens to $command
func IsCommand(command string) bool {
	_, ok := pluginCache[command]
	return ok
}

// command - The command that triggered this execution
// content - The content without command
// msg     - The message object
func CallBotPlugin(command string, content string, msg *discordgo.Message) {
	// Defer a recovery in case anything panics
	defer helpers.RecoverDiscord(msg)

	ref, ok := pluginCache[command]
	if !ok {
		return
	}

	// Track metrics
	metrics.CommandsExecuted.Add(1)

	ref.Action(command, content, msg, cache.GetSession())
}

func CallPluginOnReactionAdd(reaction *discordgo.MessageReactionAdd) {
	defer helpers.Recover()

	for _, plugin := range PluginList {
		if reactionPlugin, ok := plugin.(ReactionPlugin); ok {
			reactionPlugin.OnReactionAdd(reaction, cache.GetSession())
		}
	}
}

func CallPluginOnReactionRemove(reaction *discordgo.MessageReactionRemove) {
	defer helpers.Recover()

	for _, plugin := range PluginList {
		if reactionPlugin, ok := plugin.(ReactionPlugin); ok {
			reactionPlugin.OnReactionRemove(reaction, cache.GetSession())
		}
	}
}

func checkDuplicateCommands(plugins []Plugin) {
	occupant, cmd, ok := duplicateCommand(plugins)
	if !ok {
		return
	}
	cache.GetLogger().WithField("module", "modules").Error("Failed to load plugins because '" + cmd + "' was already registered by " + occupant)
	os.Exit(1)
}

// duplicateCommand returns the first command registered by more than one plugin
func duplicateCommand(plugins []Plugin) (occupant string, command string, found bool) {
	cmds := make(map[string]string)

	for _, plug := range plugins {
		for _, cmd := range plug.Commands() {
			if occupant, ok := cmds[cmd]; ok {
				return occupant, cmd, true
			}
			cmds[cmd] = typeOf(plug)
		}
	}
	return "", "", false
}

func typeOf(v interface{}) string {
	return reflect.TypeOf(v).String()
}
