package modules

import (
	"io/ioutil"
	"testing"

	"github.com/Seklfreak/highlights/cache"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakePlugin struct {
	commands []string
	inits    int
}

func (p *fakePlugin) Commands() []string { return p.commands }

func (p *fakePlugin) Init(session *discordgo.Session) { p.inits++ }

func (p *fakePlugin) Action(command string, content string, msg *discordgo.Message, session *discordgo.Session) {
}

func TestDuplicateCommand(t *testing.T) {
	_, _, found := duplicateCommand([]Plugin{
		&fakePlugin{commands: []string{"highlight", "hl"}},
		&fakePlugin{commands: []string{"ping"}},
	})
	assert.False(t, found)

	occupant, command, found := duplicateCommand([]Plugin{
		&fakePlugin{commands: []string{"highlight", "hl"}},
		&fakePlugin{commands: []string{"hl"}},
	})
	assert.True(t, found)
	assert.Equal(t, "hl", command)
	assert.Equal(t, "*modules.fakePlugin", occupant)
}

func TestPluginListHasNoDuplicates(t *testing.T) {
	_, command, found := duplicateCommand(PluginList)
	assert.False(t, found, command)
}

func TestInitRunsOnce(t *testing.T) {
	log := logrus.New()
	log.Out = ioutil.Discard
	cache.SetLogger(log)

	plugin := &fakePlugin{commands: []string{"highlight"}}
	defaultPlugins := PluginList
	PluginList = []Plugin{plugin}
	defer func() { PluginList = defaultPlugins }()

	Init(nil)
	Init(nil)

	assert.Equal(t, 1, plugin.inits)
	assert.True(t, IsCommand("highlight"))
}
