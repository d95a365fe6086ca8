package migrations

import (
	"errors"
	"io/ioutil"
	"testing"

	"github.com/Seklfreak/highlights/cache"
	"github.com/globalsign/mgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCollection struct {
	name    string
	indexes map[string][]mgo.Index
	err     error
}

func (c *recordingCollection) EnsureIndex(index mgo.Index) error {
	if c.err != nil {
		return c.err
	}
	c.indexes[c.name] = append(c.indexes[c.name], index)
	return nil
}

func setTestLogger() {
	log := logrus.New()
	log.Out = ioutil.Discard
	cache.SetLogger(log)
}

func TestRun(t *testing.T) {
	setTestLogger()
	indexes := make(map[string][]mgo.Index)

	err := run(func(name string) indexCreator {
		return &recordingCollection{name: name, indexes: indexes}
	})
	require.NoError(t, err)

	require.Len(t, indexes["guild_configs"], 1)
	assert.Equal(t, []string{"guildid"}, indexes["guild_configs"][0].Key)
	assert.True(t, indexes["guild_configs"][0].Unique)

	require.Len(t, indexes["starboard_entries"], 2)
	assert.Equal(t, []string{"guildid", "messageid"}, indexes["starboard_entries"][0].Key)
	assert.True(t, indexes["starboard_entries"][0].Unique)
	assert.Equal(t, []string{"guildid", "starvarid"}, indexes["starboard_entries"][1].Key)
	assert.False(t, indexes["starboard_entries"][1].Unique)
}

func TestRunStopsOnError(t *testing.T) {
	setTestLogger()

	err := run(func(name string) indexCreator {
		return &recordingCollection{name: name, err: errors.New("not authorized")}
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "guild configs")
}

func TestMigrationName(t *testing.T) {
	assert.Equal(t, "m1_create_index_guild_configs", migrationName(m1_create_index_guild_configs))
}
