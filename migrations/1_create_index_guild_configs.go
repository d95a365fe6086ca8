package migrations

import (
	"github.com/Seklfreak/highlights/models"
	"github.com/globalsign/mgo"
	"github.com/pkg/errors"
)

func m1_create_index_guild_configs(collection func(name string) indexCreator) error {
	err := collection(models.GuildConfigTable.String()).EnsureIndex(mgo.Index{
		Key:    []string{"guildid"},
		Unique: true,
	})
	return errors.Wrap(err, "creating guild configs index failed")
}
