package migrations

import (
	"github.com/Seklfreak/highlights/models"
	"github.com/globalsign/mgo"
	"github.com/pkg/errors"
)

// one entry per source message, upserts rely on it
func m2_create_index_starboard_entries(collection func(name string) indexCreator) error {
	err := collection(models.StarboardEntriesTable.String()).EnsureIndex(mgo.Index{
		Key:    []string{"guildid", "messageid"},
		Unique: true,
	})
	return errors.Wrap(err, "creating starboard entries index failed")
}
