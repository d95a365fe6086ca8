package migrations

import (
	"github.com/Seklfreak/highlights/models"
	"github.com/globalsign/mgo"
	"github.com/pkg/errors"
)

// stars on a published copy are looked up by the id of the copy
func m3_create_index_starboard_highlights(collection func(name string) indexCreator) error {
	err := collection(models.StarboardEntriesTable.String()).EnsureIndex(mgo.Index{
		Key: []string{"guildid", "starvarid"},
	})
	return errors.Wrap(err, "creating starboard highlights index failed")
}
