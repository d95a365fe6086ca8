package highlights

import (
	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/models"
	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"
)

// MongoStore keeps entries in the starboard_entries collection
type MongoStore struct{}

func NewMongoStore() *MongoStore {
	return &MongoStore{}
}

func entrySelector(guildID, messageID string) bson.M {
	return bson.M{"guildid": guildID, "messageid": messageID}
}

func (s *MongoStore) Get(guildID, messageID string) (*models.StarEntry, error) {
	var entry models.StarEntry
	err := helpers.MdbOne(
		helpers.MdbCollection(models.StarboardEntriesTable).Find(entrySelector(guildID, messageID)),
		&entry,
	)
	if helpers.IsMdbNotFound(err) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading starboard entry %s failed", messageID)
	}
	return &entry, nil
}

func (s *MongoStore) GetByStarVar(guildID, starVarID string) (*models.StarEntry, error) {
	if starVarID == "" {
		return nil, ErrEntryNotFound
	}

	var entry models.StarEntry
	err := helpers.MdbOne(
		helpers.MdbCollection(models.StarboardEntriesTable).Find(bson.M{"guildid": guildID, "starvarid": starVarID}),
		&entry,
	)
	if helpers.IsMdbNotFound(err) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading starboard entry of highlight %s failed", starVarID)
	}
	return &entry, nil
}

func (s *MongoStore) Put(entry *models.StarEntry) error {
	if entry == nil || entry.GuildID == "" || entry.MessageID == "" {
		return errors.New("empty starEntry submitted")
	}

	err := helpers.MDbUpsert(
		models.StarboardEntriesTable,
		entrySelector(entry.GuildID, entry.MessageID),
		entry,
	)
	return errors.Wrapf(err, "writing starboard entry %s failed", entry.MessageID)
}
