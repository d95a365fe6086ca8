package models

import (
	"time"

	"github.com/globalsign/mgo/bson"
)

const (
	StarboardEntriesTable MongoDbCollection = "starboard_entries"
)

// StarEntry links a source message to its copy in the highlight channel
type StarEntry struct {
	ID              bson.ObjectId `bson:"_id,omitempty"`
	GuildID         string
	MessageID       string
	ChannelID       string
	AuthorID        string
	StarUserIDs     []string
	UniqueStarCount int

	// StarVarID is the id of the published copy, empty until the first publish
	StarVarID string

	// StarboardID is the channel holding the published copy
	StarboardID string

	// Forced is set if the highlight has been posted by a moderator
	Forced bool

	FirstStarred time.Time
}

// Published returns true if a copy has been posted for this entry
func (e StarEntry) Published() bool {
	return e.StarVarID != "" && e.StarboardID != ""
}
