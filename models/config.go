package models

import "github.com/globalsign/mgo/bson"

const (
	GuildConfigTable MongoDbCollection = "guild_configs"
)

var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

type Config struct {
	ID      bson.ObjectId `bson:"_id,omitempty"`
	GuildID string

	Prefix string

	HighlightChannelID string
	HighlightMinimum   int

	// ImageExtensions lists the file extensions (with leading dot) rendered as an image
	ImageExtensions []string
}

func (c Config) Default(guild string) Config {
	return Config{
		GuildID: guild,

		Prefix: "_",

		HighlightChannelID: "",
		HighlightMinimum:   1,
		ImageExtensions:    DefaultImageExtensions,
	}
}
