package helpers

import (
	"sync"
	"time"

	"github.com/Seklfreak/highlights/cache"
	"github.com/Seklfreak/highlights/models"
	"github.com/getsentry/raven-go"
	"github.com/globalsign/mgo/bson"
)

var (
	guildSettingsCache = make(map[string]models.Config)
	cacheMutex         sync.RWMutex
)

// GuildSettingsSet writes all $config into the db
func GuildSettingsSet(guild string, config models.Config) error {
	config.GuildID = guild

	if HasMDb() {
		err := MDbUpsert(models.GuildConfigTable, bson.M{"guildid": guild}, config)
		if err != nil {
			return err
		}
	}

	// Update cache
	cacheMutex.Lock()
	guildSettingsCache[guild] = config
	cacheMutex.Unlock()

	return nil
}

// GuildSettingsGet returns all config values for the guild or a default object
func GuildSettingsGet(guild string) (models.Config, error) {
	if !HasMDb() {
		return models.Config{}.Default(guild), nil
	}

	var settings models.Config
	err := MdbOne(
		MdbCollection(models.GuildConfigTable).Find(bson.M{"guildid": guild}),
		&settings,
	)

	if IsMdbNotFound(err) {
		return models.Config{}.Default(guild), nil
	}

	return settings, err
}

// GuildSettingsGetCached returns the cached settings of the guild or the defaults
func GuildSettingsGetCached(id string) models.Config {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	settings, ok := guildSettingsCache[id]
	if !ok {
		return models.Config{}.Default(id)
	}
	return settings
}

// GetPrefixForServer gets the prefix for $guild, falls back to the configured prefix
func GetPrefixForServer(guildID string) string {
	prefix := GuildSettingsGetCached(guildID).Prefix
	if prefix == "" {
		prefix = ConfigString("prefix")
	}
	return prefix
}

// GuildSettingsUpdater refreshes the settings cache of all guilds in the state every 15 seconds
func GuildSettingsUpdater() {
	for {
		for _, guild := range cache.GetSession().State.Guilds {
			settings, e := GuildSettingsGet(guild.ID)
			if e != nil {
				cache.GetLogger().WithField("module", "db").WithField("guildID", guild.ID).Error("loading guild settings failed: ", e.Error())
				raven.CaptureError(e, map[string]string{})
				continue
			}

			cacheMutex.Lock()
			guildSettingsCache[guild.ID] = settings
			cacheMutex.Unlock()
		}

		time.Sleep(15 * time.Second)
	}
}
