package migrations

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/Seklfreak/highlights/cache"
	"github.com/globalsign/mgo"
)

// indexCreator is satisfied by *mgo.Collection
type indexCreator interface {
	EnsureIndex(index mgo.Index) error
}

type migration func(collection func(name string) indexCreator) error

var migrations = []migration{
	m1_create_index_guild_configs,
	m2_create_index_starboard_entries,
	m3_create_index_starboard_highlights,
}

// Run executes all registered migrations against $database
func Run(database *mgo.Database) error {
	return run(func(name string) indexCreator {
		return database.C(name)
	})
}

func run(collection func(name string) indexCreator) error {
	log := cache.GetLogger().WithField("module", "migrations")
	log.Info("Running migrations...")

	for _, migration := range migrations {
		log.Info("Running " + migrationName(migration))
		err := migration(collection)
		if err != nil {
			return err
		}
	}

	log.Info("Migrations finished!")
	return nil
}

func migrationName(m migration) string {
	name := runtime.FuncForPC(reflect.ValueOf(m).Pointer()).Name()
	parts := strings.Split(name, ".")
	return parts[len(parts)-1]
}
