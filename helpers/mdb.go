package helpers

import (
	"crypto/tls"
	"net"
	"strings"
	"time"

	"github.com/Seklfreak/highlights/cache"
	"github.com/Seklfreak/highlights/models"
	"github.com/globalsign/mgo"
	"github.com/pkg/errors"
)

var (
	mDbSession  *mgo.Session
	mDbDatabase string
)

// slow queries get logged at warn level
const mdbSlowQuery = 500 * time.Millisecond

// ConnectMDB connects to mongodb and stores the session
func ConnectMDB(url string, database string) error {
	log := cache.GetLogger().WithField("module", "mdb")
	log.Info("Connecting to " + url)

	newUrl := strings.TrimSuffix(url, "?ssl=true")
	newUrl = strings.Replace(newUrl, "ssl=true&", "", -1)

	dialInfo, err := mgo.ParseURL(newUrl)
	if err != nil {
		return errors.Wrap(err, "parsing mongodb url failed")
	}

	// setup TLS if we use SSL
	if newUrl != url {
		tlsConfig := &tls.Config{}

		dialInfo.DialServer = func(addr *mgo.ServerAddr) (net.Conn, error) {
			return tls.Dial("tcp", addr.String(), tlsConfig)
		}
	}

	mDbSession, err = mgo.DialWithInfo(dialInfo)
	if err != nil {
		return errors.Wrap(err, "connecting to mongodb failed")
	}

	mDbSession.SetMode(mgo.Primary, false)
	mDbSession.SetSafe(&mgo.Safe{})

	mDbDatabase = database

	log.Info("Connected!")
	return nil
}

// HasMDb returns true if a mongodb session has been opened
func HasMDb() bool {
	return mDbSession != nil
}

// GetMDb is a simple getter for the mongodb database.
func GetMDb() *mgo.Database {
	return mDbSession.DB(mDbDatabase)
}

// GetMDbSession is a simple getter for the mongodb session.
func GetMDbSession() *mgo.Session {
	return mDbSession
}

func MdbCollection(collection models.MongoDbCollection) *mgo.Collection {
	return GetMDb().C(collection.String())
}

// MDbUpsert inserts $data or replaces the document matching $selector
func MDbUpsert(collection models.MongoDbCollection, selector interface{}, data interface{}) (err error) {
	start := time.Now()
	_, err = MdbCollection(collection).Upsert(selector, data)
	logSlowQuery("MDbUpsert()", collection, time.Since(start))
	return err
}

// MdbOne runs $query and unmarshals the first result into $object
func MdbOne(query *mgo.Query, object interface{}) (err error) {
	start := time.Now()
	err = query.One(object)
	logSlowQuery("MdbOne()", "", time.Since(start))
	return err
}

// Returns true if the given error is a not found error from MongoDB
func IsMdbNotFound(err error) (notFound bool) {
	if err == nil {
		return false
	}
	if errors.Cause(err) == mgo.ErrNotFound {
		return true
	}
	return strings.Contains(err.Error(), "not found")
}

func logSlowQuery(method string, collection models.MongoDbCollection, took time.Duration) {
	if took < mdbSlowQuery {
		return
	}
	cache.GetLogger().WithField("module", "mdb").WithField("method", method).WithField("collection", collection.String()).
		Warnf("slow query, took %s", took.String())
}
