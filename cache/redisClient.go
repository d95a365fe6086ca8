package cache

import (
	"errors"
	"sync"

	"github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

var (
	redisClient *redis.Client
	redisMutex  sync.RWMutex
	cacheCodec  *cache.Codec
)

// SetRedisClient stores the client and builds the msgpack cache codec on top of it
func SetRedisClient(s *redis.Client) {
	redisMutex.Lock()
	defer redisMutex.Unlock()

	redisClient = s
	cacheCodec = &cache.Codec{
		Redis: redisClient,
		Marshal: func(v interface{}) ([]byte, error) {
			return msgpack.Marshal(v)
		},
		Unmarshal: func(b []byte, v interface{}) error {
			return msgpack.Unmarshal(b, v)
		},
	}
}

// HasRedisClient returns true if redis is configured, redis is optional for this bot
func HasRedisClient() bool {
	redisMutex.RLock()
	defer redisMutex.RUnlock()

	return redisClient != nil
}

func GetRedisClient() *redis.Client {
	redisMutex.RLock()
	defer redisMutex.RUnlock()

	if redisClient == nil {
		panic(errors.New("tried to get redis client before cache#SetRedisClient() was called"))
	}

	return redisClient
}

func GetRedisCacheCodec() *cache.Codec {
	redisMutex.RLock()
	defer redisMutex.RUnlock()

	if cacheCodec == nil {
		panic(errors.New("tried to get redis cache codec before cache#SetRedisClient() was called"))
	}

	return cacheCodec
}
