package highlights

import (
	"sync"

	"github.com/Seklfreak/highlights/models"
	"github.com/pkg/errors"
)

// ErrEntryNotFound is returned by Store.Get if no entry exists for the message
var ErrEntryNotFound = errors.New("no starboard entry")

// Store maps a source message, by guild and message id, to its star entry
type Store interface {
	// Get returns the entry of the message or ErrEntryNotFound
	Get(guildID, messageID string) (*models.StarEntry, error)
	// GetByStarVar returns the entry whose published copy is $starVarID or ErrEntryNotFound
	GetByStarVar(guildID, starVarID string) (*models.StarEntry, error)
	// Put inserts or replaces the entry by guild and message id
	Put(entry *models.StarEntry) error
}

// MemoryStore keeps entries in process memory, they are lost on restart
type MemoryStore struct {
	sync.RWMutex
	entries map[string]map[string]models.StarEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]models.StarEntry)}
}

func (s *MemoryStore) Get(guildID, messageID string) (*models.StarEntry, error) {
	s.RLock()
	defer s.RUnlock()

	entry, ok := s.entries[guildID][messageID]
	if !ok {
		return nil, ErrEntryNotFound
	}
	entry.StarUserIDs = append([]string(nil), entry.StarUserIDs...)
	return &entry, nil
}

func (s *MemoryStore) GetByStarVar(guildID, starVarID string) (*models.StarEntry, error) {
	if starVarID == "" {
		return nil, ErrEntryNotFound
	}

	s.RLock()
	defer s.RUnlock()

	for _, entry := range s.entries[guildID] {
		if entry.StarVarID != starVarID {
			continue
		}
		entry.StarUserIDs = append([]string(nil), entry.StarUserIDs...)
		return &entry, nil
	}
	return nil, ErrEntryNotFound
}

func (s *MemoryStore) Put(entry *models.StarEntry) error {
	if entry == nil || entry.GuildID == "" || entry.MessageID == "" {
		return errors.New("empty starEntry submitted")
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.entries[entry.GuildID]; !ok {
		s.entries[entry.GuildID] = make(map[string]models.StarEntry)
	}
	stored := *entry
	stored.StarUserIDs = append([]string(nil), entry.StarUserIDs...)
	s.entries[entry.GuildID][entry.MessageID] = stored
	return nil
}

// keyedLocks hands out one mutex per key, entries are dropped once nobody holds or waits for them
type keyedLocks struct {
	sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*keyedLock)}
}

// Lock locks $key and returns the function unlocking it
func (k *keyedLocks) Lock(key string) (unlock func()) {
	k.Mutex.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyedLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.Mutex.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		k.Mutex.Lock()
		lock.refs--
		if lock.refs <= 0 {
			delete(k.locks, key)
		}
		k.Mutex.Unlock()
	}
}
