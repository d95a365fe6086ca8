package ratelimits

import (
	"errors"
	"sync"
	"time"
)

const (
	// How many keys a bucket may contain when created
	BUCKET_INITIAL_FILL = 8

	// The maximum amount of keys a user may possess
	BUCKET_UPPER_BOUND = 16

	// How often new keys drip into the buckets
	DROP_INTERVAL = 10 * time.Second

	// How many keys may drop at a time
	DROP_SIZE = 1
)

// ErrNoKeys is returned by Drain if the user used up the bucket
var ErrNoKeys = errors.New("no keys left")

// Global pointer to a container instance
var Container = NewBucketContainer()

// BucketContainer limits how many commands a user may run
type BucketContainer struct {
	sync.Mutex

	// Maps discord ids to key-counts, -1 marks a user that hit the limit
	buckets map[string]int8
}

func NewBucketContainer() *BucketContainer {
	return &BucketContainer{buckets: make(map[string]int8)}
}

// Refiller refills the buckets every DROP_INTERVAL until $stop is closed
func (b *BucketContainer) Refiller(stop <-chan struct{}) {
	ticker := time.NewTicker(DROP_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.Refill()
		}
	}
}

// Refill drops keys into all buckets, users that hit the limit wait one round
func (b *BucketContainer) Refill() {
	b.Lock()
	defer b.Unlock()

	for user, keys := range b.buckets {
		switch {
		case keys < 0:
			b.buckets[user] = 0
		case keys == 0:
			b.buckets[user] = BUCKET_INITIAL_FILL
		case keys+DROP_SIZE >= BUCKET_UPPER_BOUND:
			// full buckets are dropped, a new one starts at the initial fill
			delete(b.buckets, user)
		default:
			b.buckets[user] += DROP_SIZE
		}
	}
}

// Drain removes $amount keys from the bucket of $user, ErrNoKeys if there aren't enough left
func (b *BucketContainer) Drain(amount int8, user string) error {
	b.Lock()
	defer b.Unlock()

	keys := b.keys(user)
	if amount > keys {
		return ErrNoKeys
	}
	b.buckets[user] = keys - amount
	return nil
}

// HasKeys returns true if $user may run another command
func (b *BucketContainer) HasKeys(user string) bool {
	b.Lock()
	defer b.Unlock()

	return b.keys(user) > 0
}

// Block marks $user as limited, true if the user wasn't limited before
func (b *BucketContainer) Block(user string) bool {
	b.Lock()
	defer b.Unlock()

	if b.keys(user) < 0 {
		return false
	}
	b.buckets[user] = -1
	return true
}

func (b *BucketContainer) keys(user string) int8 {
	keys, ok := b.buckets[user]
	if !ok {
		keys = BUCKET_INITIAL_FILL
		b.buckets[user] = keys
	}
	return keys
}
