// Package otp holds the pending one-time passcode state between the
// send and verify steps of signup/login.
package otp

import (
	"sync"
	"time"
)

// Record is a pending passcode for one email address.
type Record struct {
	Code      string
	ExpiresAt time.Time
}

// Store maps an email to its single pending passcode. Put overwrites
// any prior record for the same key, so at most one code is live per
// email at any time.
type Store interface {
	Put(key string, code string, ttl time.Duration)
	Get(key string) (Record, bool)
	Delete(key string)
}

// MemoryStore is a mutex-guarded in-process Store. Expired records are
// not reaped; they linger until overwritten, and verification re-checks
// the timestamp.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

// NewMemoryStoreWithClock is used by tests to control expiry.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = now
	return s
}

func (s *MemoryStore) Put(key string, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = Record{Code: code, ExpiresAt: s.now().Add(ttl)}
}

func (s *MemoryStore) Get(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	return r, ok
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}
