package cache

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Loader performs the actual network call for a key.
type Loader func(ctx context.Context) (any, error)

// Observer receives a snapshot of an entry every time it changes.
type Observer func(entry Entry)

// Entry is a snapshot of the cached state for one key.
//
// Data is set only when Status is StatusSuccess, Err only when Status is
// StatusError. A refetch keeps the previous result visible and sets Fetching.
type Entry struct {
	Key           Key
	Data          any
	Err           error
	Status        Status
	Stale         bool
	Fetching      bool
	LastUpdated   time.Time
	ObserverCount int

	// Version increases on every change applied by the store
	Version uint64
}

func (e Entry) fresh() bool {
	return e.Status == StatusSuccess && !e.Stale
}

type record struct {
	entry  Entry
	loader Loader

	// Ticket of the fetch currently running for this record, 0 when idle
	inflight uint64
	// Invalidated while a fetch was running
	refetch bool
}

type notification struct {
	entry     Entry
	observers []Observer
}

func (n notification) deliver() {
	for _, observer := range n.observers {
		observer(n.entry)
	}
}

// Store holds one entry per key. Entries are never evicted; they live until
// Delete or Clear.
type Store struct {
	mu        sync.Mutex
	records   *ttlcache.Cache[string, *record]
	observers map[string]map[uint64]Observer

	version      uint64
	nextObserver uint64
	nextTicket   uint64
}

func NewStore() *Store {
	records := ttlcache.New[string, *record](
		ttlcache.WithTTL[string, *record](ttlcache.NoTTL),
		ttlcache.WithDisableTouchOnHit[string, *record](),
	)
	return &Store{
		records:   records,
		observers: make(map[string]map[uint64]Observer),
	}
}

func (s *Store) Get(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.lookupLocked(key.String())
	if !ok {
		return Entry{}, false
	}
	return s.snapshotLocked(rec), true
}

// Set applies update to the entry for key, creating an idle entry first if
// there is none, and then notifies the key's observers.
func (s *Store) Set(key Key, update func(entry *Entry)) {
	s.mu.Lock()
	rec := s.ensureLocked(key)
	update(&rec.entry)
	rec.entry.Key = key
	n := s.commitLocked(rec)
	s.mu.Unlock()

	n.deliver()
}

// Delete removes the entry for key and reports whether there was one.
// Observers stay registered and receive an idle snapshot.
func (s *Store) Delete(key Key) bool {
	s.mu.Lock()
	id := key.String()
	if _, ok := s.lookupLocked(id); !ok {
		s.mu.Unlock()
		return false
	}
	s.records.Delete(id)
	n := s.removedLocked(key)
	s.mu.Unlock()

	n.deliver()
	return true
}

// Clear removes every entry, e.g. when the session ends, and returns the
// removed keys.
func (s *Store) Clear() []Key {
	s.mu.Lock()
	items := s.records.Items()
	ids := slices.Sorted(maps.Keys(items))
	keys := make([]Key, 0, len(ids))
	notifications := make([]notification, 0, len(ids))
	for _, id := range ids {
		key := items[id].Value().entry.Key
		keys = append(keys, key)
		notifications = append(notifications, s.removedLocked(key))
	}
	s.records.DeleteAll()
	s.mu.Unlock()

	for _, n := range notifications {
		n.deliver()
	}
	return keys
}

func (s *Store) Len() int {
	return s.records.Len()
}

// Entries returns a snapshot of every entry, ordered by key.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.records.Items()
	ids := slices.Sorted(maps.Keys(items))
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, s.snapshotLocked(items[id].Value()))
	}
	return entries
}

func (s *Store) lookupLocked(id string) (*record, bool) {
	item := s.records.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (s *Store) ensureLocked(key Key) *record {
	id := key.String()
	if rec, ok := s.lookupLocked(id); ok {
		return rec
	}
	rec := &record{entry: Entry{Key: key, Status: StatusIdle}}
	s.records.Set(id, rec, ttlcache.NoTTL)
	return rec
}

func (s *Store) snapshotLocked(rec *record) Entry {
	entry := rec.entry
	entry.ObserverCount = len(s.observers[entry.Key.String()])
	return entry
}

func (s *Store) observersLocked(id string) []Observer {
	registered := s.observers[id]
	ids := slices.Sorted(maps.Keys(registered))
	observers := make([]Observer, 0, len(ids))
	for _, observerID := range ids {
		observers = append(observers, registered[observerID])
	}
	return observers
}

func (s *Store) commitLocked(rec *record) notification {
	s.version++
	rec.entry.Version = s.version
	return notification{
		entry:     s.snapshotLocked(rec),
		observers: s.observersLocked(rec.entry.Key.String()),
	}
}

func (s *Store) removedLocked(key Key) notification {
	s.version++
	id := key.String()
	return notification{
		entry: Entry{
			Key:           key,
			Status:        StatusIdle,
			ObserverCount: len(s.observers[id]),
			Version:       s.version,
		},
		observers: s.observersLocked(id),
	}
}

func (s *Store) observe(key Key, observer Observer) (uint64, Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := key.String()
	s.nextObserver++
	if s.observers[id] == nil {
		s.observers[id] = make(map[uint64]Observer)
	}
	s.observers[id][s.nextObserver] = observer

	rec, ok := s.lookupLocked(id)
	if !ok {
		return s.nextObserver, Entry{Key: key, Status: StatusIdle, ObserverCount: len(s.observers[id])}, false
	}
	return s.nextObserver, s.snapshotLocked(rec), true
}

func (s *Store) unobserve(key Key, observerID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := key.String()
	delete(s.observers[id], observerID)
	if len(s.observers[id]) == 0 {
		delete(s.observers, id)
	}
}

// orphaned reports whether key is observed but has no entry, which happens
// when the entry is removed while a fetch for it runs.
func (s *Store) orphaned(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := key.String()
	_, ok := s.lookupLocked(id)
	return !ok && len(s.observers[id]) > 0
}

func (s *Store) loaderFor(key Key) Loader {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.lookupLocked(key.String())
	if !ok {
		return nil
	}
	return rec.loader
}

// beginFetch marks key as in flight and returns the ticket that finishFetch
// must present. When the fetch isn't forced and the entry is fresh, the
// cached entry is returned instead and nothing is marked.
func (s *Store) beginFetch(key Key, loader Loader, force bool) (uint64, Entry, bool) {
	s.mu.Lock()
	rec := s.ensureLocked(key)
	if !force && rec.entry.fresh() {
		entry := s.snapshotLocked(rec)
		s.mu.Unlock()
		return 0, entry, true
	}

	s.nextTicket++
	rec.inflight = s.nextTicket
	rec.loader = loader
	rec.refetch = false
	rec.entry.Fetching = true
	if rec.entry.Status == StatusIdle {
		rec.entry.Status = StatusLoading
	}
	ticket := rec.inflight
	n := s.commitLocked(rec)
	s.mu.Unlock()

	n.deliver()
	return ticket, Entry{}, false
}

// finishFetch applies a loader result. Results for records that were deleted
// or cleared while the loader ran are dropped. It reports whether the entry
// was invalidated during the fetch and is still observed, so that it needs
// another fetch.
func (s *Store) finishFetch(key Key, ticket uint64, data any, err error, now time.Time) (bool, bool) {
	s.mu.Lock()
	id := key.String()
	rec, ok := s.lookupLocked(id)
	if !ok || rec.inflight != ticket {
		s.mu.Unlock()
		return false, false
	}

	rec.inflight = 0
	rec.entry.Fetching = false
	if err != nil {
		rec.entry.Status = StatusError
		rec.entry.Err = err
		rec.entry.Data = nil
	} else {
		rec.entry.Status = StatusSuccess
		rec.entry.Data = data
		rec.entry.Err = nil
		rec.entry.LastUpdated = now
	}
	rec.entry.Stale = rec.refetch
	refetch := rec.refetch && len(s.observers[id]) > 0
	rec.refetch = false

	n := s.commitLocked(rec)
	s.mu.Unlock()

	n.deliver()
	return true, refetch
}

type refetchTarget struct {
	key    Key
	loader Loader
}

// markStale flags every entry under one of prefixes as stale and returns the
// observed, idle entries that should be refetched now. Entries with a fetch
// running are refetched once that fetch completes.
func (s *Store) markStale(prefixes []Key) (int, []refetchTarget) {
	s.mu.Lock()
	items := s.records.Items()
	ids := slices.Sorted(maps.Keys(items))

	matched := 0
	var targets []refetchTarget
	var notifications []notification
	for _, id := range ids {
		rec := items[id].Value()
		if !matchesAny(prefixes, rec.entry.Key) {
			continue
		}
		matched++

		rec.entry.Stale = true
		if rec.inflight != 0 {
			rec.refetch = true
		} else if len(s.observers[id]) > 0 && rec.loader != nil {
			targets = append(targets, refetchTarget{key: rec.entry.Key, loader: rec.loader})
		}
		notifications = append(notifications, s.commitLocked(rec))
	}
	s.mu.Unlock()

	for _, n := range notifications {
		n.deliver()
	}
	return matched, targets
}
