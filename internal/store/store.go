// Package store owns the collection of listings and the app's user profile.
//
// Every mutation is applied in memory first and becomes visible immediately;
// a snapshot of the whole collection is then written to storage in the
// background. Storage is advisory: failed writes are logged, never retried
// and never rolled back.
package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/erazemk/lostmate/internal/model"
	"github.com/erazemk/lostmate/internal/seed"
	"github.com/erazemk/lostmate/internal/storage"
)

// StorageKey is the key the collection is persisted under.
const StorageKey = "@lostmate_items"

// DefaultWriteTimeout bounds a single snapshot write.
const DefaultWriteTimeout = 5 * time.Second

// Store is the single source of truth for listings.
type Store struct {
	adapter      storage.Adapter
	seed         seed.Dataset
	log          zerolog.Logger
	latency      time.Duration
	writeTimeout time.Duration
	newID        func() string

	initOnce sync.Once
	ready    chan struct{}

	mu      sync.RWMutex
	items   []model.Item
	loading bool

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}

	persist *persister
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithLatency delays every mutation by d before it is applied, the way a
// remote backend would.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithWriteTimeout bounds each snapshot write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithIDGenerator replaces the ID generator. Generated IDs that collide with
// an existing item are discarded and regenerated.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates a store over adapter. dataset supplies the user profile and the
// items used when nothing has been persisted. Call Initialize before use and
// Close when done.
func New(adapter storage.Adapter, dataset seed.Dataset, opts ...Option) *Store {
	s := &Store{
		adapter:      adapter,
		seed:         dataset.Clone(),
		log:          zerolog.Nop(),
		writeTimeout: DefaultWriteTimeout,
		newID:        newItemID,
		ready:        make(chan struct{}),
		loading:      true,
		subs:         make(map[chan struct{}]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persist = newPersister(adapter, StorageKey, s.writeTimeout, s.log)
	return s
}

// newItemID returns a time-ordered UUID.
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Initialize loads the persisted collection, falling back to the seed items
// when nothing is stored or the stored value cannot be used. It never fails;
// problems are logged. Only the first call does any work.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		items, persistSeed := s.load(ctx)

		s.mu.Lock()
		s.items = items
		s.loading = false
		if persistSeed {
			s.commitLocked("seed")
		}
		collectionSize.Set(float64(len(s.items)))
		s.mu.Unlock()

		close(s.ready)
		s.notify()
		s.log.Info().Int("items", len(items)).Msg("item store ready")
	})
}

// load returns the starting collection and whether it came from the seed
// because nothing was stored yet.
func (s *Store) load(ctx context.Context) ([]model.Item, bool) {
	blob, found, err := s.adapter.Read(ctx, StorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading stored items failed, using defaults")
		return s.seedItems(), false
	}
	if !found {
		s.log.Info().Msg("no stored items, using defaults")
		return s.seedItems(), true
	}

	var items []model.Item
	if err := json.Unmarshal(blob, &items); err != nil {
		s.log.Warn().Err(err).Int("bytes", len(blob)).Msg("stored items are malformed, using defaults")
		return s.seedItems(), false
	}
	if items == nil {
		s.log.Warn().Msg("stored items are null, using defaults")
		return s.seedItems(), false
	}
	return items, false
}

func (s *Store) seedItems() []model.Item {
	return slices.Clone(s.seed.Items)
}

// Loading reports whether Initialize has not finished yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// User returns the profile of the acting user.
func (s *Store) User() model.User {
	return s.seed.User
}

// Items returns a copy of the collection, newest insertion first.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// GetByID looks up a single item.
func (s *Store) GetByID(id string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return model.Item{}, false
}

// GetByUser returns every item posted by userID, in collection order.
func (s *Store) GetByUser(userID string) []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Item
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out
}

// Create posts a new active listing owned by the current user and puts it at
// the front of the collection.
func (s *Store) Create(ctx context.Context, f model.ItemFields) (model.Item, error) {
	if err := s.wait(ctx); err != nil {
		return model.Item{}, err
	}

	s.mu.Lock()
	item := model.Item{
		ID:          s.uniqueIDLocked(),
		Type:        f.Type,
		Title:       f.Title,
		Category:    f.Category,
		Description: f.Description,
		Date:        f.Date,
		Location:    f.Location,
		Contact:     f.Contact,
		Image:       f.Image,
		Status:      model.ItemStatusActive,
		UserID:      s.seed.User.ID,
	}
	s.items = slices.Insert(s.items, 0, item)
	s.commitLocked("create")
	s.mu.Unlock()

	s.notify()
	s.log.Info().Str("item", item.ID).Str("type", string(item.Type)).Str("title", item.Title).Msg("item created")
	return item, nil
}

// Update overwrites the fields present in patch. Unknown IDs are ignored.
// It reports whether an item was found.
func (s *Store) Update(ctx context.Context, id string, patch model.ItemPatch) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	updated := patch.Apply(s.items[i])
	changed := updated != s.items[i]
	if changed {
		s.items[i] = updated
		s.commitLocked("update")
	}
	s.mu.Unlock()

	if changed {
		s.notify()
		s.log.Info().Str("item", id).Msg("item updated")
	}
	return true, nil
}

// Delete removes an item. Unknown IDs are ignored. It reports whether an
// item was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.commitLocked("delete")
	s.mu.Unlock()

	s.notify()
	s.log.Info().Str("item", id).Msg("item deleted")
	return true, nil
}

// Claim marks an active item as claimed. Claiming a claimed or unknown item
// changes nothing. It reports whether an item was found.
func (s *Store) Claim(ctx context.Context, id string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	changed := s.items[i].Status == model.ItemStatusActive
	if changed {
		s.items[i].Status = model.ItemStatusClaimed
		s.commitLocked("claim")
	}
	s.mu.Unlock()

	if changed {
		s.notify()
		s.log.Info().Str("item", id).Msg("item claimed")
	}
	return true, nil
}

// Subscribe returns a channel that receives a value after state changes, and
// a function that unsubscribes. Signals are coalesced; a slow reader sees at
// least one signal after the latest change.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, ch)
			s.subMu.Unlock()
		})
	}
}

// Flush waits until all snapshots scheduled so far have been written or have
// failed.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.flush(ctx)
}

// Close drains pending writes and stops the background writer. Mutations
// after Close still apply in memory but are no longer persisted.
func (s *Store) Close() error {
	s.persist.close()
	return nil
}

// wait blocks until the initial load finished and the simulated latency has
// passed.
func (s *Store) wait(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(item model.Item) bool { return item.ID == id })
}

func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

// commitLocked serializes the whole collection and hands it to the persister.
// Called with s.mu held so snapshots are ordered like the mutations.
func (s *Store) commitLocked(op string) {
	mutationsTotal.WithLabelValues(op).Inc()
	collectionSize.Set(float64(len(s.items)))

	items := s.items
	if items == nil {
		items = []model.Item{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("serializing items failed")
		return
	}
	s.persist.schedule(blob)
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
