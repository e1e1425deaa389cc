package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultKey is the storage key the session is persisted under.
const DefaultKey = "session"

// Store serializes session transitions, persists the identity and fans snapshots out to
// subscribers. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	state   Session
	storage Storage
	key     string
	now     func() time.Time

	subMu   sync.Mutex
	subs    map[int]chan Session
	nextSub int
	dropped atomic.Uint64

	onTransition func(Action, Session)
}

// NewStore returns an anonymous Store persisting to storage. A nil storage keeps the
// session in memory only.
func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Store{
		storage: storage,
		key:     DefaultKey,
		now:     time.Now,
		subs:    make(map[int]chan Session),
	}
}

// OnTransition registers fn to observe every applied action. It must be set before the
// store is shared.
func (s *Store) OnTransition(fn func(Action, Session)) {
	s.onTransition = fn
}

// Storage returns the backing storage.
func (s *Store) Storage() Storage {
	return s.storage
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Dispatch applies a, persists the resulting identity and notifies subscribers. The
// transition is applied even when persistence fails; the storage error is returned.
// Subscribers receive snapshots in transition order.
func (s *Store) Dispatch(ctx context.Context, a Action) (Session, error) {
	s.mu.Lock()
	next := Reduce(s.state, a)
	s.state = next
	err := s.persistLocked(ctx, a.Kind, next)
	s.broadcast(next)
	s.mu.Unlock()

	if s.onTransition != nil {
		s.onTransition(a, next)
	}
	return next, err
}

func (s *Store) persistLocked(ctx context.Context, kind Kind, next Session) error {
	switch kind {
	case KindFulfilled:
		if !next.Authenticated() {
			return nil
		}
		data, err := Encode(&next)
		if err != nil {
			return err
		}
		return s.storage.Set(ctx, s.key, data, s.ttl(next))
	case KindLogout:
		return s.storage.Delete(ctx, s.key)
	default:
		return nil
	}
}

func (s *Store) ttl(sess Session) time.Duration {
	if sess.ExpiresAt == 0 {
		return 0
	}
	ttl := time.Unix(sess.ExpiresAt, 0).Sub(s.now())
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

// Restore loads a persisted identity. accept may veto it (for example because the token
// has expired); a vetoed or undecodable identity is deleted from storage and the store
// stays anonymous. A missing identity is not an error.
func (s *Store) Restore(ctx context.Context, accept func(Identity) error) (Session, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return s.Snapshot(), nil
	}
	if err != nil {
		return s.Snapshot(), err
	}

	decoded, err := Decode(data)
	if err == nil && accept != nil {
		err = accept(decoded.Identity())
	}
	if err != nil {
		return s.discard(ctx)
	}
	return s.Dispatch(ctx, Restore(decoded.Identity()))
}

// Reload re-reads storage after an external change. A removed identity logs the store
// out locally; a different token is adopted once accept allows it. A vetoed identity is
// deleted from storage and the store logs out locally.
func (s *Store) Reload(ctx context.Context, accept func(Identity) error) (Session, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		if s.Snapshot().Authenticated() {
			return s.Dispatch(ctx, Restore(Identity{}))
		}
		return s.Snapshot(), nil
	}
	if err != nil {
		return s.Snapshot(), err
	}
	decoded, err := Decode(data)
	if err != nil {
		return s.Snapshot(), err
	}
	if decoded.Token == s.Token() {
		return s.Snapshot(), nil
	}
	if accept != nil {
		if err := accept(decoded.Identity()); err != nil {
			return s.discard(ctx)
		}
	}
	return s.Dispatch(ctx, Restore(decoded.Identity()))
}

func (s *Store) discard(ctx context.Context) (Session, error) {
	delErr := s.storage.Delete(ctx, s.key)
	sess, _ := s.Dispatch(ctx, Restore(Identity{}))
	return sess, delErr
}

// Subscribe returns a channel receiving a snapshot after every transition, and a cancel
// function. Slow subscribers miss snapshots rather than block transitions; see
// [Store.Dropped].
func (s *Store) Subscribe(buffer int) (<-chan Session, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Session, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// Dropped returns how many snapshots were not delivered to full subscriber channels.
func (s *Store) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Store) broadcast(sess Session) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- sess:
		default:
			s.dropped.Add(1)
		}
	}
}
