package repo

import (
	"context"
	"sync"
	"time"

	perr "taxintake/internal/platform/errors"
	"taxintake/internal/services/api/intake/domain"

	"github.com/google/uuid"
)

// Memory is an in-process Store, used when Postgres is disabled. sessions
// do not survive a restart, and ones untouched for ttl are dropped
type Memory struct {
	mu        sync.Mutex
	m         map[uuid.UUID]domain.Session
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemory returns an empty Memory store. ttl <= 0 keeps sessions forever
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		m:   map[uuid.UUID]domain.Session{},
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create implements Repo. it also sweeps expired sessions, at most once per
// tenth of the ttl
func (s *Memory) Create(ctx context.Context, sess domain.Session) error {
	s.evict()
	return s.Atomic(ctx, func(r Repo) error { return r.Create(ctx, sess) })
}

func (s *Memory) evict() {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl/10 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.m {
		if now.Sub(sess.UpdatedAt) >= s.ttl {
			delete(s.m, id)
		}
	}
}

// Len reports how many sessions are held
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Get implements Repo
func (s *Memory) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	var out domain.Session
	err := s.Atomic(ctx, func(r Repo) (err error) {
		out, err = r.Get(ctx, id)
		return err
	})
	return out, err
}

// Lock implements Repo
func (s *Memory) Lock(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return s.Get(ctx, id)
}

// Update implements Repo
func (s *Memory) Update(ctx context.Context, sess domain.Session) error {
	return s.Atomic(ctx, func(r Repo) error { return r.Update(ctx, sess) })
}

// Atomic serializes fn against every other call and applies its writes only
// when it returns nil
func (s *Memory) Atomic(_ context.Context, fn func(Repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{base: s.m, writes: map[uuid.UUID]domain.Session{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, sess := range tx.writes {
		s.m[id] = sess
	}
	return nil
}

// memTx reads through pending writes to the committed map. the caller holds mu
type memTx struct {
	base   map[uuid.UUID]domain.Session
	writes map[uuid.UUID]domain.Session
}

func (t *memTx) lookup(id uuid.UUID) (domain.Session, bool) {
	if s, ok := t.writes[id]; ok {
		return s, true
	}
	s, ok := t.base[id]
	return s, ok
}

func (t *memTx) Create(_ context.Context, s domain.Session) error {
	if _, ok := t.lookup(s.ID); ok {
		return perr.Newf(perr.ErrorCodeDuplicateKey, "intake session %s already exists", s.ID)
	}
	t.writes[s.ID] = s
	return nil
}

func (t *memTx) Get(_ context.Context, id uuid.UUID) (domain.Session, error) {
	s, ok := t.lookup(id)
	if !ok {
		return domain.Session{}, perr.NotFoundf("intake session not found")
	}
	return s, nil
}

func (t *memTx) Lock(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return t.Get(ctx, id)
}

func (t *memTx) Update(_ context.Context, s domain.Session) error {
	if _, ok := t.lookup(s.ID); !ok {
		return perr.NotFoundf("intake session not found")
	}
	t.writes[s.ID] = s
	return nil
}
