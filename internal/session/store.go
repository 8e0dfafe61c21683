package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ergolab/consulta/internal/common"
)

var ErrNotFound = errors.New("session: not found")

type Session struct {
	ID            string    `json:"id"`
	AdminID       uint64    `json:"admin_id"`
	AdminUsername string    `json:"admin_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store holds server-side admin session records keyed by an opaque ULID that
// travels in the session cookie. Records expire after the configured TTL.
type Store interface {
	Create(ctx context.Context, adminID uint64, adminUsername string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]*Session
}

func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]*Session),
	}
}

func (s *memoryStore) Create(_ context.Context, adminID uint64, adminUsername string) (*Session, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:            id,
		AdminID:       adminID,
		AdminUsername: adminUsername,
		CreatedAt:     s.now(),
	}
	s.mu.Lock()
	s.data[id] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.ttl > 0 && s.now().Sub(sess.CreatedAt) > s.ttl {
		delete(s.data, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}
