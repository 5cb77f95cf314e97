package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/models"
)

// Manager owns the live sessions. Every change is mirrored to the Store with
// a refreshed expiry; sessions past their expiry are treated as absent.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]Session
	onExpire []func(id string)
}

func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// UseClock replaces the time source used for expiry.
func (m *Manager) UseClock(now func() time.Time) {
	m.now = now
}

// OnExpire registers fn to be called with the id of every session dropped for
// being past its expiry. Callbacks run outside the manager's lock.
func (m *Manager) OnExpire(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = append(m.onExpire, fn)
}

// Hydrate loads every persisted, unexpired session. It is called once at startup.
func (m *Manager) Hydrate(ctx context.Context) (int, error) {
	stored, err := m.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("hydrate sessions: %w", err)
	}

	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, s := range stored {
		if s.Expired(now) {
			if err := m.store.Delete(ctx, s.ID); err != nil {
				log.FromContext(ctx).WithError(err).WithField("session_id", s.ID).Warn("could not drop expired session")
			}
			continue
		}
		m.sessions[s.ID] = s
		loaded++
	}
	return loaded, nil
}

func (m *Manager) Create(ctx context.Context) (Session, error) {
	s := Session{ID: uuid.NewString()}
	return m.save(ctx, s)
}

// Get returns a live session. An expired one is removed and reported as ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return Session{}, ErrNotFound
	}
	if s.Expired(m.now()) {
		m.drop(ctx, id)
		return Session{}, ErrNotFound
	}
	return s, nil
}

// GetOrCreate resolves id, starting a fresh anonymous session when it is unknown.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (Session, bool, error) {
	if id != "" {
		s, err := m.Get(ctx, id)
		if err == nil {
			return s, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Session{}, false, err
		}
	}
	s, err := m.Create(ctx)
	return s, true, err
}

func (m *Manager) Login(ctx context.Context, id string, user models.UserInfo, cookies []Cookie) (Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	s.LoggedIn = true
	s.FullName = user.FullName
	s.Role = user.Role
	s.Cookies = cookies
	return m.save(ctx, s)
}

func (m *Manager) SetCookies(ctx context.Context, id string, cookies []Cookie) (Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	s.Cookies = cookies
	return m.save(ctx, s)
}

// Logout forgets the user of a session in memory and in the store. The
// session id itself stays usable as an anonymous session.
func (m *Manager) Logout(ctx context.Context, id string) (Session, error) {
	if err := m.store.Delete(ctx, id); err != nil {
		return Session{}, fmt.Errorf("delete session: %w", err)
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	return m.save(ctx, Session{ID: id})
}

func (m *Manager) save(ctx context.Context, s Session) (Session, error) {
	now := m.now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(m.ttl)

	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Sweep drops every expired session from memory and the store.
func (m *Manager) Sweep(ctx context.Context) int {
	now := m.now()

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.Expired(now) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.drop(ctx, id)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(ctx); n > 0 {
				log.FromContext(ctx).WithField("expired", n).Info("swept expired sessions")
			}
		}
	}
}

func (m *Manager) drop(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	callbacks := m.onExpire
	m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		log.FromContext(ctx).WithError(err).WithField("session_id", id).Warn("could not delete expired session")
	}
	for _, fn := range callbacks {
		fn(id)
	}
}
