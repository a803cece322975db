package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/organizae/users-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Call recorder shared by the stubs so tests can assert ordering.
// ---------------------------------------------------------------------------

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	log    *callLog

	findAllCalls int
	findByIDErr  error
	createErr    error
	updateErr    error
	deleteErr    error
}

func newStubUserRepo(log *callLog) *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1, log: log}
}

func (r *stubUserRepo) seed(u domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = &u
	return &u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.log.add("repo.create")
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailInUse
		}
	}
	stored := *u
	stored.ID = r.nextID
	r.nextID++
	r.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	r.findAllCalls++
	out := make([]domain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := u.Public()
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	r.log.add("repo.update")
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	stored, ok := r.users[u.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Role = u.Role
	if u.Password != "" {
		stored.Password = u.Password
	}
	out := stored.Public()
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.log.add("repo.delete")
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

// ---------------------------------------------------------------------------
// Cache and publisher stubs
// ---------------------------------------------------------------------------

type stubCache struct {
	entries map[string][]byte
	deletes [][]string
	log     *callLog
}

func newStubCache(log *callLog) *stubCache {
	return &stubCache{entries: make(map[string][]byte), log: log}
}

func (c *stubCache) Get(_ context.Context, key string, dest any) bool {
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.entries[key] = raw
}

func (c *stubCache) Delete(_ context.Context, keys ...string) {
	c.log.add("cache.delete")
	c.deletes = append(c.deletes, keys)
	for _, k := range keys {
		delete(c.entries, k)
	}
}

func (c *stubCache) FlushAll(_ context.Context) {
	c.entries = make(map[string][]byte)
}

type publishedEvent struct {
	channel string
	payload any
}

type stubPublisher struct {
	events []publishedEvent
	log    *callLog
}

func (p *stubPublisher) Publish(_ context.Context, channel string, payload any) {
	p.log.add("publish")
	p.events = append(p.events, publishedEvent{channel: channel, payload: payload})
}

// ---------------------------------------------------------------------------
// Token issuer stub
// ---------------------------------------------------------------------------

type stubTokenIssuer struct {
	issued []domain.Principal
	err    error
}

func (s *stubTokenIssuer) Issue(p domain.Principal) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, p)
	return "signed-token", nil
}
