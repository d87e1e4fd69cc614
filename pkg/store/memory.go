package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore implements UserStore for tests and lightweight deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[int64]User)}
}

func (s *InMemoryStore) Create(_ context.Context, name, email, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := User{
		ID:           s.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *InMemoryStore) Find(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *InMemoryStore) Save(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *InMemoryStore) Paginate(_ context.Context, page, perPage int) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	all := s.sortedByID()
	total := len(all)

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return Page{
		Items:       append([]User(nil), all[start:end]...),
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage(total, perPage),
	}, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, n int) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sortedByID()
	// Ids are monotonic, so id order doubles as creation order. Sort by
	// timestamp anyway with id as tiebreaker for records created within the
	// same clock tick.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	return append([]User(nil), all[:n]...), nil
}

func (s *InMemoryStore) sortedByID() []User {
	all := make([]User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

var _ UserStore = (*InMemoryStore)(nil)
