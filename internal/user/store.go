package user

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrUserNotFound is returned when a user name is not registered
var ErrUserNotFound = errors.New("user not found")

// Store is the in-memory roster of registered users keyed by user name
type Store struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewStore creates an empty roster
func NewStore() *Store {
	return &Store{users: make(map[string]*User)}
}

// Add registers u. An existing user with the same name is kept and
// Add reports false.
func (s *Store) Add(u *User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.UserName]; exists {
		return false
	}
	s.users[u.UserName] = u
	return true
}

// Get returns the user registered under userName
func (s *Store) Get(userName string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userName]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// All returns every registered user ordered by user name
func (s *Store) All() []*User {
	s.mu.RLock()
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *User) int {
		return strings.Compare(a.UserName, b.UserName)
	})
	return out
}

// Len returns the number of registered users
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
