package static

import (
	"context"
	"sort"
	"sync"

	"github.com/w-h-a/culturelog/culture"
	"github.com/w-h-a/culturelog/identity"
)

// staticIdentity serves a fixed user table. SignInInteractive signs in the
// first configured user, which is enough to drive the facade and tests; real
// deployments resolve users per request through Verify.
type staticIdentity struct {
	options   identity.Options
	current   culture.User
	signedIn  bool
	listeners []func(user culture.User, signedIn bool)
	mtx       sync.RWMutex
}

func (s *staticIdentity) SignInInteractive(ctx context.Context) (culture.User, error) {
	s.mtx.Lock()

	tokens := make([]string, 0, len(s.options.Users))
	for token := range s.options.Users {
		tokens = append(tokens, token)
	}

	if len(tokens) == 0 {
		s.mtx.Unlock()
		return culture.User{}, culture.ErrAuthRequired
	}

	sort.Strings(tokens)

	user := s.options.Users[tokens[0]]

	s.current = user
	s.signedIn = true

	listeners := s.snapshotListeners()

	s.mtx.Unlock()

	for _, fn := range listeners {
		fn(user, true)
	}

	return user, nil
}

func (s *staticIdentity) SignOut(ctx context.Context) error {
	s.mtx.Lock()

	s.current = culture.User{}
	s.signedIn = false

	listeners := s.snapshotListeners()

	s.mtx.Unlock()

	for _, fn := range listeners {
		fn(culture.User{}, false)
	}

	return nil
}

func (s *staticIdentity) CurrentUser(ctx context.Context) (culture.User, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.current, s.signedIn
}

func (s *staticIdentity) OnAuthChange(fn func(user culture.User, signedIn bool)) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *staticIdentity) Verify(ctx context.Context, token string) (culture.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	user, ok := s.options.Users[token]
	if !ok {
		return culture.User{}, culture.ErrAuthRequired
	}

	return user, nil
}

func (s *staticIdentity) snapshotListeners() []func(user culture.User, signedIn bool) {
	cpy := make([]func(user culture.User, signedIn bool), len(s.listeners))
	copy(cpy, s.listeners)
	return cpy
}

func NewIdentity(opts ...identity.Option) identity.Identity {
	options := identity.NewOptions(opts...)

	s := &staticIdentity{
		options: options,
		mtx:     sync.RWMutex{},
	}

	return s
}
