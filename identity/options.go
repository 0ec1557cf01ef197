package identity

import (
	"context"

	"github.com/w-h-a/culturelog/culture"
)

type Option func(*Options)

type Options struct {
	Users   map[string]culture.User
	Context context.Context
}

// WithUser registers a user reachable by the given bearer token.
func WithUser(token string, user culture.User) Option {
	return func(o *Options) {
		o.Users[token] = user
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Users:   map[string]culture.User{},
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
