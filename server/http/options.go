package http

import (
	"context"
	"net/http"
)

type Option func(*Options)

type Options struct {
	Address      string
	MaxBodyBytes int64
	Middleware   []func(h http.Handler) http.Handler
	Context      context.Context
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(o *Options) {
		o.MaxBodyBytes = n
	}
}

func WithMiddleware(ms ...func(h http.Handler) http.Handler) Option {
	return func(o *Options) {
		o.Middleware = append(o.Middleware, ms...)
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address:      ":4000",
		MaxBodyBytes: 8 << 20,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
