package blob

import "context"

type Option func(*Options)

type Options struct {
	Location  string
	PublicURL string
	Context   context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// WithPublicURL sets the base URL a stored path is resolved against.
func WithPublicURL(base string) Option {
	return func(o *Options) {
		o.PublicURL = base
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
