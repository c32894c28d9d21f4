package service

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/metrics"
)

type Option func(*options)

type options struct {
	now     func() time.Time
	random  io.Reader
	metrics *metrics.Metrics
}

func newOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRandomSource replaces crypto/rand as the quick-access token source.
func WithRandomSource(random io.Reader) Option {
	return func(o *options) {
		if random != nil {
			o.random = random
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
