// Package http builds JSON clients for the upstream services the backend
// talks to, with per-service timeouts and transport middleware.
package http

import (
	"net"
	"net/http"
	"time"
)

// Middleware wraps a RoundTripper, outermost last.
type Middleware func(http.RoundTripper) http.RoundTripper

type clientSettings struct {
	dialTimeout           time.Duration
	requestTimeout        time.Duration
	keepAlive             time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	middleware            []Middleware
}

// Option tunes one client setting.
type Option func(*clientSettings)

func WithConnClientTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.dialTimeout = d }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.requestTimeout = d }
}

func WithClientKeepAlive(d time.Duration) Option {
	return func(s *clientSettings) { s.keepAlive = d }
}

func WithResponseHeaderTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.responseHeaderTimeout = d }
}

func WithIdleConnTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.idleConnTimeout = d }
}

func WithMiddleware(m Middleware) Option {
	return func(s *clientSettings) { s.middleware = append(s.middleware, m) }
}

func newClient(opts ...Option) *http.Client {
	settings := &clientSettings{
		dialTimeout:           30 * time.Second,
		requestTimeout:        30 * time.Second,
		keepAlive:             90 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
		idleConnTimeout:       90 * time.Second,
	}
	for _, opt := range opts {
		opt(settings)
	}

	dialer := net.Dialer{
		Timeout:   settings.dialTimeout,
		KeepAlive: settings.keepAlive,
	}

	var rt http.RoundTripper = &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: settings.responseHeaderTimeout,
		IdleConnTimeout:       settings.idleConnTimeout,
	}
	for _, m := range settings.middleware {
		rt = m(rt)
	}

	return &http.Client{
		Timeout:   settings.requestTimeout,
		Transport: rt,
	}
}
