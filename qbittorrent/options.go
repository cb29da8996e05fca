package qbittorrent

import "time"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout       time.Duration
	basicUser     string
	basicPass     string
	tlsSkipVerify bool
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		timeout: 30 * time.Second,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithBasicAuth sets credentials for HTTP basic auth in front of the Web UI.
func WithBasicAuth(user, pass string) Option {
	return func(o *clientOptions) {
		o.basicUser = user
		o.basicPass = pass
	}
}

// WithTLSSkipVerify disables certificate verification.
// Use with caution and only for development/testing.
func WithTLSSkipVerify() Option {
	return func(o *clientOptions) {
		o.tlsSkipVerify = true
	}
}
