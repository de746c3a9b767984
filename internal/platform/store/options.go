package store

import "taxintake/internal/platform/logger"

// Option mutates the Store before backends are opened
type Option func(*Store) error

// WithLogger sets the logger handed to backend tracers
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
