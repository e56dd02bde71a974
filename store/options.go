package store

import "time"

// Option modifies the JSON item store's dependencies.
type Option func(*jsonItemStore)

// WithFileSystem sets a custom FileSystem implementation.
func WithFileSystem(fs FileSystem) Option {
	return func(s *jsonItemStore) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation.
func WithFileLockFactory(factory FileLockFactory) Option {
	return func(s *jsonItemStore) {
		s.lockFactory = factory
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *jsonItemStore) {
		s.timeFunc = fn
	}
}
