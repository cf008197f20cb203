package vecs

type config[T any] struct {
	drop func(T)
}

// Option configures a Vector created by New.
type Option[T any] func(*config[T])

// WithDropFunc registers fn as the vector's destructor. It is called once
// for every element the vector or one of its iterators destroys without
// handing it to the caller: on Clear, on Free, and for the unconsumed rest
// of an iterator when it is closed.
func WithDropFunc[T any](fn func(T)) Option[T] {
	return func(cfg *config[T]) {
		cfg.drop = fn
	}
}
