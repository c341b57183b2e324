package core

import (
	"github.com/pkg/errors"
)

var (
	// ErrCyclicParent is returned when a transform would become its own ancestor.
	ErrCyclicParent = errors.New("transform cannot be parented to itself or one of its descendants")
	// ErrForeignTransform is returned when two transforms live in different hierarchies.
	ErrForeignTransform = errors.New("transform belongs to a different hierarchy")
	// ErrStaleHandle is returned when a handle refers to a destroyed transform.
	ErrStaleHandle = errors.New("stale transform handle")
	// ErrUnknownHandle is returned when a handle was never issued by the pool.
	ErrUnknownHandle = errors.New("unknown transform handle")

	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrWatcherClosed   = errors.New("config watcher already closed")

	// ErrMissingAppConfig is returned when a game is handed to the engine without an application config.
	ErrMissingAppConfig = errors.New("the game must provide an application config")
)
