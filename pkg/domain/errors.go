package domain

import "errors"

// ErrInvalidGrid is returned when a grid cannot be built with the requested shape.
var ErrInvalidGrid = errors.New("invalid grid")

// ErrInvalidState is returned when a node-state array does not match the grid or the state labels.
var ErrInvalidState = errors.New("invalid node state")

// ErrInvalidTransition is returned when a transition rule is malformed.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInvalidConfig is returned when simulation parameters are out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrFrameNotFound is returned when a frame cannot be found in the store.
var ErrFrameNotFound = errors.New("frame not found")

// ErrRunNotFound is returned when a run ID has no frames in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrInvalidRunID is returned when a run ID cannot be used as a storage key.
var ErrInvalidRunID = errors.New("invalid run id")
