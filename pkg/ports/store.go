package ports

import (
	"context"

	"github.com/aretw0/regolith/pkg/domain"
)

// FrameStore persists simulation frames so runs can be replayed.
type FrameStore interface {
	// Save persists a frame under (frame.RunID, frame.Step), replacing any previous one.
	Save(ctx context.Context, frame *domain.Frame) error

	// Load retrieves a frame.
	// Returns domain.ErrFrameNotFound if the frame does not exist.
	Load(ctx context.Context, runID string, step int) (*domain.Frame, error)

	// List returns the stored steps of a run in ascending order.
	// Returns domain.ErrRunNotFound if the run has no frames.
	List(ctx context.Context, runID string) ([]int, error)

	// Runs returns the IDs of all stored runs.
	Runs(ctx context.Context) ([]string, error)

	// Delete removes every frame of a run.
	Delete(ctx context.Context, runID string) error
}
