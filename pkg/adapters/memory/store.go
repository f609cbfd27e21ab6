package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/regolith/pkg/domain"
)

// FrameStore implements ports.FrameStore in memory.
// Safe for concurrent use.
type FrameStore struct {
	data map[string]map[int]*domain.Frame
	mu   sync.RWMutex
}

// NewFrameStore creates a new in-memory frame store.
func NewFrameStore() *FrameStore {
	return &FrameStore{
		data: make(map[string]map[int]*domain.Frame),
	}
}

// Save stores a copy of the frame.
func (s *FrameStore) Save(ctx context.Context, frame *domain.Frame) error {
	if err := domain.ValidateRunID(frame.RunID); err != nil {
		return err
	}
	cp := frame.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.data[frame.RunID]
	if !ok {
		run = make(map[int]*domain.Frame)
		s.data[frame.RunID] = run
	}
	run[frame.Step] = cp
	return nil
}

// Load returns a copy so callers can't mutate stored frames.
func (s *FrameStore) Load(ctx context.Context, runID string, step int) (*domain.Frame, error) {
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, ok := s.data[runID][step]
	if !ok {
		return nil, domain.ErrFrameNotFound
	}
	return frame.Clone(), nil
}

// List returns the stored steps of a run in ascending order.
func (s *FrameStore) List(ctx context.Context, runID string) ([]int, error) {
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok || len(run) == 0 {
		return nil, domain.ErrRunNotFound
	}
	steps := make([]int, 0, len(run))
	for step := range run {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	return steps, nil
}

// Runs returns the known run ids, sorted.
func (s *FrameStore) Runs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	sort.Strings(runs)
	return runs, nil
}

// Delete removes every frame of a run.
func (s *FrameStore) Delete(ctx context.Context, runID string) error {
	if err := domain.ValidateRunID(runID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}
