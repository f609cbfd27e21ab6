package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "frame/"

// Store implements ports.FrameStore on BadgerDB.
//
// Keys are frame/<runID>/<step>, the step zero-padded to 8 digits so that
// lexical iteration order is step order.
type Store struct {
	db *badger.DB
	gc *gcRunner
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*Store, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		ratio := cfg.GCDiscardRatio
		if ratio <= 0 || ratio >= 1 {
			ratio = 0.5
		}
		s.gc = startGC(db, cfg.GCInterval, ratio, cfg.Logger)
	}
	return s, nil
}

// Close stops GC and closes the database.
func (s *Store) Close() error {
	if s.gc != nil {
		s.gc.stop()
	}
	return s.db.Close()
}

// runID never contains '/', so a run's prefix matches no other run's keys.
func runPrefix(runID string) []byte {
	return []byte(keyPrefix + runID + "/")
}

func frameKey(runID string, step int) []byte {
	return []byte(fmt.Sprintf("%s%s/%08d", keyPrefix, runID, step))
}

// Save writes the frame, replacing any previous frame at the same step.
func (s *Store) Save(ctx context.Context, frame *domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateRunID(frame.RunID); err != nil {
		return err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(frameKey(frame.RunID, frame.Step), data)
	}); err != nil {
		return fmt.Errorf("badger save failed: %w", err)
	}
	return nil
}

// Load retrieves a single frame.
func (s *Store) Load(ctx context.Context, runID string, step int) (*domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(frameKey(runID, step))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrFrameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger load failed: %w", err)
	}

	var frame domain.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal frame: %w", err)
	}
	return &frame, nil
}

// List returns the stored steps of a run in ascending order.
func (s *Store) List(ctx context.Context, runID string) ([]int, error) {
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	prefix := runPrefix(runID)
	var steps []int
	err := s.keys(ctx, prefix, func(key []byte) error {
		step, err := strconv.Atoi(string(key[len(prefix):]))
		if err != nil {
			return fmt.Errorf("corrupt frame key %q: %w", key, err)
		}
		steps = append(steps, step)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, domain.ErrRunNotFound
	}
	return steps, nil
}

// Runs returns the distinct run ids, sorted.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	err := s.keys(ctx, []byte(keyPrefix), func(key []byte) error {
		rest := key[len(keyPrefix):]
		if i := bytes.LastIndexByte(rest, '/'); i > 0 {
			seen[string(rest[:i])] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	runs := make([]string, 0, len(seen))
	for id := range seen {
		runs = append(runs, id)
	}
	sort.Strings(runs)
	return runs, nil
}

// Delete removes every frame of a run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if err := domain.ValidateRunID(runID); err != nil {
		return err
	}
	var keys [][]byte
	if err := s.keys(ctx, runPrefix(runID), func(key []byte) error {
		keys = append(keys, key)
		return nil
	}); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("badger delete failed: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("badger delete failed: %w", err)
	}
	return nil
}

// keys calls fn for every key under prefix, in order, without fetching values.
func (s *Store) keys(ctx context.Context, prefix []byte, fn func(key []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(it.Item().KeyCopy(nil)); err != nil {
				return err
			}
		}
		return nil
	})
}
