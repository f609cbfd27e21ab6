package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/regolith/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "regolith:frame:"

// Store implements ports.FrameStore using Redis.
//
// Layout:
//
//	<prefix><runID>:<step>   JSON frame
//	<prefix><runID>:index    ZSET of steps (score = step)
//	<prefix>index            ZSET of run ids (score = last save, unix seconds)
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires frames and their step index after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New connects to addr and returns a Store.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client exposes the underlying connection, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) frameKey(runID string, step int) string {
	return s.prefix + runID + ":" + strconv.Itoa(step)
}

func (s *Store) stepsKey(runID string) string {
	return s.prefix + runID + ":index"
}

func (s *Store) runsKey() string {
	return s.prefix + "index"
}

// Save writes the frame and updates both indexes in one transaction.
func (s *Store) Save(ctx context.Context, frame *domain.Frame) error {
	if err := domain.ValidateRunID(frame.RunID); err != nil {
		return err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	stepsKey := s.stepsKey(frame.RunID)
	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.frameKey(frame.RunID, frame.Step), data, s.ttl)
		pipe.ZAdd(ctx, stepsKey, backend.Z{Score: float64(frame.Step), Member: strconv.Itoa(frame.Step)})
		if s.ttl > 0 {
			pipe.Expire(ctx, stepsKey, s.ttl)
		}
		pipe.ZAdd(ctx, s.runsKey(), backend.Z{Score: float64(time.Now().Unix()), Member: frame.RunID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}
	return nil
}

// Load retrieves a single frame.
func (s *Store) Load(ctx context.Context, runID string, step int) (*domain.Frame, error) {
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.frameKey(runID, step)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrFrameNotFound
		}
		return nil, fmt.Errorf("redis load failed: %w", err)
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
	members, err := s.client.ZRange(ctx, s.stepsKey(runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list failed: %w", err)
	}
	if len(members) == 0 {
		return nil, domain.ErrRunNotFound
	}

	steps := make([]int, 0, len(members))
	for _, m := range members {
		step, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt step index for run %s: %w", runID, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Runs returns the run ids that still have frames.
// Runs whose step index has expired are removed from the run index lazily.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.runsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis runs failed: %w", err)
	}

	runs := make([]string, 0, len(ids))
	var stale []any
	for _, id := range ids {
		n, err := s.client.Exists(ctx, s.stepsKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis runs failed: %w", err)
		}
		if n == 0 {
			stale = append(stale, id)
			continue
		}
		runs = append(runs, id)
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.runsKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("redis index cleanup failed: %w", err)
		}
	}
	return runs, nil
}

// Delete removes every frame of a run and its index entries.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if err := domain.ValidateRunID(runID); err != nil {
		return err
	}
	members, err := s.client.ZRange(ctx, s.stepsKey(runID), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, s.prefix+runID+":"+m)
	}
	keys = append(keys, s.stepsKey(runID))

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, s.runsKey(), runID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
