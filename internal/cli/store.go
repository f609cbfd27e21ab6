package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/regolith/internal/config"
	"github.com/aretw0/regolith/pkg/adapters/badger"
	"github.com/aretw0/regolith/pkg/adapters/memory"
	"github.com/aretw0/regolith/pkg/adapters/redis"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// storeHandle bundles an opened frame store with its cleanup and, for redis, a run locker.
type storeHandle struct {
	store  ports.FrameStore
	locker ports.DistributedLocker
	close  func() error
}

func (h *storeHandle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// openStore opens the configured frame store. Kind "none" returns a nil handle.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*storeHandle, error) {
	switch cfg.Kind {
	case config.StoreNone, "":
		return nil, nil

	case config.StoreMemory:
		return &storeHandle{store: memory.NewFrameStore()}, nil

	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("redis frame store ready", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return &storeHandle{
			store:  s,
			locker: redis.NewLocker(s.Client(), cfg.Redis.Prefix),
			close:  s.Close,
		}, nil

	case config.StoreBadger:
		if cfg.Badger.Dir == "" {
			return nil, fmt.Errorf("%w: badger store needs a directory", domain.ErrInvalidConfig)
		}
		bcfg := badger.DefaultConfig(cfg.Badger.Dir)
		bcfg.Logger = logger
		s, err := badger.Open(bcfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("badger frame store ready", "dir", cfg.Badger.Dir)
		return &storeHandle{store: s, close: s.Close}, nil

	default:
		return nil, fmt.Errorf("%w: unknown store kind %q", domain.ErrInvalidConfig, cfg.Kind)
	}
}
