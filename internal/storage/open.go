package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/daap14/questadmin/internal/config"
	"github.com/daap14/questadmin/internal/k8s"
)

// Open builds the Store selected by cfg.StoreDriver. The returned close func
// releases any connection the store holds and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(), noop, nil

	case "file", "":
		var sealer *Sealer
		if cfg.StoreSecret != "" {
			s, err := NewSealer(cfg.StoreSecret)
			if err != nil {
				return nil, noop, err
			}
			sealer = s
		}
		fs, err := NewFileStore(cfg.StorePath, sealer)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("using file session store", "path", cfg.StorePath, "sealed", sealer != nil)
		return fs, noop, nil

	case "redis":
		rdb, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("using redis session store", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		return NewRedisStore(rdb, cfg.RedisPrefix), func() { rdb.Close() }, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		db, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		ps := NewPostgresStore(db)
		if err := ps.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		slog.Info("using postgres session store")
		return ps, func() { db.Close() }, nil

	case "kubernetes":
		var opts []k8s.ClientOption
		if cfg.KubeconfigPath != "" {
			opts = append(opts, k8s.WithKubeconfig(cfg.KubeconfigPath))
		}
		client, err := k8s.NewClient(opts...)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("using kubernetes secret session store", "host", client.Host(), "namespace", cfg.Namespace, "secret", cfg.SecretName)
		return NewSecretStore(client.NewManager(), cfg.Namespace, cfg.SecretName), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
