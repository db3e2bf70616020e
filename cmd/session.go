package cmd

import (
	"context"
	"io"
	"log/slog"

	"tipctl/internal/cache"
	"tipctl/internal/errors"
	"tipctl/internal/executor"
	"tipctl/internal/interfaces"
	"tipctl/internal/logging"
	"tipctl/internal/models"
	"tipctl/internal/sandbox"
)

const logPrefix = "tipctl"

// session owns everything a run needs and releases it on Close.
type session struct {
	logger    *slog.Logger
	client    interfaces.HostingClient
	responses *cache.ResponseCache
	executor  interfaces.Executor
	closers   []io.Closer
}

func newSession(ctx context.Context, cfg *models.Config) (*session, error) {
	s := &session{}

	writer, err := logging.NewDailyWriter(cfg.LogDir, logPrefix, nil)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, writer)

	s.logger, err = logging.New(cfg.LogLevel, cfg.LogFormat, writer)
	if err != nil {
		s.Close()
		return nil, err
	}
	ctx = logging.WithLogger(ctx, s.logger)

	client, err := openClient(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	if closer, ok := client.(io.Closer); ok {
		s.closers = append(s.closers, closer)
	}

	if cfg.CacheTTL > 0 {
		s.responses = cache.NewResponseCache(cfg.CacheTTL, 0)
		client = cache.NewCachedClient(client, s.responses)
	}
	s.client = client
	s.executor = executor.New(client)

	s.logger.Debug("session opened", "sandbox", cfg.Sandbox.Database, "cacheTTL", cfg.CacheTTL)
	return s, nil
}

// openClient connects to the account the configuration selects.
func openClient(ctx context.Context, cfg *models.Config) (interfaces.HostingClient, error) {
	if cfg.Sandbox.Database == "" {
		return nil, errors.ConfigError("no hosting account configured").
			WithSuggestion("Use --sandbox <db> to run against a local sandbox database").
			WithSuggestion("Set TIPCTL_SANDBOX_DB or sandbox.database in the configuration file")
	}

	store, err := sandbox.Open(ctx, cfg.Sandbox.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Sandbox.Seed != "" {
		seed, err := sandbox.LoadSeed(cfg.Sandbox.Seed)
		if err == nil {
			err = store.ApplySeed(ctx, seed)
		}
		if err != nil {
			store.Close()
			return nil, err
		}
		logging.FromContext(ctx).Info("sandbox seeded", "seed", cfg.Sandbox.Seed)
	}

	return store, nil
}

// Context returns ctx carrying the session logger.
func (s *session) Context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, s.logger)
}

// Close reports cache usage, then releases the client and the log file, newest first.
func (s *session) Close() error {
	if s.responses != nil {
		expired := s.responses.CleanupExpired()
		stats := s.responses.Stats()
		s.logger.Debug("response cache",
			"entries", stats.TotalEntries,
			"expired", expired,
			"hits", stats.TotalHits,
			"ttl", stats.TTL)
		s.responses = nil
	}

	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
