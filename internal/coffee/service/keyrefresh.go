package service

import (
	"context"
	"log/slog"
	"time"
)

// KeyRefresher is the part of the key cache the background worker drives.
type KeyRefresher interface {
	Refresh(ctx context.Context) error
}

// KeyRefreshService reloads the issuer's key set on a fixed interval, so a
// rotated key is usually known before the first token signed with it
// arrives and /readyz reflects the key source's health.
type KeyRefreshService struct {
	Keys     KeyRefresher
	Logger   *slog.Logger
	Interval time.Duration
	Timeout  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewKeyRefreshService creates a worker. If interval is 0 or negative,
// defaults to 15 minutes.
func NewKeyRefreshService(keys KeyRefresher, logger *slog.Logger, interval, timeout time.Duration) *KeyRefreshService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &KeyRefreshService{
		Keys:     keys,
		Logger:   logger,
		Interval: interval,
		Timeout:  timeout,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *KeyRefreshService) Start() {
	go s.run()
	s.Logger.Info("key refresh service started", "interval", s.Interval)
}

// Stop blocks until an in-progress refresh has finished.
func (s *KeyRefreshService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("key refresh service stopped")
}

func (s *KeyRefreshService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Load the keys before the first request needs them.
	s.refresh()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stopCh:
			return
		}
	}
}

func (s *KeyRefreshService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	// The cache logs the outcome itself.
	if err := s.Keys.Refresh(ctx); err != nil {
		s.Logger.Debug("scheduled key refresh failed", "error", err)
	}
}
