package service

import (
	"time"

	"github.com/okian/tycoon/internal/adapters/repository"
	"github.com/okian/tycoon/internal/config"
	"github.com/okian/tycoon/internal/content"
	"github.com/okian/tycoon/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithArchive injects the review archive instead of opening cfg.ArchivePath.
// The caller keeps ownership: Stop leaves it open so the service can be
// started again, and the caller closes it when done.
func WithArchive(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.archive = store
		}
	}
}

// WithCatalog injects the template catalog instead of loading cfg.TemplatesPath.
func WithCatalog(c *content.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock sets the time source for event and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWorkClock sets the clock that stamps work units. Time efficiency is
// measured on it, so a simulated clock makes scores reproducible.
func WithWorkClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.workClock = now
		}
	}
}
