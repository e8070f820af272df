package server

import (
	"context"

	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/services"
	"github.com/kashvishop/storefront/config"
	"github.com/kashvishop/storefront/internal/kernel"
	"github.com/kashvishop/storefront/pkg/logger"
	"github.com/kashvishop/storefront/pkg/schedule"
	"github.com/kashvishop/storefront/pkg/session"
)

const catalogSyncInventory = 10

// Housekeeping registers the server's recurring jobs on s: evicting expired
// memory sessions and rate-limit buckets, and the optional CATALOG_SYNC import.
func Housekeeping(s *schedule.Scheduler, db *gorm.DB, k *kernel.HTTPKernel, store session.Store) error {
	every := config.SessionTTL() / 4

	if mem, ok := store.(*session.MemoryStore); ok {
		s.Every(every).Name("sessions:evict").Run(func(context.Context) {
			if n := mem.Evict(); n > 0 {
				logger.Debug("expired sessions evicted", "count", n)
			}
		})
	}

	if k.Limiter != nil {
		s.Every(k.Limiter.Window).Name("ratelimit:evict").Run(func(context.Context) {
			k.Limiter.Evict()
		})
	}

	if expr := config.CatalogSync(); expr != "" {
		b, err := s.Cron(expr)
		if err != nil {
			return err
		}
		importer := services.NewCatalogImporter(db, config.CatalogURL(), catalogSyncInventory)
		b.Name("catalog:sync").WithoutOverlapping().Run(func(ctx context.Context) {
			if _, err := importer.Import(ctx); err != nil {
				logger.Error("catalog sync failed", "error", err)
			}
		})
	}

	return nil
}
