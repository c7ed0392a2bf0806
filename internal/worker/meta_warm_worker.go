package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edufin/finboard-backend/internal/service"
)

// MetaWarmWorker keeps the campus/course-type dictionary cache warm so the
// dashboard's dropdowns never stampede Postgres after a TTL expiry.
type MetaWarmWorker struct {
	metaService *service.MetaService
	interval    time.Duration
	log         zerolog.Logger
}

// NewMetaWarmWorker creates a new MetaWarmWorker. The refresh interval should
// be shorter than the cache TTL.
func NewMetaWarmWorker(metaService *service.MetaService, interval time.Duration, log zerolog.Logger) *MetaWarmWorker {
	return &MetaWarmWorker{metaService: metaService, interval: interval, log: log}
}

// Start runs the refresh loop until the context is cancelled. The first
// refresh happens immediately so the cache is warm before traffic arrives.
func (w *MetaWarmWorker) Start(ctx context.Context) {
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Meta warm worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *MetaWarmWorker) refresh(ctx context.Context) {
	if _, err := w.metaService.Refresh(ctx); err != nil {
		w.log.Warn().Err(err).Msg("Meta cache refresh failed")
	}
}
