package jobs

import (
	"context"

	"github.com/tubetrade/rfq-api/internal/archive"
	"github.com/tubetrade/rfq-api/internal/config"
	"github.com/tubetrade/rfq-api/internal/store"
	"go.uber.org/zap"
)

// RegisterArchiveJob schedules the write-behind snapshot job. On every run it
// walks the in-memory stores and archives RFQ states and quotes that changed
// since the previous run. The two stores are walked independently: quotes may
// reference identifiers no RFQ was ever parsed for and still get archived.
// Failures are logged and retried on the next tick; the job never touches the
// live stores' contents.
func RegisterArchiveJob(
	scheduler *Scheduler,
	cfg *config.ArchiveConfig,
	repo *archive.Repository,
	rfqs store.RFQStore,
	quotes store.QuoteStore,
	logger *zap.Logger,
) error {
	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.SnapshotTimeoutDuration())
		defer cancel()

		var archived, failed int
		for _, rfq := range rfqs.List() {
			if err := repo.SaveRFQ(ctx, rfq); err != nil {
				logger.Warn("failed to archive rfq snapshot",
					zap.String("rfq_id", rfq.RFQID),
					zap.Error(err),
				)
				failed++
				continue
			}
			archived++
		}

		for _, rfqID := range quotes.RFQIDs() {
			for _, quote := range quotes.List(rfqID) {
				if err := repo.SaveQuote(ctx, &quote); err != nil {
					logger.Warn("failed to archive quote",
						zap.String("rfq_id", rfqID),
						zap.Error(err),
					)
					failed++
				}
			}
		}

		if failed > 0 {
			logger.Warn("archive snapshot run completed with failures",
				zap.Int("archived", archived),
				zap.Int("failed", failed),
			)
			return
		}
		logger.Debug("archive snapshot run completed",
			zap.Int("archived", archived),
		)
	}

	return scheduler.AddJob("archive-snapshot", cfg.SnapshotCron, job)
}
