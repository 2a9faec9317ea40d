package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/avgerin0s/cryptofolio/internal/modules/market"
)

// refreshTimeout bounds one refresh cycle; the feed is slow at times
// but a cycle must never outlive its schedule slot.
const refreshTimeout = 45 * time.Second

// SnapshotRefreshJob keeps the market snapshot cache warm.
type SnapshotRefreshJob struct {
	market *market.Service
	log    zerolog.Logger
}

// NewSnapshotRefreshJob creates the snapshot refresh job
func NewSnapshotRefreshJob(market *market.Service, log zerolog.Logger) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{
		market: market,
		log:    log.With().Str("job", "snapshot_refresh").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotRefreshJob) Name() string {
	return "snapshot_refresh"
}

// Run fetches a fresh snapshot batch. A failed cycle leaves the
// previous cache in place; read paths keep serving stale data.
func (j *SnapshotRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	return j.market.Refresh(ctx)
}
