package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
)

type PresenceRepository interface {
	FindStale(ctx context.Context, olderThan time.Time) ([]domain.Participant, error)
	Expire(ctx context.Context, participant domain.Participant, announcement domain.Message) error
}

// PresenceReaper periodically removes participants whose last heartbeat is
// older than the expiry window, announcing each departure with a broadcast
// status message.
type PresenceReaper struct {
	repo          PresenceRepository
	sweepInterval time.Duration
	expiryWindow  time.Duration
}

func NewPresenceReaper(repo PresenceRepository, sweepInterval, expiryWindow time.Duration) *PresenceReaper {
	return &PresenceReaper{
		repo:          repo,
		sweepInterval: sweepInterval,
		expiryWindow:  expiryWindow,
	}
}

// Run sweeps on a fixed ticker until ctx is cancelled. Sweeps execute
// inline, so a slow sweep delays the next tick instead of overlapping it.
func (r *PresenceReaper) Run(ctx context.Context) error {
	zap.L().Info("starting presence reaper",
		zap.Duration("sweep_interval", r.sweepInterval),
		zap.Duration("expiry_window", r.expiryWindow))

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("presence reaper stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep expires every stale participant it can. A failure on one
// participant is logged and the rest of the sweep continues.
func (r *PresenceReaper) Sweep(ctx context.Context) {
	now := time.Now()

	stale, err := r.repo.FindStale(ctx, now.Add(-r.expiryWindow))
	if err != nil {
		zap.L().Error("presence sweep failed to scan participants", zap.Error(err))
		return
	}

	for _, participant := range stale {
		announcement := domain.LeaveAnnouncement(participant.Name, now)
		if err = r.repo.Expire(ctx, participant, announcement); err != nil {
			zap.L().Error("failed to expire participant",
				zap.String("name", participant.Name),
				zap.Error(err))
			continue
		}

		zap.L().Info("expired stale participant",
			zap.String("name", participant.Name),
			zap.Time("last_seen", participant.LastSeen))
	}
}
