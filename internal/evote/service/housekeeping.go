package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/evote/internal/evote/store"
)

// HousekeepingService periodically deletes expired one-time codes so the
// otp_codes table does not grow without bound. Expiry itself is enforced on
// verification.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the cleanup loop in the background. Call Stop to end it.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop ends the loop and waits for an in-progress cleanup to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes expired codes once and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	n, err := s.Store.OTPCodes().DeleteExpiredCodes(ctx, nowOr(s.Now))
	if err != nil {
		s.Logger.Error("failed to delete expired otp codes", "error", err)
		return 0
	}
	s.Logger.Info("housekeeping cleanup completed", "expired_codes", n)
	return n
}
