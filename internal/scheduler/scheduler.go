package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/gorm"
)

// Scheduler periodically deletes revoked refresh tokens that have expired,
// since an expired token is rejected without consulting the revocation list.
type Scheduler struct {
	conn     *gorm.DB
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(conn *gorm.DB, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		conn:     conn,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an immediate prune and then one per interval.
func (s *Scheduler) Start() {
	log.Printf("Starting scheduler, pruning revoked tokens every %s", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.prune()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.prune()
			}
		}
	}()
}

// Stop cancels the prune loop and waits for it to exit.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cancel()
	s.wg.Wait()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) prune() {
	removed, err := PruneRevokedTokens(s.ctx, s.conn, time.Now())

	if err != nil {
		if s.ctx.Err() == nil {
			log.Printf("Failed to prune revoked tokens: %v", err)
		}
		return
	}

	if removed > 0 {
		log.Printf("Pruned %d expired revoked tokens", removed)
	}
}

// PruneRevokedTokens deletes revocation records that expired before now.
func PruneRevokedTokens(ctx context.Context, conn *gorm.DB, now time.Time) (int64, error) {
	result := conn.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
