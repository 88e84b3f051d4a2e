package compatibility

import (
	"context"
	"log"
	"time"
)

// Scheduler drives the in-process nightly jobs. Deployments that prefer an
// external scheduler can leave this stopped and hit the cron endpoints
// instead; both paths run the same service methods, which are idempotent.
type Scheduler struct {
	service       Service
	recomputeHour int
	tasteHour     int
}

func NewScheduler(service Service, recomputeHour, tasteHour int) *Scheduler {
	return &Scheduler{
		service:       service,
		recomputeHour: recomputeHour,
		tasteHour:     tasteHour,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Taste vectors refresh before the recompute so the night's scores
	// already use the updated vectors
	go s.runDaily(ctx, s.tasteHour, 0, func(ctx context.Context) error {
		refreshed, err := s.service.RefreshTasteVectors(ctx)
		if err != nil {
			return err
		}
		log.Printf("taste refresh: rebuilt %d vectors", refreshed)
		return nil
	})

	go s.runDaily(ctx, s.recomputeHour, 0, func(ctx context.Context) error {
		_, err := s.service.RunNightlyRecompute(ctx)
		return err
	})
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, task func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("Scheduled task failed: %v", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
