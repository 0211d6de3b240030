package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PollScheduler paces the poll loop. It accepts anything cron.ParseStandard
// does, including "@every 600s" descriptors.
type PollScheduler struct {
	spec     string
	schedule cron.Schedule
	logger   *logrus.Entry
	now      func() time.Time
}

func NewPollScheduler(spec string, logger *logrus.Entry) (*PollScheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid poll schedule %q: %w", spec, err)
	}
	return &PollScheduler{
		spec:     spec,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Next returns the next activation strictly after from.
func (s *PollScheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Wait blocks until the next activation or until ctx is done, in which case
// it returns ctx.Err().
func (s *PollScheduler) Wait(ctx context.Context) error {
	now := s.now()
	next := s.schedule.Next(now)
	s.logger.WithFields(logrus.Fields{
		"schedule": s.spec,
		"next_at":  next.Format(time.RFC3339),
	}).Debug("Waiting for next poll")

	timer := time.NewTimer(next.Sub(now))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
