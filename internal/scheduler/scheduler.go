// Package scheduler periodically recomputes per-work-type success rates.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSpec is used when no schedule is configured
const DefaultSpec = "@every 1h"

// Scheduler wraps robfig/cron and runs the recompute loop
type Scheduler struct {
	cron *cron.Cron
	spec string
	run  func(ctx context.Context) error
	log  logrus.FieldLogger

	first sync.WaitGroup // the run fired by Start
}

// New creates a Scheduler that calls run on spec
func New(spec string, run func(ctx context.Context) error, log logrus.FieldLogger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		run:  run,
		log:  log.WithField("component", "scheduler"),
	}
}

// Start registers the job and starts the scheduler. One run also starts
// immediately so stored rates are fresh without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}

	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("scheduler started")

	s.first.Add(1)
	go func() {
		defer s.first.Done()
		s.tick(ctx)
	}()

	return nil
}

// Stop stops the scheduler and waits for running jobs, including the
// initial run, to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.first.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.run(ctx); err != nil {
		s.log.WithError(err).Error("scheduled recompute failed")
		return
	}
	s.log.Debug("scheduled recompute complete")
}
