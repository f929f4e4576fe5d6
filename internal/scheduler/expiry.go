package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = time.Minute

// Expirer moves lapsed cards to EXPIRED.
type Expirer interface {
	ExpireLapsed(ctx context.Context) (int, error)
}

// ExpirySweeper runs the expiration sweep on a cron schedule. A run that is
// still going when the next one is due makes the next one skip.
type ExpirySweeper struct {
	cron    *cron.Cron
	expirer Expirer
	log     *logrus.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewExpirySweeper parses schedule (standard 5-field cron or a descriptor like "@hourly").
func NewExpirySweeper(schedule string, expirer Expirer, log *logrus.Logger) (*ExpirySweeper, error) {
	cronLog := cron.PrintfLogger(log)
	ctx, cancel := context.WithCancel(context.Background())
	s := &ExpirySweeper{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		expirer: expirer,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid expiry sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run performs one sweep.
func (s *ExpirySweeper) Run() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.expirer.ExpireLapsed(ctx)
	entry := s.log.WithFields(logrus.Fields{"expired": n, "duration": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Error("Expiry sweep finished with errors")
		return
	}
	entry.Debug("Expiry sweep finished")
}

func (s *ExpirySweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduling, cancels a running sweep and waits for it or for ctx.
func (s *ExpirySweeper) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
