package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one watch pass. Returned errors are logged and the schedule continues.
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron schedule until stopped
type Scheduler struct {
	expr   string
	job    Job
	log    zerolog.Logger
	c      *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	runs int
}

// NewScheduler parses the cron expression and prepares the scheduler. Standard five-field
// expressions, an optional leading seconds field and descriptors such as
// "@every 1h" are accepted.
func NewScheduler(expr string, job Job, log zerolog.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		expr:   expr,
		job:    job,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	cl := cronLogger{log: log}
	s.c = cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	s.c.Schedule(schedule, cron.FuncJob(s.tick))

	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.c.Start()
	s.log.Info().Str("schedule", s.expr).Msg("Scheduler started")
}

// Stop cancels the running job, if any, and waits for it to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.c.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// Runs reports how many times the job has been started
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) tick() {
	if s.ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if err := s.job(s.ctx); err != nil {
		s.log.Error().Msg(err.Error())
	}
}

// cronLogger routes cron's own messages through zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
