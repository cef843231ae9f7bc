// Package scheduler runs the bot's periodic jobs on robfig/cron.
//
// All jobs execute on one worker goroutine pulled from a queue, so two jobs
// never run concurrently: the announcement pipeline's single-writer property
// is structural, not an implicit event-loop assumption. A tick that fires
// while the same job is still pending is dropped, not queued up.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"ecebot/pkg/logx"
)

type job struct {
	name    string
	every   time.Duration
	run     func(ctx context.Context)
	pending atomic.Bool
}

type Service struct {
	log logx.Logger

	mu      sync.Mutex
	jobs    []*job
	started bool

	c      *cron.Cron
	queue  chan *job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(log logx.Logger) *Service {
	return &Service{
		log:   log,
		queue: make(chan *job, 16),
	}
}

// AddEvery registers a named job with a fixed interval. Must be called
// before Start.
func (s *Service) AddEvery(name string, every time.Duration, run func(ctx context.Context)) error {
	if every <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("job %s: scheduler already started", name)
	}
	s.jobs = append(s.jobs, &job{name: name, every: every, run: run})
	return nil
}

// Start begins ticking. The first tick of each job fires after its interval;
// use Kick for an immediate run.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.c = cron.New()
	for _, j := range s.jobs {
		j := j
		spec := "@every " + j.every.String()
		if _, err := s.c.AddFunc(spec, func() { s.enqueue(j) }); err != nil {
			cancel()
			return fmt.Errorf("schedule %s: %w", j.name, err)
		}
		s.log.Info("job scheduled", logx.String("job", j.name), logx.Duration("every", j.every))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(runCtx)
	}()

	s.c.Start()
	return nil
}

// Kick enqueues a named job for immediate execution.
func (s *Service) Kick(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name == name {
			s.enqueue(j)
			return
		}
	}
	s.log.Warn("kick for unknown job", logx.String("job", name))
}

func (s *Service) enqueue(j *job) {
	if !j.pending.CompareAndSwap(false, true) {
		s.log.Warn("previous run still pending; tick dropped", logx.String("job", j.name))
		return
	}
	select {
	case s.queue <- j:
	default:
		j.pending.Store(false)
		s.log.Warn("scheduler queue full; tick dropped", logx.String("job", j.name))
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			s.runOne(ctx, j)
		}
	}
}

func (s *Service) runOne(ctx context.Context, j *job) {
	defer j.pending.Store(false)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in job",
				logx.String("job", j.name),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())),
			)
		}
	}()

	start := time.Now()
	j.run(ctx)
	s.log.Debug("job finished", logx.String("job", j.name), logx.Duration("took", time.Since(start)))
}

// Stop halts ticking and waits for an in-flight job, bounded by ctx.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.c
	cancel := s.cancel
	s.c = nil
	s.cancel = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
