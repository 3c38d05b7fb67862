package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionCreator opens a session for two paired players. The queue entries
// are already gone by the time this runs; a failure here is logged and the
// players re-enter the queue on their next join.
type SessionCreator func(a, b uuid.UUID) error

// RunnerOptions tune the background loops.
type RunnerOptions struct {
	// MatchInterval is how often pairing is attempted.
	MatchInterval time.Duration
	// EvictInterval is how often liveness is checked.
	EvictInterval time.Duration
	// HeartbeatTimeout is how long a player may stay silent before eviction.
	HeartbeatTimeout time.Duration
}

// Runner drives the queue's background work: pairing waiting players into
// sessions and evicting the silent ones.
type Runner struct {
	queue  *Queue
	create SessionCreator
	logger *logrus.Logger
	opts   RunnerOptions
	stop   chan struct{}
	done   chan struct{}
}

// NewRunner builds a runner. Zero intervals get sane defaults.
func NewRunner(q *Queue, create SessionCreator, logger *logrus.Logger, opts RunnerOptions) *Runner {
	if opts.MatchInterval <= 0 {
		opts.MatchInterval = 2 * time.Second
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = 15 * time.Second
	}
	if opts.HeartbeatTimeout <= 0 {
		opts.HeartbeatTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{
		queue:  q,
		create: create,
		logger: logger,
		opts:   opts,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the background loops. Call Stop to shut them down.
func (r *Runner) Start() {
	go r.run()
}

// Stop shuts the loops down and waits for them to exit.
func (r *Runner) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Runner) run() {
	defer close(r.done)
	match := time.NewTicker(r.opts.MatchInterval)
	defer match.Stop()
	evict := time.NewTicker(r.opts.EvictInterval)
	defer evict.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-match.C:
			r.PairAll()
		case <-evict.C:
			r.queue.EvictInactive(r.opts.HeartbeatTimeout)
		}
	}
}

// PairAll drains the queue in pairs until fewer than two players wait. Each
// pairing is atomic with the removals inside FindMatch.
func (r *Runner) PairAll() int {
	paired := 0
	for {
		a, b, ok := r.queue.FindMatch()
		if !ok {
			return paired
		}
		if err := r.create(a, b); err != nil {
			r.logger.Errorf("queue: session for pair %s/%s failed: %v", a, b, err)
			continue
		}
		paired++
	}
}
