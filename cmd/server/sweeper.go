package main

import (
	"time"

	"github.com/vinibarbieri/codenames/internal/match"
)

// sweeper periodically drops sessions that have been finished longer than
// the configured TTL.
type sweeper struct {
	svc      *match.Service
	ttl      time.Duration
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func newSweeper(svc *match.Service, ttl, interval time.Duration) *sweeper {
	return &sweeper{
		svc:      svc,
		ttl:      ttl,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *sweeper) start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.svc.SweepFinished(s.ttl)
			}
		}
	}()
}

func (s *sweeper) stopAndWait() {
	close(s.stop)
	<-s.done
}
