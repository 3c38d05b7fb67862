// cmd/server/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/vinibarbieri/codenames/internal/bot"
	"github.com/vinibarbieri/codenames/internal/config"
	"github.com/vinibarbieri/codenames/internal/game"
	"github.com/vinibarbieri/codenames/internal/history"
	"github.com/vinibarbieri/codenames/internal/match"
	"github.com/vinibarbieri/codenames/internal/notify"
	"github.com/vinibarbieri/codenames/internal/queue"
	"github.com/vinibarbieri/codenames/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	pool := words.Default()
	if cfg.WordFile != "" {
		pool, err = words.FromFile(cfg.WordFile)
		if err != nil {
			log.Fatalf("word file: %v", err)
		}
		logger.Infof("loaded %d words from %s", pool.Size(), cfg.WordFile)
	}

	var recorder history.Recorder = history.Nop{}
	if cfg.RedisAddr != "" {
		rr, err := history.NewRedisRecorder(cfg.RedisAddr, cfg.RedisDB, cfg.HistoryQueue)
		if err != nil {
			logger.Warnf("history journal disabled: %v", err)
		} else {
			recorder = rr
			defer rr.Close()
			logger.Infof("history journal on %s/%s", cfg.RedisAddr, cfg.HistoryQueue)
		}
	}

	fan := notify.NewFanout(logger)
	policy := bot.NewHeuristicPolicy(pool.Words(), nil)
	store := game.NewMemorySessionStore()
	svc := match.New(store, fan, policy, recorder, logger, match.Options{
		TurnTimeout: cfg.TurnTimeout,
		Words:       pool,
	})

	q := queue.New(cfg.QueueCapacity, fan, logger)
	runner := queue.NewRunner(q, func(a, b uuid.UUID) error {
		_, err := svc.PairSession(a, b)
		return err
	}, logger, queue.RunnerOptions{
		MatchInterval:    cfg.MatchInterval,
		EvictInterval:    cfg.EvictInterval,
		HeartbeatTimeout: cfg.HeartbeatTimeout,
	})
	runner.Start()
	defer runner.Stop()

	sw := newSweeper(svc, cfg.FinishedTTL, cfg.SweepInterval)
	sw.start()
	defer sw.stopAndWait()

	// Wiretap subscriber so every event shows up in debug logs even with no
	// transport attached.
	events, cancel := fan.Subscribe(uuid.Nil, 256)
	defer cancel()
	go func() {
		for env := range events {
			logger.WithFields(logrus.Fields{
				"session": env.SessionID,
			}).Debugf("event: %+v", env.Payload)
		}
	}()

	logger.Infof("engine ready: queue capacity %d, turn timeout %s", cfg.QueueCapacity, cfg.TurnTimeout)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
}
