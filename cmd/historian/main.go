// cmd/historian/main.go is the journal drain: it pops action records from the
// Redis queue the engine feeds and appends them to a line-delimited JSON
// archive for replay and audit.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vinibarbieri/codenames/internal/config"
	"github.com/vinibarbieri/codenames/internal/history"
)

type archiver struct {
	client *redis.Client
	queue  string
	out    *os.File
	enc    *json.Encoder
	logger *logrus.Logger

	batch      []history.Record
	batchLimit int
	flushEvery time.Duration
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if cfg.RedisAddr == "" {
		log.Fatal("historian needs REDIS_ADDR")
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("connect to redis at %s: %v", cfg.RedisAddr, err)
	}

	out, err := os.OpenFile(cfg.ArchiveFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open archive: %v", err)
	}
	defer out.Close()

	a := &archiver{
		client:     client,
		queue:      cfg.HistoryQueue,
		out:        out,
		enc:        json.NewEncoder(out),
		logger:     logger,
		batch:      make([]history.Record, 0, cfg.ArchiveBatch),
		batchLimit: cfg.ArchiveBatch,
		flushEvery: cfg.ArchiveFlush,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("historian draining %q on %s into %s", cfg.HistoryQueue, cfg.RedisAddr, cfg.ArchiveFile)
	a.run(ctx)
	logger.Info("historian stopped")
}

// run drains the queue until the context ends. Records are batched and the
// batch is flushed on size or on the ticker, whichever comes first.
func (a *archiver) run(ctx context.Context) {
	ticker := time.NewTicker(a.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.flush()
			return
		case <-ticker.C:
			a.flush()
		default:
			// Short BLPop timeout so shutdown and timed flushes stay
			// responsive.
			res, err := a.client.BLPop(ctx, 3*time.Second, a.queue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
					a.logger.Errorf("historian: blpop: %v", err)
				}
				continue
			}
			if len(res) < 2 {
				continue
			}
			a.ingest(res[1])
		}
	}
}

// ingest decodes one queue payload into the batch, flushing when the batch
// hits its limit. Undecodable payloads are dropped with a warning.
func (a *archiver) ingest(payload string) {
	var rec history.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		a.logger.Warnf("historian: invalid record dropped: %v", err)
		return
	}
	a.batch = append(a.batch, rec)
	if len(a.batch) >= a.batchLimit {
		a.flush()
	}
}

func (a *archiver) flush() {
	if len(a.batch) == 0 {
		return
	}
	written := 0
	for _, rec := range a.batch {
		if err := a.enc.Encode(rec); err != nil {
			a.logger.Errorf("historian: archive write: %v", err)
			break
		}
		written++
	}
	if err := a.out.Sync(); err != nil {
		a.logger.Warnf("historian: archive sync: %v", err)
	}
	a.logger.Debugf("historian: archived %d records", written)
	a.batch = a.batch[:0]
}
