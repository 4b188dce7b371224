package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

const (
	quoteRefreshLockPrefix = "quotes_refresh:"
	// Longer than any single period, shorter than the gap before a period
	// label repeats.
	quoteRefreshLockTTL = 92 * 24 * time.Hour
	quoteRefreshTimeout = 2 * time.Minute
)

// PeriodLock claims a period so that only one instance regenerates quotes for it.
type PeriodLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisLock implements PeriodLock with SET NX.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

// QuoteScheduler regenerates the quote pool once per academic period.
type QuoteScheduler struct {
	quotes   *QuoteService
	lock     PeriodLock
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewQuoteScheduler(quotes *QuoteService, lock PeriodLock, interval time.Duration, logger *zap.Logger) *QuoteScheduler {
	return &QuoteScheduler{
		quotes:   quotes,
		lock:     lock,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (s *QuoteScheduler) Start() {
	if s.quotes == nil || s.lock == nil || s.interval <= 0 {
		return
	}

	go s.loop()
	s.logger.Info("Quote scheduler started", zap.Duration("interval", s.interval))
}

func (s *QuoteScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *QuoteScheduler) loop() {
	// Run on startup as well as by interval.
	s.refresh(context.Background())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.refresh(context.Background())
		}
	}
}

// refresh generates quotes for the current period unless another run (here
// or on another instance) already claimed it. It reports whether a batch
// was generated.
func (s *QuoteScheduler) refresh(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, quoteRefreshTimeout)
	defer cancel()

	periodContext, theme := s.quotes.CurrentPeriod()
	key := periodLockKey(periodContext, theme)

	acquired, err := s.lock.Acquire(ctx, key, quoteRefreshLockTTL)
	if err != nil {
		s.logger.Warn("quote refresh: failed to acquire lock", zap.String("key", key), zap.Error(err))
		return false
	}
	if !acquired {
		return false
	}

	result, err := s.quotes.Generate(ctx, models.GenerateQuotesRequest{
		Context:         periodContext,
		Theme:           theme,
		ReplaceExisting: true,
	})
	if err != nil {
		s.logger.Error("quote refresh: generation failed", zap.String("theme", theme), zap.Error(err))
		// Let the next tick try again.
		if relErr := s.lock.Release(context.Background(), key); relErr != nil {
			s.logger.Warn("quote refresh: failed to release lock", zap.String("key", key), zap.Error(relErr))
		}
		return false
	}

	s.logger.Info("quote refresh: done",
		zap.String("context", result.Context),
		zap.String("theme", result.Theme),
		zap.Int("inserted", result.InsertedCount),
	)
	return true
}

func periodLockKey(periodContext, theme string) string {
	sum := sha1.Sum([]byte(periodContext))
	return fmt.Sprintf("%s%s:%s", quoteRefreshLockPrefix, theme, hex.EncodeToString(sum[:8]))
}
