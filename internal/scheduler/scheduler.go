package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-chat/internal/weather"
)

// ProbeResult is the outcome of the last provider probe.
type ProbeResult struct {
	Provider  string    `json:"provider"`
	City      string    `json:"city"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	LatencyMS int64     `json:"latencyMs"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Scheduler periodically probes the weather provider so /health can report
// upstream reachability. It never stores weather data.
type Scheduler struct {
	scheduler *gocron.Scheduler
	provider  weather.Provider
	city      string
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.RWMutex
	last *ProbeResult
}

// New creates a new Scheduler.
func New(provider weather.Provider, city string, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		provider:  provider,
		city:      city,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the probe job and starts the underlying scheduler. A zero
// interval or empty city leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.interval <= 0 || s.city == "" {
		s.logger.Info("scheduler: provider probe disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce performs a single probe and records the result. An unknown city
// still proves the provider is reachable.
func (s *Scheduler) RunOnce(ctx context.Context) ProbeResult {
	start := s.now()
	_, err := s.provider.CurrentByCity(ctx, s.city)

	res := ProbeResult{
		Provider:  s.provider.Name(),
		City:      s.city,
		OK:        err == nil || errors.Is(err, weather.ErrCityNotFound),
		LatencyMS: s.now().Sub(start).Milliseconds(),
		CheckedAt: start.UTC(),
	}
	if !res.OK {
		res.Error = err.Error()
		s.logger.Warn("scheduler: provider probe failed",
			zap.String("provider", res.Provider),
			zap.String("city", s.city),
			zap.Error(err))
	} else {
		s.logger.Debug("scheduler: provider probe ok",
			zap.String("provider", res.Provider),
			zap.Int64("latency_ms", res.LatencyMS))
	}

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()
	return res
}

// Last returns the most recent probe result, if any.
func (s *Scheduler) Last() (ProbeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return ProbeResult{}, false
	}
	return *s.last, true
}
