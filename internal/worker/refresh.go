package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/pollen"
	"github.com/pollentracker/pollentracker/internal/weather"
)

// RefreshJob refetches pollen forecasts for the configured points so the
// history store keeps filling even when no dashboard is open.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	pollenService  *pollen.Service
	weatherService *weather.Service

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	PollenRefresh     int64
	WeatherRefresh    int64

	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config         RefreshConfig
	Logger         zerolog.Logger
	PollenService  *pollen.Service
	WeatherService *weather.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:         cfg.Config.withDefaults(),
		logger:         cfg.Logger,
		pollenService:  cfg.PollenService,
		weatherService: cfg.WeatherService,
		metrics:        &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh run.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPoints int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Provider string
	Point    Point
	Error    string
}

// Run executes the refresh job for all configured points.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:   startTime,
		TotalPoints: len(j.config.Points),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting forecast refresh job")

	pointsChan := make(chan Point, len(j.config.Points))
	resultsChan := make(chan pointResult, len(j.config.Points))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, pointsChan, resultsChan)
		}()
	}

	for _, p := range j.config.Points {
		pointsChan <- p
	}
	close(pointsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, pr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("forecast refresh job completed")

	return result
}

type pointResult struct {
	point   Point
	success bool
	errors  []RefreshError
}

func (j *RefreshJob) refreshWorker(ctx context.Context, points <-chan Point, results chan<- pointResult) {
	for point := range points {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshPoint(ctx, point)
		}
	}
}

func (j *RefreshJob) refreshPoint(ctx context.Context, point Point) pointResult {
	result := pointResult{
		point:   point,
		success: true,
	}

	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if j.pollenService != nil {
		_, err := j.pollenService.Fetch(pointCtx, point.Lat, point.Lon, j.config.Language, j.config.ForecastDays)
		if err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "pollen",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.PollenRefresh, 1)
		}
	}

	if j.config.RefreshWeather && j.weatherService != nil {
		_, err := j.weatherService.GetCurrent(pointCtx, point.Lat, point.Lon, j.config.Language)
		if err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "weather",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.WeatherRefresh, 1)
		}
	}

	return result
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
}

// MetricsSnapshot is a point-in-time copy of the job metrics.
type MetricsSnapshot struct {
	TotalRefreshes      int64
	SuccessfulRefresh   int64
	FailedRefreshes     int64
	PollenRefresh       int64
	WeatherRefresh      int64
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
}

// Metrics returns a snapshot of the job metrics.
func (j *RefreshJob) Metrics() MetricsSnapshot {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return MetricsSnapshot{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		PollenRefresh:       atomic.LoadInt64(&j.metrics.PollenRefresh),
		WeatherRefresh:      atomic.LoadInt64(&j.metrics.WeatherRefresh),
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
	}
}
