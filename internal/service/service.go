package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/malambomutila/ai-weather-app/internal/client"
	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/observability"
	"github.com/malambomutila/ai-weather-app/internal/traffic"
	"github.com/malambomutila/ai-weather-app/internal/units"
	"github.com/malambomutila/ai-weather-app/internal/validation"
)

// WeatherService runs one query through the pipeline: validate the city,
// fetch a reading, convert temperatures, resolve the icon.
type WeatherService struct {
	client      client.WeatherClient
	iconBaseURL string
	minLen      int
	maxLen      int
	logger      *zap.Logger
	now         func() time.Time
}

// NewWeatherService creates a WeatherService. minLen and maxLen bound the city in runes.
// A nil logger discards output; a request-scoped logger in ctx takes precedence.
func NewWeatherService(c client.WeatherClient, iconBaseURL string, minLen, maxLen int, logger *zap.Logger) *WeatherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherService{
		client:      c,
		iconBaseURL: iconBaseURL,
		minLen:      minLen,
		maxLen:      maxLen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *WeatherService) loggerFor(ctx context.Context) *zap.Logger {
	if l := observability.LoggerFromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// GetReport fetches current weather for city and returns it ready for presentation.
// Invalid input fails with a validation error before any network call.
// Every other failure wraps one of the client sentinels.
func (s *WeatherService) GetReport(ctx context.Context, city string) (models.Report, error) {
	logger := s.loggerFor(ctx)
	start := s.now()

	query, err := validation.ValidateCity(city, s.minLen, s.maxLen)
	if err != nil {
		observability.RecordQueryError(string(client.ErrorCategoryValidation))
		return models.Report{}, fmt.Errorf("validate city: %w", err)
	}
	observability.RecordWeatherQuery(query)

	reading, err := s.client.Fetch(ctx, query)
	if err != nil {
		category := client.CategorizeError(err)
		observability.RecordQueryError(string(category))
		traffic.RecordError()
		logger.Info("weather query failed",
			zap.String("city", query),
			zap.String("category", string(category)),
			zap.Error(err))
		return models.Report{}, fmt.Errorf("fetch weather for %s: %w", query, err)
	}
	traffic.RecordSuccess()

	reading.City = validation.DisplayName(query)
	report := BuildReport(reading, s.iconBaseURL, s.now())
	logger.Debug("weather served",
		zap.String("city", reading.City),
		zap.Duration("duration", s.now().Sub(start)))
	return report, nil
}

// BuildReport derives the presentation values from a reading.
func BuildReport(r models.Reading, iconBaseURL string, at time.Time) models.Report {
	return models.Report{
		Reading:   r,
		Temp:      units.FromKelvin(r.TempK),
		FeelsLike: units.FromKelvin(r.FeelsLikeK),
		IconURL:   client.IconURLWithBase(iconBaseURL, r.IconID),
		Timestamp: at.UTC(),
	}
}
