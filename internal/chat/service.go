package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/weather-chat/internal/weather"
)

// CityLookup is the slice of weather.Provider the orchestrator needs.
type CityLookup interface {
	CurrentByCity(ctx context.Context, city string) (weather.Report, error)
}

// Option configures a Service.
type Option func(*Service)

// WithMissingCredentials marks credentials that were absent at startup.
// Every request then fails with ErrConfigurationMissing before any
// upstream call.
func WithMissingCredentials(names ...string) Option {
	return func(s *Service) {
		s.missing = append(s.missing, names...)
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service orchestrates one chat turn: classify, then optionally look up
// the weather. It keeps no state between calls.
type Service struct {
	classifier *Classifier
	lookup     CityLookup
	missing    []string
	logger     *zap.Logger
}

// NewService creates a new Service.
func NewService(classifier *Classifier, lookup CityLookup, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		lookup:     lookup,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateTranscript rejects an empty transcript or one whose last
// message is not from the user.
func ValidateTranscript(transcript []Message) error {
	if len(transcript) == 0 {
		return fmt.Errorf("%w: transcript is empty", ErrInvalidRequest)
	}
	if last := transcript[len(transcript)-1]; last.Role != RoleUser {
		return fmt.Errorf("%w: last message has role %q, want %q", ErrInvalidRequest, last.Role, RoleUser)
	}
	return nil
}

// Reply answers the latest user message of transcript. A city the
// provider does not know is a normal reply, not an error.
func (s *Service) Reply(ctx context.Context, transcript []Message) (Reply, error) {
	if err := ValidateTranscript(transcript); err != nil {
		return Reply{}, err
	}
	if len(s.missing) > 0 {
		return Reply{}, fmt.Errorf("%w: %s not configured", ErrConfigurationMissing, strings.Join(s.missing, ", "))
	}

	outcome, err := s.classifier.Classify(ctx, transcript)
	if err != nil {
		return Reply{}, err
	}
	s.logger.Info("classifier outcome",
		zap.Stringer("kind", outcome.Kind),
		zap.String("text", outcome.Text))

	if outcome.Kind == OutcomeReply {
		return Reply{Message: outcome.Text}, nil
	}

	city := outcome.Text
	report, err := s.lookup.CurrentByCity(ctx, city)
	if err != nil {
		if errors.Is(err, weather.ErrCityNotFound) {
			s.logger.Info("city not found", zap.String("city", city))
			return Reply{Message: NotFoundMessage(city)}, nil
		}
		return Reply{}, fmt.Errorf("%w: %w", ErrLookupUnavailable, err)
	}

	return Reply{
		Message: FormatReport(report),
		Weather: &report,
	}, nil
}

// NotFoundMessage is the apology for a city the provider does not know.
func NotFoundMessage(city string) string {
	return fmt.Sprintf("I couldn't find weather data for \"%s\". Could you try a different city name?", city)
}

// FormatReport renders the multi-line text reply for r.
func FormatReport(r weather.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current weather in %s, %s:\n", r.City, r.Country)
	fmt.Fprintf(&b, "🌡️ Temperature: %d°C (feels like %d°C)\n", r.TemperatureC, r.FeelsLikeC)
	fmt.Fprintf(&b, "☁️ Condition: %s\n", r.Description)
	fmt.Fprintf(&b, "💧 Humidity: %d%%\n", r.HumidityPct)
	fmt.Fprintf(&b, "💨 Wind Speed: %s m/s", strconv.FormatFloat(r.WindSpeedMps, 'f', -1, 64))
	return b.String()
}
