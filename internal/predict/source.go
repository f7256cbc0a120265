// Package predict turns input text into ranked next-word candidates by
// asking a language model and validating its JSON reply.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/medinalabs/neuropredictor/internal/llm"
	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/models"
)

// MaxCandidates is the most candidates a prediction returns.
const MaxCandidates = 5

// ErrPredictionUnavailable wraps every prediction failure: transport errors,
// malformed replies and invalid candidates alike.
var ErrPredictionUnavailable = errors.New("prediction unavailable")

// Source produces candidates for input text, sorted by descending
// confidence. Implementations must be safe to call from any goroutine.
type Source interface {
	Predict(ctx context.Context, text string) ([]models.Candidate, error)
}

// Generator is the model call a LLMSource needs. *llm.Model satisfies it.
type Generator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMSource is a Source backed by a language model.
type LLMSource struct {
	gen     Generator
	timeout time.Duration
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures an LLMSource.
type Option func(*LLMSource)

// WithTimeout bounds each model call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *LLMSource) { s.timeout = d }
}

// WithMetrics records prediction timings into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *LLMSource) { s.metrics = c }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *LLMSource) { s.logger = l }
}

// NewLLMSource creates a Source that prompts gen.
func NewLLMSource(gen Generator, opts ...Option) *LLMSource {
	s := &LLMSource{gen: gen, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Predict asks the model for the most likely next words after text.
func (s *LLMSource) Predict(ctx context.Context, text string) ([]models.Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrPredictionUnavailable)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.gen.GenerateJSON(ctx, systemPrompt, UserPrompt(text))
	if err != nil {
		s.fail(start, "model call failed", err)
		return nil, fmt.Errorf("%w: %w", ErrPredictionUnavailable, err)
	}

	candidates, err := ParseCandidates(raw)
	if err != nil {
		s.fail(start, "malformed prediction payload", err)
		return nil, err
	}

	duration := time.Since(start)
	s.metrics.RecordTiming(metrics.OpPredict, duration)
	s.logger.Info("prediction complete",
		"text_len", len(text),
		"candidates", len(candidates),
		"duration_ms", duration.Milliseconds(),
	)
	return candidates, nil
}

// fail records a failed prediction. Fatal provider errors (bad key, no
// credit) log at ERROR since retrying will not help.
func (s *LLMSource) fail(start time.Time, msg string, err error) {
	duration := time.Since(start)
	s.metrics.RecordTiming(metrics.OpPredictFailed, duration)

	level := slog.LevelWarn
	if llm.IsFatal(err) {
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, msg, "duration_ms", duration.Milliseconds(), "error", err)
}
