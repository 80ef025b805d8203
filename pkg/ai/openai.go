package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	scoringDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradescan",
		Subsystem: "scoring",
		Name:      "request_duration_seconds",
		Help:      "Duration of answer scoring requests",
	}, []string{"model"})

	scoringFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradescan",
		Subsystem: "scoring",
		Name:      "request_failures_total",
		Help:      "Number of answer scoring request failures",
	}, []string{"model"})
)

// ErrScoreParse indicates the model response did not contain a
// parseable number. Callers treat the pair's score as 0.0 and
// continue with the remaining pairs.
var ErrScoreParse = errors.New("score response is not a number")

// OpenAIConfig defines configuration options for the OpenAI scorer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIScorer implements Scorer against the OpenAI chat completion API.
type OpenAIScorer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIScorer builds a new scorer using the provided configuration.
func NewOpenAIScorer(cfg OpenAIConfig) (*OpenAIScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 16
	}

	tracer := otel.Tracer("github.com/gradescan/gradescan-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIScorer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "scorer").Logger(),
	}, nil
}

// Score grades one candidate answer against the ideal answer. The
// returned score is clamped to [0, input.PointValue]; a response that
// cannot be parsed yields (0, ErrScoreParse).
func (s *OpenAIScorer) Score(parent context.Context, input ScoreInput) (float64, error) {
	ctx, span := s.tracer.Start(parent, "scoring.score", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
		attribute.Float64("point_value", input.PointValue),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildScoringPrompt(input),
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	scoringDuration.WithLabelValues(s.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		scoringFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("openai score: %w", err)
	}

	if len(resp.Choices) == 0 {
		scoringFailures.WithLabelValues(s.cfg.Model).Inc()
		err := fmt.Errorf("no choices returned from openai")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	score, err := parseScore(content)
	if err != nil {
		scoringFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_parse_failed")
		return 0, err
	}

	score = clampScore(score, input.PointValue)
	span.SetAttributes(attribute.Float64("score", score))

	return score, nil
}

func buildScoringPrompt(input ScoreInput) string {
	builder := strings.Builder{}
	builder.WriteString("You are grading a short answer question. The ideal answer is:\n")
	builder.WriteString(fmt.Sprintf("%q\n\n", input.IdealAnswer))
	builder.WriteString("The student's answer is:\n")
	builder.WriteString(fmt.Sprintf("%q\n\n", input.CandidateAnswer))
	builder.WriteString(fmt.Sprintf("Respond with a single number between 0 and %g representing the score. ", input.PointValue))
	builder.WriteString("Do not provide explanations, only the number.")
	return builder.String()
}

// parseScore extracts the first parseable number from the response.
func parseScore(content string) (float64, error) {
	if content == "" {
		return 0, ErrScoreParse
	}

	for _, token := range strings.Fields(content) {
		token = strings.Trim(token, ",;:")
		if value, err := strconv.ParseFloat(token, 64); err == nil {
			return value, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrScoreParse, content)
}

func clampScore(score, pointValue float64) float64 {
	if score < 0 {
		return 0
	}
	if score > pointValue {
		return pointValue
	}
	return score
}
