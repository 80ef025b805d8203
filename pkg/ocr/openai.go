package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
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
	ocrDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradescan",
		Subsystem: "ocr",
		Name:      "extraction_duration_seconds",
		Help:      "Duration of page text extraction requests",
	}, []string{"provider"})

	ocrFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradescan",
		Subsystem: "ocr",
		Name:      "extraction_failures_total",
		Help:      "Number of failed page text extraction requests",
	}, []string{"provider"})
)

// OpenAIConfig defines configuration options for the OpenAI extractor.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIExtractor implements Extractor against the OpenAI vision chat API.
type OpenAIExtractor struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIExtractor builds a new extractor using the provided configuration.
func NewOpenAIExtractor(cfg OpenAIConfig) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	tracer := otel.Tracer("github.com/gradescan/gradescan-api/pkg/ocr/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIExtractor{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "ocr_openai").Logger(),
	}, nil
}

// Extract sends one page image to the model and parses the recognition envelope.
func (e *OpenAIExtractor) Extract(parent context.Context, image []byte) (Recognition, error) {
	ctx, span := e.tracer.Start(parent, "ocr.extract", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
		attribute.Int("image_bytes", len(image)),
	))
	defer span.End()

	dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(image))

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractorSystemPrompt(),
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Recognize every handwritten or printed answer fragment on this scanned answer-sheet page, top to bottom.",
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := e.client.CreateChatCompletion(ctx, request)
	ocrDuration.WithLabelValues("openai").Observe(time.Since(start).Seconds())
	if err != nil {
		ocrFailures.WithLabelValues("openai").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Recognition{}, fmt.Errorf("openai extract: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w: no choices returned", ErrMalformedResult)
		ocrFailures.WithLabelValues("openai").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Recognition{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	recognition, err := ParseRecognition([]byte(content))
	if err != nil {
		ocrFailures.WithLabelValues("openai").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Recognition{}, err
	}

	span.SetAttributes(attribute.Int("labels", len(recognition.Labels)))

	return recognition, nil
}

func extractorSystemPrompt() string {
	return fmt.Sprintf("You are an OCR engine for scanned exam answer sheets. Respond with a JSON object of the form "+
		"{%q: {\"labels\": [...], \"quad_boxes\": [...]}} where labels is the ordered list of recognized text "+
		"fragments (one per answer region, top to bottom) and quad_boxes is the list of 8-number bounding quads "+
		"parallel to labels. Output nothing besides the JSON object.", TaskOCRWithRegion)
}
