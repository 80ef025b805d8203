package ocr

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// VisionConfig defines configuration options for the Google Vision extractor.
type VisionConfig struct {
	CredentialsFile string
	Logger          zerolog.Logger
}

// VisionExtractor implements Extractor using the Google Cloud Vision
// text detection API. The per-fragment annotations map directly onto
// the labels sequence; bounding polys become the quads.
type VisionExtractor struct {
	client *vision.ImageAnnotatorClient
	logger zerolog.Logger
}

// NewVisionExtractor builds a Vision-backed extractor. Credentials come
// from the explicit file when set, otherwise application defaults.
func NewVisionExtractor(ctx context.Context, cfg VisionConfig) (*VisionExtractor, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	return &VisionExtractor{
		client: client,
		logger: cfg.Logger.With().Str("component", "ocr_vision").Logger(),
	}, nil
}

// Extract runs text detection on one page image.
func (e *VisionExtractor) Extract(ctx context.Context, image []byte) (Recognition, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	start := time.Now()
	resp, err := e.client.BatchAnnotateImages(ctx, req)
	ocrDuration.WithLabelValues("vision").Observe(time.Since(start).Seconds())
	if err != nil {
		ocrFailures.WithLabelValues("vision").Inc()
		return Recognition{}, fmt.Errorf("vision extract: %w", err)
	}

	if len(resp.Responses) == 0 {
		ocrFailures.WithLabelValues("vision").Inc()
		return Recognition{}, fmt.Errorf("%w: empty vision response", ErrMalformedResult)
	}

	annotated := resp.Responses[0]
	if annotated.Error != nil {
		ocrFailures.WithLabelValues("vision").Inc()
		return Recognition{}, fmt.Errorf("%w: %s", ErrMalformedResult, annotated.Error.Message)
	}

	// The first annotation is the concatenated page text; the rest are
	// the individual fragments in reading order.
	annotations := annotated.TextAnnotations
	if len(annotations) <= 1 {
		return Recognition{}, nil
	}

	recognition := Recognition{
		Labels: make([]string, 0, len(annotations)-1),
		Quads:  make([][]float64, 0, len(annotations)-1),
	}
	for _, annotation := range annotations[1:] {
		recognition.Labels = append(recognition.Labels, annotation.Description)
		recognition.Quads = append(recognition.Quads, quadFromPoly(annotation.BoundingPoly))
	}

	return recognition, nil
}

// Close releases the underlying API connection.
func (e *VisionExtractor) Close() error {
	return e.client.Close()
}

func quadFromPoly(poly *visionpb.BoundingPoly) []float64 {
	if poly == nil {
		return nil
	}

	quad := make([]float64, 0, len(poly.Vertices)*2)
	for _, vertex := range poly.Vertices {
		quad = append(quad, float64(vertex.X), float64(vertex.Y))
	}
	return quad
}
