package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gradescan/gradescan-api/internal/dto"
	"github.com/gradescan/gradescan-api/internal/evaluation"
	"github.com/gradescan/gradescan-api/internal/models"
	"github.com/gradescan/gradescan-api/internal/observability"
	"github.com/gradescan/gradescan-api/internal/repository"
	"github.com/gradescan/gradescan-api/pkg/ai"
	"github.com/gradescan/gradescan-api/pkg/ocr"
	"github.com/gradescan/gradescan-api/pkg/pdf"
)

// ErrExamNotFound indicates the sheet's exam could not be located.
var ErrExamNotFound = errors.New("exam not found")

// ErrAnswerSheetNotFound indicates the answer sheet could not be located.
var ErrAnswerSheetNotFound = errors.New("answer sheet not found")

// ErrEvaluationInProgress indicates another evaluation of the same
// sheet currently holds the sheet lock.
var ErrEvaluationInProgress = errors.New("evaluation already in progress for this sheet")

// ErrSheetNotEvaluated indicates results were requested for a sheet
// that has never been evaluated.
var ErrSheetNotEvaluated = errors.New("answer sheet has not been evaluated")

const evaluatedSubject = "gradescan.sheets.evaluated"

// EvaluationService runs the answer-sheet pipeline: render pages,
// extract text, align candidates with questions, score each pair, and
// persist the outcome atomically.
type EvaluationService interface {
	Evaluate(ctx context.Context, sheetID uint) (dto.EvaluationResponse, error)
	Results(ctx context.Context, sheetID uint) (dto.EvaluationResponse, error)
}

// EvaluationConfig carries the pipeline tuning knobs.
type EvaluationConfig struct {
	OCRTimeout     time.Duration
	ScoringTimeout time.Duration
	LockTTL        time.Duration
}

type evaluationService struct {
	sheets    repository.AnswerSheetRepository
	exams     repository.ExamRepository
	questions repository.QuestionRepository
	results   repository.ResultRepository
	renderer  pdf.Renderer
	extractor ocr.Extractor
	scorer    ai.Scorer
	store     SheetStore
	cache     *redis.Client
	events    *nats.Conn
	cfg       EvaluationConfig
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewEvaluationService constructs the pipeline orchestrator.
func NewEvaluationService(
	sheets repository.AnswerSheetRepository,
	exams repository.ExamRepository,
	questions repository.QuestionRepository,
	results repository.ResultRepository,
	renderer pdf.Renderer,
	extractor ocr.Extractor,
	scorer ai.Scorer,
	store SheetStore,
	cache *redis.Client,
	events *nats.Conn,
	cfg EvaluationConfig,
	logger zerolog.Logger,
) EvaluationService {
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 60 * time.Second
	}
	if cfg.ScoringTimeout <= 0 {
		cfg.ScoringTimeout = 30 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}

	return &evaluationService{
		sheets:    sheets,
		exams:     exams,
		questions: questions,
		results:   results,
		renderer:  renderer,
		extractor: extractor,
		scorer:    scorer,
		store:     store,
		cache:     cache,
		events:    events,
		cfg:       cfg,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/gradescan/gradescan-api/internal/service/evaluation"),
		now:       time.Now,
	}
}

type pageMeta struct {
	Page   int `json:"page"`
	Labels int `json:"labels"`
}

type evaluatedEvent struct {
	SheetID     uint      `json:"sheet_id"`
	TotalScore  float64   `json:"total_score"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

func (s *evaluationService) Evaluate(parent context.Context, sheetID uint) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(parent, "evaluation.run", trace.WithAttributes(
		attribute.Int64("sheet_id", int64(sheetID)),
	))
	defer span.End()

	start := s.now()

	unlock, err := s.acquireSheetLock(ctx, sheetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock_not_acquired")
		return dto.EvaluationResponse{}, err
	}
	defer unlock()

	sheet, examID, err := s.sheets.GetWithExamID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrAnswerSheetNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrExamNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	pages, err := s.renderer.RenderPages(ctx, s.store.Path(sheet.Filename))
	if err != nil {
		observability.Evaluations().WithLabelValues("unreadable_document").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "render_failed")
		return dto.EvaluationResponse{}, err
	}

	recognitions, meta := s.extractPages(ctx, sheetID, pages)

	candidates := evaluation.Aggregate(recognitions)
	aligned := evaluation.Align(candidates, len(questions))

	span.SetAttributes(
		attribute.Int("pages", len(pages)),
		attribute.Int("candidates", len(candidates)),
		attribute.Int("questions", len(questions)),
	)

	answers, totalScore := s.scorePairs(ctx, sheetID, questions, aligned)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("encode recognition meta: %w", err)
	}

	evaluatedAt := s.now().UTC()
	eval := repository.Evaluation{
		Answers:         answers,
		TotalScore:      totalScore,
		ExtractedText:   strings.Join(candidates, ", "),
		RecognitionMeta: datatypes.JSON(metaJSON),
		EvaluatedAt:     evaluatedAt,
	}

	if err := s.results.SaveEvaluation(ctx, sheetID, eval); err != nil {
		observability.Evaluations().WithLabelValues("persist_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrAnswerSheetNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	observability.Evaluations().WithLabelValues("ok").Inc()
	observability.EvaluationDuration().Observe(s.now().Sub(start).Seconds())

	s.publishEvaluated(evaluatedEvent{SheetID: sheetID, TotalScore: totalScore, EvaluatedAt: evaluatedAt})

	s.logger.Info().
		Uint("sheet_id", sheetID).
		Int("questions", len(questions)).
		Float64("total_score", totalScore).
		Msg("answer sheet evaluated")

	return buildEvaluationResponse(sheetID, questions, aligned, answers, totalScore, eval.ExtractedText, evaluatedAt), nil
}

func (s *evaluationService) Results(ctx context.Context, sheetID uint) (dto.EvaluationResponse, error) {
	sheet, err := s.sheets.GetByID(ctx, sheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrAnswerSheetNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if !sheet.IsEvaluated() {
		return dto.EvaluationResponse{}, ErrSheetNotEvaluated
	}

	answers, err := s.results.ListAnswers(ctx, sheetID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	response := dto.EvaluationResponse{
		SheetID:     sheetID,
		EvaluatedAt: *sheet.EvaluatedAt,
		Answers:     make([]dto.AnswerResult, 0, len(answers)),
	}

	if sheet.TotalScore != nil {
		response.TotalScore = *sheet.TotalScore
	}
	if sheet.ExtractedText != nil {
		response.ExtractedText = *sheet.ExtractedText
	}

	for _, answer := range answers {
		response.MaxScore += answer.Question.PointValue
		response.Answers = append(response.Answers, dto.NewAnswerResult(answer))
	}

	return response, nil
}

// acquireSheetLock enforces single-writer discipline per sheet. The
// returned func releases the lock; it is a no-op when no cache is
// configured.
func (s *evaluationService) acquireSheetLock(ctx context.Context, sheetID uint) (func(), error) {
	if s.cache == nil {
		s.logger.Warn().Uint("sheet_id", sheetID).Msg("no cache configured, skipping sheet lock")
		return func() {}, nil
	}

	key := fmt.Sprintf("evaluation:sheet:%d", sheetID)
	acquired, err := s.cache.SetNX(ctx, key, "1", s.cfg.LockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire sheet lock: %w", err)
	}
	if !acquired {
		return nil, ErrEvaluationInProgress
	}

	return func() {
		if err := s.cache.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			s.logger.Warn().Err(err).Uint("sheet_id", sheetID).Msg("failed to release sheet lock")
		}
	}, nil
}

// extractPages runs recognition page by page. A malformed or failed
// page contributes zero candidate answers and never aborts the sheet.
func (s *evaluationService) extractPages(ctx context.Context, sheetID uint, pages []pdf.Page) ([]ocr.Recognition, []pageMeta) {
	recognitions := make([]ocr.Recognition, 0, len(pages))
	meta := make([]pageMeta, 0, len(pages))

	for _, page := range pages {
		observability.PagesProcessed().Inc()

		extractCtx, cancel := context.WithTimeout(ctx, s.cfg.OCRTimeout)
		recognition, err := s.extractor.Extract(extractCtx, page.Image)
		cancel()

		if err != nil {
			if errors.Is(err, ocr.ErrMalformedResult) {
				observability.MalformedPages().Inc()
			}
			s.logger.Warn().Err(err).
				Uint("sheet_id", sheetID).
				Int("page", page.Number).
				Msg("page recognition failed, contributing no answers")
			recognition = ocr.Recognition{}
		}

		recognitions = append(recognitions, recognition)
		meta = append(meta, pageMeta{Page: page.Number, Labels: len(recognition.Labels)})
	}

	return recognitions, meta
}

// scorePairs grades each aligned pair sequentially. Scoring failures
// degrade to 0.0 so one bad model response never aborts the sheet.
func (s *evaluationService) scorePairs(ctx context.Context, sheetID uint, questions []models.Question, aligned []string) ([]models.Answer, float64) {
	answers := make([]models.Answer, 0, len(questions))
	var totalScore float64

	for i, question := range questions {
		scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.ScoringTimeout)
		score, err := s.scorer.Score(scoreCtx, ai.ScoreInput{
			Prompt:          question.Prompt,
			CandidateAnswer: aligned[i],
			IdealAnswer:     question.IdealAnswer,
			PointValue:      question.PointValue,
		})
		cancel()

		if err != nil {
			if errors.Is(err, ai.ErrScoreParse) {
				observability.ScoreParseFailures().Inc()
			}
			s.logger.Warn().Err(err).
				Uint("sheet_id", sheetID).
				Uint("question_id", question.ID).
				Msg("scoring failed, assigning zero")
			score = 0
		}

		totalScore += score
		answers = append(answers, models.Answer{
			QuestionID:    question.ID,
			StudentAnswer: aligned[i],
			Score:         score,
		})
	}

	return answers, totalScore
}

func (s *evaluationService) publishEvaluated(event evaluatedEvent) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode evaluated event")
		return
	}

	if err := s.events.Publish(evaluatedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("sheet_id", event.SheetID).Msg("failed to publish evaluated event")
	}
}

func buildEvaluationResponse(sheetID uint, questions []models.Question, aligned []string, answers []models.Answer, totalScore float64, extractedText string, evaluatedAt time.Time) dto.EvaluationResponse {
	response := dto.EvaluationResponse{
		SheetID:       sheetID,
		TotalScore:    totalScore,
		EvaluatedAt:   evaluatedAt,
		ExtractedText: extractedText,
		Answers:       make([]dto.AnswerResult, 0, len(questions)),
	}

	for i, question := range questions {
		response.MaxScore += question.PointValue
		response.Answers = append(response.Answers, dto.AnswerResult{
			QuestionID:    question.ID,
			Prompt:        question.Prompt,
			PointValue:    question.PointValue,
			StudentAnswer: aligned[i],
			Score:         answers[i].Score,
		})
	}

	return response
}
