package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gradescan/gradescan-api/internal/config"
	"github.com/gradescan/gradescan-api/internal/database"
	"github.com/gradescan/gradescan-api/internal/handler"
	"github.com/gradescan/gradescan-api/internal/middleware"
	"github.com/gradescan/gradescan-api/internal/models"
	"github.com/gradescan/gradescan-api/internal/repository"
	"github.com/gradescan/gradescan-api/internal/router"
	"github.com/gradescan/gradescan-api/internal/service"
	"github.com/gradescan/gradescan-api/pkg/ai"
	cloud "github.com/gradescan/gradescan-api/pkg/cloudinary"
	"github.com/gradescan/gradescan-api/pkg/ocr"
	"github.com/gradescan/gradescan-api/pkg/pdf"
	"github.com/gradescan/gradescan-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Exam{}, &models.Question{}, &models.Student{}, &models.AnswerSheet{}, &models.Answer{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("no redis url configured, sheet locking disabled")
	}

	var events *nats.Conn
	if cfg.NATSURL != "" {
		events, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer events.Close()
	} else {
		logger.Warn().Msg("no nats url configured, evaluated events disabled")
	}

	store, err := storage.NewLocal(cfg.UploadDir, logger)
	if err != nil {
		log.Fatalf("failed to prepare upload storage: %v", err)
	}

	var archive service.FileUploader
	if cfg.CloudinaryEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		archive = uploader
	}

	extractor, err := buildExtractor(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create text extractor: %v", err)
	}

	scorer, err := ai.NewOpenAIScorer(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.ScoringModel,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create scorer: %v", err)
	}

	renderer := pdf.NewFitzRenderer(0, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	examRepo := repository.NewExamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sheetRepo := repository.NewAnswerSheetRepository(db)
	resultRepo := repository.NewResultRepository(db)

	examService := service.NewExamService(examRepo, questionRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, examRepo, validate, logger)
	sheetService := service.NewSheetService(sheetRepo, studentRepo, store, archive, cfg.MaxUploadMB, logger)
	evaluationService := service.NewEvaluationService(
		sheetRepo, examRepo, questionRepo, resultRepo,
		renderer, extractor, scorer, store,
		redisClient, events,
		service.EvaluationConfig{
			OCRTimeout:     cfg.OCRTimeout,
			ScoringTimeout: cfg.ScoringTimeout,
			LockTTL:        cfg.EvaluationLockTTL,
		},
		logger,
	)

	examHandler := handler.NewExamHandler(examService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	sheetHandler := handler.NewSheetHandler(sheetService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ExamHandler:       examHandler,
		StudentHandler:    studentHandler,
		SheetHandler:      sheetHandler,
		EvaluationHandler: evaluationHandler,
		EvaluateLimiter:   middleware.RateLimit("evaluate", cfg.EvaluateRateLimit, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildExtractor(cfg config.Config, logger zerolog.Logger) (ocr.Extractor, error) {
	switch cfg.OCRProvider {
	case "vision":
		return ocr.NewVisionExtractor(context.Background(), ocr.VisionConfig{
			CredentialsFile: cfg.GoogleCredentialsFile,
			Logger:          logger,
		})
	default:
		return ocr.NewOpenAIExtractor(ocr.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OCRModel,
			Logger: logger,
		})
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
