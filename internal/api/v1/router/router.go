package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courseflow/internal/api/v1/handler"
	"courseflow/internal/config"
	"courseflow/internal/middleware"
	"courseflow/internal/pubsub"
	"courseflow/internal/repository"
	"courseflow/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// New wires storage, services and handlers into the HTTP handler. The
// returned cleanup releases the database pool and the optional clients.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 1. Open DB pool
	pool, err := pgxpool.New(ctx, normalizeDSN(cfg.Environment, cfg.DBConnectionString))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open DB pool: %w", err)
	}
	closers = append(closers, pool.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize S3 client
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})
	storage := service.NewS3Storage(s3Client, cfg.S3Bucket, logger)

	// 3. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Course events go to Pub/Sub when a project is configured
	var publisher pubsub.Publisher
	if cfg.GetGCPProjectID() != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { p.Close() })
		publisher = p
	} else {
		logger.Warn().Msg("No GCP project configured, course events will not be published")
	}
	events := pubsub.NewCourseEventPublisher(publisher, cfg.PubSubCourseEventsTopic, logger)

	// 5. Repositories
	userRepo := repository.NewUserRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	chapterRepo := repository.NewChapterRepo(pool)
	sectionRepo := repository.NewSectionRepo(pool)
	reviewRepo := repository.NewReviewRepo(pool)
	mediaRepo := repository.NewMediaRepo(pool)
	groupRepo := repository.NewQuestionGroupRepo(pool)

	var enrollments service.EnrollmentStore = repository.NewEnrollmentRepo(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			DialTimeout: 5 * time.Second,
		})
		closers = append(closers, func() { rdb.Close() })
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, enrollment lookups will fall back to the database")
		}
		enrollments = service.NewCachedEnrollmentStore(enrollments, rdb, cfg.EnrollmentCacheTTL, logger)
	}

	// 6. Services
	locks := service.NewCourseLocks()
	media := service.NewMediaService(mediaRepo, storage, logger)
	groups := service.NewQuestionGroupService(groupRepo)

	userSvc := service.NewUserService(userRepo, courseRepo)
	courseSvc := service.NewCourseService(courseRepo, userRepo, storage, locks, service.CourseServiceConfig{
		CoverObjectPrefix: cfg.CoverObjectPrefix,
		CoverUploadURLTTL: cfg.CoverUploadURLTTL,
	}, logger)
	structureSvc := service.NewStructureService(courseRepo, chapterRepo, sectionRepo, userRepo, media, groups, locks, logger)
	reviewSvc := service.NewReviewService(courseRepo, chapterRepo, sectionRepo, reviewRepo, userRepo, media, groups, events, locks, logger)
	contentSvc := service.NewContentService(courseRepo, chapterRepo, sectionRepo, media, groups, enrollments, service.ContentServiceConfig{
		MediaURLTTL:        cfg.MediaURLTTL,
		ResolveConcurrency: cfg.ResolveConcurrency,
	}, logger)

	logger.Info().Msg("Router initialized")
	return Handler(Services{
		User:      userSvc,
		Course:    courseSvc,
		Structure: structureSvc,
		Review:    reviewSvc,
		Content:   contentSvc,
	}, validate, cfg.JWTSecret, logger), cleanup, nil
}

// Services are the wired services the HTTP surface is built over.
type Services struct {
	User      service.UserService
	Course    service.CourseService
	Structure service.StructureService
	Review    service.ReviewService
	Content   service.ContentService
}

// Handler registers every route under /v1 plus the swagger document and
// health check, and wraps the result in CORS and request logging.
func Handler(svcs Services, validate *validator.Validate, jwtSecret string, logger zerolog.Logger) http.Handler {
	authMiddleware := middleware.AuthMiddleware(jwtSecret, logger)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(jwtSecret, logger)

	apiV1Mux := http.NewServeMux()
	handler.NewUserHandler(svcs.User, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewCourseHandler(svcs.Course, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware, optionalAuthMiddleware)
	handler.NewStructureHandler(svcs.Structure, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewReviewHandler(svcs.Review, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewContentHandler(svcs.Content, logger).RegisterRoutes(apiV1Mux, optionalAuthMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, "swagger documentation not registered", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}

// normalizeDSN disables SSL for local development and switches to the
// simple query protocol elsewhere, since production connects through a
// transaction pooler that cannot hold server-side prepared statements.
func normalizeDSN(environment, dsn string) string {
	if environment == "development" {
		if !strings.Contains(dsn, "sslmode") {
			dsn = appendParam(dsn, "sslmode=disable")
		}
		return dsn
	}
	if !strings.Contains(dsn, "default_query_exec_mode") {
		dsn = appendParam(dsn, "default_query_exec_mode=simple_protocol")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn + " " + param
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Presigners inspect the stack too, so only remove what is there.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
