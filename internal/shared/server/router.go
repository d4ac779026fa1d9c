package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/applications"
	"vendor-backend/internal/documents"
	"vendor-backend/internal/fraud"
	"vendor-backend/internal/ocr"
	"vendor-backend/internal/ocr/localpdf"
	"vendor-backend/internal/ocr/vision"
	"vendor-backend/internal/ocrresults"
	"vendor-backend/internal/queue"
	"vendor-backend/internal/shared/config"
	"vendor-backend/internal/shared/metrics"
	"vendor-backend/internal/shared/server/middleware"
	"vendor-backend/internal/shared/server/respond"
	"vendor-backend/internal/shared/storage/db"
	"vendor-backend/internal/shared/storage/object"
	localstore "vendor-backend/internal/shared/storage/object/local"
	s3store "vendor-backend/internal/shared/storage/object/s3"
	"vendor-backend/internal/verification"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	sqlDB := connectDB(cfg)
	store := buildStore(cfg)

	var docRepo documents.Repo
	var ocrRepo ocrresults.Repo
	var fraudRepo fraud.Repo
	var appRepo applications.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
		ocrRepo = &ocrresults.PGRepo{DB: sqlDB}
		fraudRepo = &fraud.PGRepo{DB: sqlDB}
		appRepo = &applications.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
		ocrRepo = ocrresults.NewMemoryRepo()
		fraudRepo = fraud.NewMemoryRepo()
		appRepo = applications.NewMemoryRepo()
	}

	aggregator := &applications.Aggregator{
		Applications: appRepo,
		Documents:    docRepo,
		OCRResults:   ocrRepo,
		FraudFlags:   fraudRepo,
	}

	svc := &verification.Service{
		Store:      store,
		OCR:        ocr.NewAdapter(buildRecognizer(cfg, store), cfg.OCRTimeout),
		Aggregator: aggregator,
		Documents:  docRepo,
		Queue:      buildQueue(cfg),
		Category:   cfg.DocumentCategory,
		Provider:   cfg.ObjectStoreType,
	}
	handler := verification.NewHandler(svc, appRepo)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	authed := api.Group("")
	authed.Use(middleware.Applicant())
	handler.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

func connectDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL empty; using in-memory repositories")
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	conn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(context.Background(), conn); err != nil {
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		return nil
	}
	return conn
}

func buildStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			log.Printf("failed to build s3 store, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

func buildRecognizer(cfg config.Config, store object.ObjectStore) ocr.Recognizer {
	if cfg.OCRProvider == "vision" {
		client, err := vision.NewClient(cfg.OCRAPIURL, cfg.OCRAPIKey, cfg.OCRTimeout)
		if err != nil {
			log.Printf("failed to build vision client, falling back to local pdf: %v", err)
		} else {
			return client
		}
	}
	return localpdf.New(store)
}

func buildQueue(cfg config.Config) queue.Client {
	if cfg.VerifyQueueURL == "" {
		return queue.NoopClient{}
	}
	client, err := queue.NewSQSClient(context.Background(), cfg.VerifyQueueURL, cfg.AWSRegion)
	if err != nil {
		log.Printf("failed to build sqs client, notifications disabled: %v", err)
		return queue.NoopClient{}
	}
	return client
}
