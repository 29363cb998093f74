package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-vault/internal/auth"
	"resume-vault/internal/printer"
	"resume-vault/internal/resumes"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/server"
	"resume-vault/internal/shared/storage/db"
	"resume-vault/internal/shared/storage/object"
	localstore "resume-vault/internal/shared/storage/object/local"
	s3store "resume-vault/internal/shared/storage/object/s3"
	"resume-vault/internal/statistics"
	"resume-vault/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ResumeRepo resumes.Repo
	UserRepo   users.Repo

	ResumeService     *resumes.Service
	StatisticsService *statistics.Service
	UserService       *users.Service
	Printer           *printer.Printer

	ResumeHandler *resumes.Handler
	UserHandler   *users.Handler
	GoogleAuth    *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		ResumeHandler: app.ResumeHandler,
		UserHandler:   app.UserHandler,
		GoogleAuth:    app.GoogleAuth,
		ArtifactServe: printer.ServeArtifact(app.Store),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var userRepo users.Repo
	var statsSvc *statistics.Service

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		statsSvc = statistics.NewPostgresService(statistics.NewPGStore(app.DB))
	} else {
		userRepo = users.NewMemoryRepo()
		statsSvc = statistics.NewService()
	}

	userSvc := users.NewServiceWithRepo(userRepo)

	var resumeRepo resumes.Repo
	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo(userSvc)
	}
	artifactPrinter := printer.New(app.Store, app.Config.PublicBaseURL)

	resumeSvc := &resumes.Service{
		Repo:     resumeRepo,
		Users:    userSvc,
		Stats:    statsSvc,
		Artifact: artifactPrinter,
	}

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.ResumeRepo = resumeRepo
	app.UserRepo = userRepo
	app.ResumeService = resumeSvc
	app.StatisticsService = statsSvc
	app.UserService = userSvc
	app.Printer = artifactPrinter
	app.ResumeHandler = resumes.NewHandler(resumeSvc)
	app.UserHandler = &users.Handler{Svc: userSvc}
	app.GoogleAuth = googleAuthSvc

	if app.ResumeHandler == nil || app.UserHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
