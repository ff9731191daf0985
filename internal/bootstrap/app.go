package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/activities"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/analysis"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/analysis/gemini"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/resumes"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/auth"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/config"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/server"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/storage/db"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/storage/object/local"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/telemetry"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/users"
)

// App bundles the wired application.
type App struct {
	Router *gin.Engine
	Config config.Config
}

// Build wires repositories, services, and handlers from configuration.
// Without DATABASE_URL it falls back to in-memory stores, which keeps local
// dev and tests runnable with zero infrastructure.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	var (
		userRepo     users.Repo
		resumeRepo   resumes.Repo
		activityRepo activities.Repo
	)

	if cfg.DatabaseURL != "" {
		database, err := db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, err
		}
		userRepo = &users.PGRepo{DB: database}
		resumeRepo = &resumes.PGRepo{DB: database}
		activityRepo = &activities.PGRepo{DB: database}
	} else {
		telemetry.Warn("bootstrap.memory_mode", map[string]any{
			"reason": "DATABASE_URL not set, using in-memory repositories",
		})
		memResumes := resumes.NewMemoryRepo()
		memActivities := activities.NewMemoryRepo()
		memActivities.Titles = memResumes.Title
		userRepo = users.NewMemoryRepo()
		resumeRepo = memResumes
		activityRepo = memActivities
	}

	var scorer analysis.Scorer
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			// Analysis degrades to the canned fallback rather than
			// blocking startup.
			telemetry.Error("bootstrap.gemini_init_failed", map[string]any{"error": err.Error()})
		} else {
			scorer = client
		}
	} else {
		telemetry.Warn("bootstrap.analysis_degraded", map[string]any{
			"reason": "GEMINI_API_KEY not set, uploads get fallback scores",
		})
	}

	tokens := auth.NewManager(cfg.JWTSecret, auth.DefaultTTL)
	store := local.New(cfg.UploadDir)

	userSvc := users.NewService(userRepo, tokens)
	resumeSvc := resumes.NewService(resumeRepo, activityRepo, store, analysis.NewOrchestrator(scorer))

	router := server.NewRouter(server.RouterDeps{
		Env:         cfg.Env,
		CORSOrigins: cfg.CORSAllowOrigin,
		Tokens:      tokens,
		Users:       users.NewHandler(userSvc),
		Resumes:     resumes.NewHandler(resumeSvc),
	})

	return &App{Router: router, Config: cfg}, nil
}
