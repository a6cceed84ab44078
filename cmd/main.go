package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/roadmaphub-backend/internal/clients/redis"
	"github.com/yungbote/roadmaphub-backend/internal/data/db"
	"github.com/yungbote/roadmaphub-backend/internal/data/repos"
	"github.com/yungbote/roadmaphub-backend/internal/http/handlers"
	"github.com/yungbote/roadmaphub-backend/internal/observability"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/platform/envutil"
	"github.com/yungbote/roadmaphub-backend/internal/scheduler"
	"github.com/yungbote/roadmaphub-backend/internal/server"
	"github.com/yungbote/roadmaphub-backend/internal/services"
)

func main() {
	// Env file is optional; real deployments inject variables directly.
	_ = godotenv.Load()

	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "roadmaphub-backend"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	repoSet := repos.NewSet(thePG, log)

	// Redis (optional; recommendations fall back to uncached reads)
	var cache services.RecommendationCache
	redisCache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis init failed, recommendation caching disabled", "error", err)
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	// Services
	log.Info("Setting up services...")
	scoreService := services.NewScoreService(thePG, log, repoSet.User, repoSet.NodeProgress)
	progressService := services.NewProgressService(thePG, log, repoSet.NodeProgress, repoSet.Roadmap, repoSet.RoadmapNode, repoSet.Node, repoSet.User, scoreService)
	reactionService := services.NewReactionService(thePG, log, repoSet.Reaction, repoSet.User, repoSet.Node, repoSet.Roadmap)
	cascadeService := services.NewCascadeService(thePG, log, reactionService, progressService, repoSet.User, repoSet.Node, repoSet.Roadmap, repoSet.RoadmapNode)
	recommendationService := services.NewRecommendationService(thePG, log, repoSet.Roadmap, repoSet.RoadmapStatistics, cache)

	// Statistics seed
	if seedPath := envutil.String("STATS_SEED_PATH", ""); seedPath != "" {
		seeder := services.NewStatsSeeder(thePG, log, repoSet.Roadmap, repoSet.RoadmapStatistics)
		if _, err := seeder.SeedFromFile(ctx, seedPath); err != nil {
			log.Warn("Statistics seed failed", "path", seedPath, "error", err)
		}
	}

	// Score reconciliation job
	interval := time.Duration(envutil.Int("SCORE_RECONCILE_INTERVAL_MINUTES", 60)) * time.Minute
	sched := scheduler.New(log, scoreService, interval)
	if err := sched.Start(); err != nil {
		log.Error("Scheduler start failed", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		HealthHandler:         handlers.NewHealthHandler(),
		ReactionHandler:       handlers.NewReactionHandler(log, cascadeService, reactionService),
		ProgressHandler:       handlers.NewProgressHandler(log, progressService),
		ScoreHandler:          handlers.NewScoreHandler(log, scoreService),
		RecommendationHandler: handlers.NewRecommendationHandler(log, recommendationService),
	})

	addr := ":" + envutil.String("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	if otelShutdown != nil {
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("Otel shutdown failed", "error", err)
		}
	}
	log.Info("Shutdown complete")
}
