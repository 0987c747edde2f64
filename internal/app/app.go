// Package app assembles the service: repositories, engines, feed client,
// services and the HTTP router.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pbarzyk/matchboard/external/flashfeed"
	"github.com/pbarzyk/matchboard/internal/config"
	"github.com/pbarzyk/matchboard/internal/domain/clubs"
	"github.com/pbarzyk/matchboard/internal/domain/competition"
	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
	"github.com/pbarzyk/matchboard/internal/infrastructure/repository/memory"
	"github.com/pbarzyk/matchboard/internal/infrastructure/repository/postgres"
	"github.com/pbarzyk/matchboard/internal/interfaces/httpapi"
	"github.com/pbarzyk/matchboard/internal/platform/cache"
	"github.com/pbarzyk/matchboard/internal/platform/logging"
	"github.com/pbarzyk/matchboard/internal/usecase"
)

type App struct {
	Server  *http.Server
	cleanup []func()
}

func (a *App) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{}

	var (
		matchRepo    match.Repository
		standingRepo standings.Repository
		clubRepo     clubs.Repository
	)
	if cfg.DBURL != "" {
		db, err := OpenDB(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		app.cleanup = append(app.cleanup, func() { _ = db.Close() })

		matchRepo = postgres.NewMatchRepository(db)
		standingRepo = postgres.NewStandingRepository(db)
		clubRepo = postgres.NewClubRepository(db)
		logger.Info("storage backend", "kind", "postgres")
	} else {
		matchRepo = memory.NewMatchRepository()
		standingRepo = memory.NewStandingRepository()
		clubRepo = memory.NewClubRepository()
		logger.Warn("storage backend", "kind", "memory", "note", "data is lost on restart")
	}

	var tableCache *cache.Store[[]standings.Row]
	var profileCache *cache.Store[[]clubs.Profile]
	if cfg.CacheEnabled {
		tableCache = cache.NewStore[[]standings.Row](cfg.CacheTTL)
		profileCache = cache.NewStore[[]clubs.Profile](cfg.CacheTTL)
		app.cleanup = append(app.cleanup, tableCache.Close, profileCache.Close)
	}

	classifier := competition.NewClassifier(competition.DefaultRules)

	feedClient := flashfeed.NewClient(flashfeed.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		FeedSign:   cfg.FeedSign,
		Locale:     cfg.FeedLocale,
		SportID:    cfg.FeedSportID,
		Variant:    cfg.FeedVariant,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		Breaker:    cfg.FeedBreaker,
	})

	decoderOpts := []flashfeed.DecoderOption{
		flashfeed.WithSeparators(flashfeed.Separators{
			Segment:  cfg.FeedSegmentSep,
			Entry:    cfg.FeedEntrySep,
			KeyValue: cfg.FeedKeyValueSep,
		}),
	}
	if cfg.LogoBaseURL != "" {
		decoderOpts = append(decoderOpts, flashfeed.WithLogoBase(cfg.LogoBaseURL))
	}
	decoder := flashfeed.NewDecoder(decoderOpts...)

	standingsSvc := usecase.NewStandingsService(matchRepo, tableCache)
	clubSvc := usecase.NewClubService(matchRepo, clubRepo, classifier, cfg.FormWindow, profileCache)
	dashboardSvc := usecase.NewDashboardService(matchRepo, classifier)
	ingestionSvc := usecase.NewIngestionService(
		feedClient, decoder, matchRepo, standingRepo, clubRepo, logger,
		usecase.IngestionConfig{
			SyncWorkers:    cfg.SyncWorkers,
			RebuildWorkers: cfg.RebuildWorkers,
			OnDataChanged: func() {
				if tableCache != nil {
					tableCache.Purge()
				}
				if profileCache != nil {
					profileCache.Purge()
				}
			},
		},
	)

	handler := httpapi.NewHandler(standingsSvc, clubSvc, dashboardSvc, ingestionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}
