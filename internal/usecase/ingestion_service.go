package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/pbarzyk/matchboard/internal/domain/clubs"
	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
	"github.com/pbarzyk/matchboard/internal/platform/logging"
)

// FeedFetcher retrieves the raw feed text for a calendar date.
type FeedFetcher interface {
	FetchDate(ctx context.Context, target time.Time) (string, error)
}

// FeedDecoder turns raw feed text into matches.
type FeedDecoder interface {
	DecodeAll(raw string) []match.Match
}

const dateLayout = "2006-01-02"

// DaySyncReport summarizes one day's ingestion.
type DaySyncReport struct {
	Date       string `json:"date"`
	Decoded    int    `json:"decoded"`
	Finished   int    `json:"finished"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// WindowSyncReport summarizes a multi-day sync.
type WindowSyncReport struct {
	Days    []DaySyncReport `json:"days"`
	Synced  int             `json:"synced"`
	Failed  int             `json:"failed"`
	Matches int             `json:"matches"`
}

// RebuildReport summarizes a full aggregate rebuild.
type RebuildReport struct {
	Leagues    int   `json:"leagues"`
	Clubs      int   `json:"clubs"`
	Matches    int   `json:"matches"`
	DurationMs int64 `json:"duration_ms"`
}

// IngestionService pulls feed days, stores decoded matches, and rebuilds
// the derived aggregates (league tables, club profiles) from them.
type IngestionService struct {
	fetcher      FeedFetcher
	decoder      FeedDecoder
	matchRepo    match.Repository
	standingRepo standings.Repository
	clubRepo     clubs.Repository
	logger       *logging.Logger

	syncWorkers    int
	rebuildWorkers int

	// onDataChanged invalidates read-side caches after writes.
	onDataChanged func()
}

type IngestionConfig struct {
	SyncWorkers    int
	RebuildWorkers int
	OnDataChanged  func()
}

func NewIngestionService(
	fetcher FeedFetcher,
	decoder FeedDecoder,
	matchRepo match.Repository,
	standingRepo standings.Repository,
	clubRepo clubs.Repository,
	logger *logging.Logger,
	cfg IngestionConfig,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	syncWorkers := cfg.SyncWorkers
	if syncWorkers < 1 {
		syncWorkers = 4
	}
	rebuildWorkers := cfg.RebuildWorkers
	if rebuildWorkers < 1 {
		rebuildWorkers = 8
	}
	return &IngestionService{
		fetcher:        fetcher,
		decoder:        decoder,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		clubRepo:       clubRepo,
		logger:         logger,
		syncWorkers:    syncWorkers,
		rebuildWorkers: rebuildWorkers,
		onDataChanged:  cfg.OnDataChanged,
	}
}

// SyncDay fetches, decodes and stores one day's matches. The day's previous
// snapshot is replaced keyed on (id, date), so repeated syncs converge.
func (s *IngestionService) SyncDay(ctx context.Context, target time.Time) (DaySyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.SyncDay")
	defer span.End()

	start := time.Now()
	report := DaySyncReport{Date: target.Format(dateLayout)}

	raw, err := s.fetcher.FetchDate(ctx, target)
	if err != nil {
		return report, fmt.Errorf("fetch feed date=%s: %w", report.Date, err)
	}

	decoded := s.decoder.DecodeAll(raw)
	report.Decoded = len(decoded)
	for _, m := range decoded {
		if m.HasResult() {
			report.Finished++
		}
	}

	if err := s.matchRepo.UpsertDated(ctx, report.Date, decoded); err != nil {
		return report, fmt.Errorf("store matches date=%s: %w", report.Date, err)
	}

	report.DurationMs = time.Since(start).Milliseconds()
	s.notifyDataChanged()
	s.logger.InfoContext(ctx, "day synced", "date", report.Date, "decoded", report.Decoded, "finished", report.Finished)
	return report, nil
}

// SyncWindow ingests every day from start to end inclusive, fanning the
// days out over a bounded worker pool. One failing day does not stop the
// others; failures are reported per day.
func (s *IngestionService) SyncWindow(ctx context.Context, startDate, endDate time.Time) (WindowSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.SyncWindow")
	defer span.End()

	if endDate.Before(startDate) {
		return WindowSyncReport{}, fmt.Errorf("%w: window end precedes start", ErrInvalidInput)
	}

	days := make([]time.Time, 0, 8)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	workerCount := min(s.syncWorkers, len(days))
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return WindowSyncReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	reports := make([]DaySyncReport, len(days))
	var workers sync.WaitGroup
	for i, day := range days {
		i, day := i, day
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			report, err := s.SyncDay(ctx, day)
			if err != nil {
				report.Error = err.Error()
				s.logger.WarnContext(ctx, "day sync failed", "date", day.Format(dateLayout), "error", err)
			}
			reports[i] = report
		}); err != nil {
			workers.Done()
			return WindowSyncReport{}, fmt.Errorf("submit day to worker pool: %w", err)
		}
	}
	workers.Wait()

	out := WindowSyncReport{Days: reports}
	for _, r := range reports {
		if r.Error != "" {
			out.Failed++
			continue
		}
		out.Synced++
		out.Matches += r.Decoded
	}
	return out, nil
}

// RebuildAggregates recomputes every league table and all club profiles
// from the stored finished matches and persists them. Leagues are
// independent, so their tables are computed in parallel; the club fold is
// global and runs once.
func (s *IngestionService) RebuildAggregates(ctx context.Context) (RebuildReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.RebuildAggregates")
	defer span.End()

	start := time.Now()

	finished, err := s.matchRepo.ListFinished(ctx)
	if err != nil {
		return RebuildReport{}, fmt.Errorf("list finished matches: %w", err)
	}

	byLeague := make(map[match.LeagueKey][]match.Match)
	for _, m := range finished {
		key := m.LeagueKey()
		byLeague[key] = append(byLeague[key], m)
	}

	leaguePool := pool.New().WithMaxGoroutines(s.rebuildWorkers).WithErrors().WithContext(ctx)
	for key, leagueMatches := range byLeague {
		key, leagueMatches := key, leagueMatches
		leaguePool.Go(func(ctx context.Context) error {
			rows := standings.Compute(leagueMatches)
			if err := s.standingRepo.ReplaceForLeague(ctx, key, rows); err != nil {
				return fmt.Errorf("replace standings league=%s country=%s: %w", key.League, key.Country, err)
			}
			return nil
		})
	}
	if err := leaguePool.Wait(); err != nil {
		return RebuildReport{}, err
	}

	profileMap := clubs.Aggregate(finished)
	profiles := make([]clubs.Profile, 0, len(profileMap))
	for _, p := range profileMap {
		profiles = append(profiles, p)
	}
	if err := s.clubRepo.UpsertProfiles(ctx, profiles); err != nil {
		return RebuildReport{}, fmt.Errorf("upsert club profiles: %w", err)
	}

	s.notifyDataChanged()

	report := RebuildReport{
		Leagues:    len(byLeague),
		Clubs:      len(profiles),
		Matches:    len(finished),
		DurationMs: time.Since(start).Milliseconds(),
	}
	s.logger.InfoContext(ctx, "aggregates rebuilt", "leagues", report.Leagues, "clubs", report.Clubs, "matches", report.Matches)
	return report, nil
}

func (s *IngestionService) notifyDataChanged() {
	if s.onDataChanged != nil {
		s.onDataChanged()
	}
}
