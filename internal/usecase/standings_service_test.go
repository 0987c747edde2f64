package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
	"github.com/pbarzyk/matchboard/internal/infrastructure/repository/memory"
	"github.com/pbarzyk/matchboard/internal/platform/cache"
)

func seedMatches(t *testing.T, repo *memory.MatchRepository, matches ...match.Match) {
	t.Helper()
	if err := repo.UpsertDated(context.Background(), "2026-08-01", matches); err != nil {
		t.Fatalf("seed matches: %v", err)
	}
}

func finishedMatch(id string, ts int64, country, league, home, away string, hs, as int) match.Match {
	return match.Match{
		ID:             id,
		StartTimestamp: &ts,
		Status:         match.StatusFinished,
		Country:        country,
		League:         league,
		Home:           home,
		Away:           away,
		HomeScore:      &hs,
		AwayScore:      &as,
	}
}

func TestTableForLeague_ComputesFromStoredMatches(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository()
	seedMatches(t, repo,
		finishedMatch("m1", 1, "England", "Premier League", "United", "City", 2, 0),
		finishedMatch("m2", 2, "England", "Premier League", "City", "Rovers", 1, 1),
		finishedMatch("m3", 3, "Spain", "LaLiga", "Real", "Barca", 0, 1),
	)

	svc := NewStandingsService(repo, nil)

	rows, err := svc.TableForLeague(context.Background(), "England", "Premier League")
	if err != nil {
		t.Fatalf("TableForLeague: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Team != "United" || rows[0].Position != 1 {
		t.Fatalf("expected United first, got %+v", rows[0])
	}
}

func TestTableForLeague_UnknownLeague(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(memory.NewMatchRepository(), nil)

	_, err := svc.TableForLeague(context.Background(), "Nowhere", "Ghost League")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTableForLeague_RequiresLeagueName(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(memory.NewMatchRepository(), nil)

	_, err := svc.TableForLeague(context.Background(), "England", "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTableForLeague_KnownLeagueWithoutResults(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository()
	scheduled := match.Match{
		ID:      "m1",
		Status:  match.StatusNotStarted,
		Country: "England",
		League:  "Premier League",
		Home:    "United",
		Away:    "City",
	}
	seedMatches(t, repo, scheduled)

	svc := NewStandingsService(repo, nil)

	rows, err := svc.TableForLeague(context.Background(), "England", "Premier League")
	if err != nil {
		t.Fatalf("a known league with no results must yield an empty table, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(rows))
	}
}

func TestTableForLeague_ServesCachedTable(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository()
	seedMatches(t, repo,
		finishedMatch("m1", 1, "England", "Premier League", "United", "City", 2, 0),
	)

	tables := cache.NewStore[[]standings.Row](time.Minute)
	defer tables.Close()
	svc := NewStandingsService(repo, tables)

	ctx := context.Background()
	if _, err := svc.TableForLeague(ctx, "England", "Premier League"); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// New results do not show until the cache is purged.
	seedMatches(t, repo,
		finishedMatch("m2", 2, "England", "Premier League", "City", "United", 3, 0),
	)

	rows, err := svc.TableForLeague(ctx, "England", "Premier League")
	if err != nil {
		t.Fatalf("cached call: %v", err)
	}
	if rows[0].Played != 1 {
		t.Fatalf("expected the cached table, got %+v", rows[0])
	}

	tables.Purge()
	rows, err = svc.TableForLeague(ctx, "England", "Premier League")
	if err != nil {
		t.Fatalf("post-purge call: %v", err)
	}
	if rows[0].Played != 2 {
		t.Fatalf("expected the recomputed table, got %+v", rows[0])
	}
}

func TestLeagues_ListsDistinctKeys(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository()
	seedMatches(t, repo,
		finishedMatch("m1", 1, "England", "Premier League", "United", "City", 2, 0),
		finishedMatch("m2", 2, "England", "Premier League", "City", "Rovers", 1, 1),
		finishedMatch("m3", 3, "Spain", "LaLiga", "Real", "Barca", 0, 1),
	)

	svc := NewStandingsService(repo, nil)

	keys, err := svc.Leagues(context.Background())
	if err != nil {
		t.Fatalf("Leagues: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 leagues, got %v", keys)
	}
}
