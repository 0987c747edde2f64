package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pbarzyk/matchboard/internal/domain/clubs"
	"github.com/pbarzyk/matchboard/internal/infrastructure/repository/memory"
)

func seedProfiles(t *testing.T, repo *memory.ClubRepository, profiles ...clubs.Profile) {
	t.Helper()
	if err := repo.UpsertProfiles(context.Background(), profiles); err != nil {
		t.Fatalf("seed profiles: %v", err)
	}
}

func TestListProfiles_SortedByName(t *testing.T) {
	t.Parallel()

	clubRepo := memory.NewClubRepository()
	seedProfiles(t, clubRepo,
		clubs.Profile{Name: "Zenit", Played: 2},
		clubs.Profile{Name: "Ajax", Played: 3},
		clubs.Profile{Name: "Milan", Played: 1},
	)

	svc := NewClubService(memory.NewMatchRepository(), clubRepo, nil, 0, nil)

	profiles, err := svc.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	for i, want := range []string{"Ajax", "Milan", "Zenit"} {
		if profiles[i].Name != want {
			t.Fatalf("expected %s at index %d, got %s", want, i, profiles[i].Name)
		}
	}
}

func TestSearchProfiles(t *testing.T) {
	t.Parallel()

	clubRepo := memory.NewClubRepository()
	seedProfiles(t, clubRepo,
		clubs.Profile{Name: "Atlético Madrid"},
		clubs.Profile{Name: "Real Madrid"},
		clubs.Profile{Name: "Sevilla"},
	)

	svc := NewClubService(memory.NewMatchRepository(), clubRepo, nil, 0, nil)
	ctx := context.Background()

	matched, err := svc.SearchProfiles(ctx, "madrid")
	if err != nil {
		t.Fatalf("SearchProfiles: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 Madrid clubs, got %+v", matched)
	}

	// Accent-insensitive: plain "atletico" finds the accented name.
	matched, err = svc.SearchProfiles(ctx, "atletico")
	if err != nil {
		t.Fatalf("SearchProfiles: %v", err)
	}
	if len(matched) != 1 || matched[0].Name != "Atlético Madrid" {
		t.Fatalf("expected Atlético Madrid, got %+v", matched)
	}

	all, err := svc.SearchProfiles(ctx, "")
	if err != nil {
		t.Fatalf("SearchProfiles: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("empty query must return everything, got %d", len(all))
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewClubService(memory.NewMatchRepository(), memory.NewClubRepository(), nil, 0, nil)

	_, err := svc.GetProfile(context.Background(), "Ghost FC")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = svc.GetProfile(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestForm_SplitsStreams(t *testing.T) {
	t.Parallel()

	matchRepo := memory.NewMatchRepository()
	seedMatches(t, matchRepo,
		finishedMatch("m1", 1, "England", "Premier League", "United", "City", 2, 0),
		finishedMatch("m2", 2, "England", "FA Cup", "United", "Rovers", 0, 1),
		finishedMatch("m3", 3, "England", "Premier League", "City", "United", 1, 1),
	)

	svc := NewClubService(matchRepo, memory.NewClubRepository(), nil, 5, nil)

	report, err := svc.Form(context.Background(), "United")
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if report.League.Results != "WD" {
		t.Fatalf("expected league WD, got %q", report.League.Results)
	}
	if report.Cup.Results != "L" {
		t.Fatalf("expected cup L, got %q", report.Cup.Results)
	}
}

func TestForm_UnknownClub(t *testing.T) {
	t.Parallel()

	svc := NewClubService(memory.NewMatchRepository(), memory.NewClubRepository(), nil, 5, nil)

	_, err := svc.Form(context.Background(), "Ghost FC")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestForm_KnownClubWithoutRecentResults(t *testing.T) {
	t.Parallel()

	// A club can exist in the aggregates while its matches have been
	// pruned from the recent window; form is then empty, not a 404.
	clubRepo := memory.NewClubRepository()
	seedProfiles(t, clubRepo, clubs.Profile{Name: "Dormant FC", Played: 10})

	svc := NewClubService(memory.NewMatchRepository(), clubRepo, nil, 5, nil)

	report, err := svc.Form(context.Background(), "Dormant FC")
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if report.League.Label != clubs.FormNotApplicable || report.Cup.Label != clubs.FormNotApplicable {
		t.Fatalf("expected Not applicable on both streams, got %+v", report)
	}
}
