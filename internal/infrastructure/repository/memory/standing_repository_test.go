package memory

import (
	"context"
	"reflect"
	"testing"

	"github.com/pbarzyk/matchboard/internal/domain/clubs"
	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
)

func TestStandingRepository_ReplaceIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewStandingRepository()
	ctx := context.Background()
	key := match.LeagueKey{Country: "England", League: "Premier League"}

	rows := []standings.Row{
		{Position: 1, Team: "United", Played: 2, Points: 6},
		{Position: 2, Team: "City", Played: 2, Points: 3},
	}

	for i := 0; i < 3; i++ {
		if err := repo.ReplaceForLeague(ctx, key, rows); err != nil {
			t.Fatalf("ReplaceForLeague: %v", err)
		}
	}

	stored, err := repo.ListForLeague(ctx, key)
	if err != nil {
		t.Fatalf("ListForLeague: %v", err)
	}
	if !reflect.DeepEqual(stored, rows) {
		t.Fatalf("expected %+v, got %+v", rows, stored)
	}
}

func TestStandingRepository_ReplaceDropsStaleRows(t *testing.T) {
	t.Parallel()

	repo := NewStandingRepository()
	ctx := context.Background()
	key := match.LeagueKey{Country: "England", League: "Premier League"}

	if err := repo.ReplaceForLeague(ctx, key, []standings.Row{
		{Position: 1, Team: "United"},
		{Position: 2, Team: "Relegated FC"},
	}); err != nil {
		t.Fatalf("ReplaceForLeague: %v", err)
	}
	if err := repo.ReplaceForLeague(ctx, key, []standings.Row{
		{Position: 1, Team: "United"},
	}); err != nil {
		t.Fatalf("ReplaceForLeague: %v", err)
	}

	stored, err := repo.ListForLeague(ctx, key)
	if err != nil {
		t.Fatalf("ListForLeague: %v", err)
	}
	if len(stored) != 1 || stored[0].Team != "United" {
		t.Fatalf("stale rows survived replacement: %+v", stored)
	}
}

func TestClubRepository_UpsertAndGet(t *testing.T) {
	t.Parallel()

	repo := NewClubRepository()
	ctx := context.Background()

	if err := repo.UpsertProfiles(ctx, []clubs.Profile{
		{Name: "United", Played: 2, Wins: 2},
	}); err != nil {
		t.Fatalf("UpsertProfiles: %v", err)
	}
	if err := repo.UpsertProfiles(ctx, []clubs.Profile{
		{Name: "United", Played: 3, Wins: 2},
	}); err != nil {
		t.Fatalf("UpsertProfiles: %v", err)
	}

	profile, found, err := repo.GetProfile(ctx, "United")
	if err != nil || !found {
		t.Fatalf("GetProfile: found=%v err=%v", found, err)
	}
	if profile.Played != 3 {
		t.Fatalf("expected the upserted profile, got %+v", profile)
	}

	if _, found, err := repo.GetProfile(ctx, "Ghost FC"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}
}
