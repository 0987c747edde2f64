package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
	"github.com/pbarzyk/matchboard/internal/platform/cache"
)

// StandingsService computes league tables on demand from stored finished
// matches. Tables are pure functions of the match set, so a short-lived
// cache in front of the fold is safe.
type StandingsService struct {
	matchRepo match.Repository
	tables    *cache.Store[[]standings.Row]
}

func NewStandingsService(matchRepo match.Repository, tables *cache.Store[[]standings.Row]) *StandingsService {
	return &StandingsService{matchRepo: matchRepo, tables: tables}
}

func (s *StandingsService) TableForLeague(ctx context.Context, country, league string) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "StandingsService.TableForLeague")
	defer span.End()

	country = strings.TrimSpace(country)
	league = strings.TrimSpace(league)
	if league == "" {
		return nil, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	key := match.LeagueKey{Country: country, League: league}

	compute := func() ([]standings.Row, error) {
		matches, err := s.matchRepo.ListFinishedByLeague(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("list finished matches: %w", err)
		}
		if len(matches) == 0 {
			known, err := s.leagueKnown(ctx, key)
			if err != nil {
				return nil, err
			}
			if !known {
				return nil, fmt.Errorf("%w: league=%s country=%s", ErrNotFound, league, country)
			}
		}
		return standings.Compute(matches), nil
	}

	if s.tables == nil {
		return compute()
	}
	return s.tables.GetOrLoad("standings:"+country+"|"+league, compute)
}

func (s *StandingsService) Leagues(ctx context.Context) ([]match.LeagueKey, error) {
	ctx, span := startUsecaseSpan(ctx, "StandingsService.Leagues")
	defer span.End()

	keys, err := s.matchRepo.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return keys, nil
}

func (s *StandingsService) leagueKnown(ctx context.Context, key match.LeagueKey) (bool, error) {
	keys, err := s.matchRepo.ListLeagues(ctx)
	if err != nil {
		return false, fmt.Errorf("list leagues: %w", err)
	}
	for _, k := range keys {
		if k == key {
			return true, nil
		}
	}
	return false, nil
}
