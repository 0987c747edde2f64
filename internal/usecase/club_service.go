package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pbarzyk/matchboard/internal/domain/clubs"
	"github.com/pbarzyk/matchboard/internal/domain/competition"
	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/platform/cache"
)

// ClubService serves cross-competition club profiles and rolling form.
// Profiles are read from the persisted aggregates maintained by ingestion;
// form is recomputed per request from the club's match history because it
// depends on the requested window.
type ClubService struct {
	matchRepo  match.Repository
	clubRepo   clubs.Repository
	classifier *competition.Classifier
	formWindow int
	profiles   *cache.Store[[]clubs.Profile]
}

func NewClubService(
	matchRepo match.Repository,
	clubRepo clubs.Repository,
	classifier *competition.Classifier,
	formWindow int,
	profiles *cache.Store[[]clubs.Profile],
) *ClubService {
	if classifier == nil {
		classifier = competition.NewClassifier(nil)
	}
	if formWindow <= 0 {
		formWindow = clubs.DefaultFormWindow
	}
	return &ClubService{
		matchRepo:  matchRepo,
		clubRepo:   clubRepo,
		classifier: classifier,
		formWindow: formWindow,
		profiles:   profiles,
	}
}

func (s *ClubService) ListProfiles(ctx context.Context) ([]clubs.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "ClubService.ListProfiles")
	defer span.End()

	load := func() ([]clubs.Profile, error) {
		items, err := s.clubRepo.ListProfiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("list club profiles: %w", err)
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		return items, nil
	}

	if s.profiles == nil {
		return load()
	}
	return s.profiles.GetOrLoad("clubs:all", load)
}

// SearchProfiles filters the profile list by a case- and accent-insensitive
// substring of the club name. An empty query returns everything.
func (s *ClubService) SearchProfiles(ctx context.Context, query string) ([]clubs.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "ClubService.SearchProfiles")
	defer span.End()

	items, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	needle := competition.Normalize(query)
	if needle == "" {
		return items, nil
	}

	matched := make([]clubs.Profile, 0, len(items))
	for _, p := range items {
		if strings.Contains(competition.Normalize(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *ClubService) GetProfile(ctx context.Context, name string) (clubs.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "ClubService.GetProfile")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return clubs.Profile{}, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}

	profile, found, err := s.clubRepo.GetProfile(ctx, name)
	if err != nil {
		return clubs.Profile{}, fmt.Errorf("get club profile: %w", err)
	}
	if !found {
		return clubs.Profile{}, fmt.Errorf("%w: club=%s", ErrNotFound, name)
	}
	return profile, nil
}

// Form splits the club's finished history into league and cup streams and
// scores the recent window of each.
func (s *ClubService) Form(ctx context.Context, name string) (clubs.FormReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ClubService.Form")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return clubs.FormReport{}, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}

	history, err := s.matchRepo.ListFinished(ctx)
	if err != nil {
		return clubs.FormReport{}, fmt.Errorf("list finished matches: %w", err)
	}

	report := clubs.ComputeForm(name, history, s.classifier, s.formWindow)
	if report.League.Matches == 0 && report.Cup.Matches == 0 {
		if _, found, err := s.clubRepo.GetProfile(ctx, name); err != nil {
			return clubs.FormReport{}, fmt.Errorf("get club profile: %w", err)
		} else if !found {
			return clubs.FormReport{}, fmt.Errorf("%w: club=%s", ErrNotFound, name)
		}
	}
	return report, nil
}
