package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pbarzyk/matchboard/internal/domain/competition"
	"github.com/pbarzyk/matchboard/internal/domain/match"
)

// DashboardService serves the read surfaces that are not a league table:
// the day schedule and the categorized cup index.
type DashboardService struct {
	matchRepo  match.Repository
	classifier *competition.Classifier
}

func NewDashboardService(matchRepo match.Repository, classifier *competition.Classifier) *DashboardService {
	if classifier == nil {
		classifier = competition.NewClassifier(nil)
	}
	return &DashboardService{matchRepo: matchRepo, classifier: classifier}
}

func (s *DashboardService) MatchesByDate(ctx context.Context, date string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "DashboardService.MatchesByDate")
	defer span.End()

	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list matches date=%s: %w", date, err)
	}
	return matches, nil
}

// MatchesByLeague lists a league's finished matches, oldest first.
func (s *DashboardService) MatchesByLeague(ctx context.Context, country, league string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "DashboardService.MatchesByLeague")
	defer span.End()

	country = strings.TrimSpace(country)
	league = strings.TrimSpace(league)
	if league == "" {
		return nil, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListFinishedByLeague(ctx, match.LeagueKey{Country: country, League: league})
	if err != nil {
		return nil, fmt.Errorf("list matches league=%s country=%s: %w", league, country, err)
	}
	return matches, nil
}

// ClassificationRules exposes the classifier's rule table. The table is
// data, not code, and clients reuse it to explain cup categorization.
func (s *DashboardService) ClassificationRules(ctx context.Context) []competition.Rule {
	_, span := startUsecaseSpan(ctx, "DashboardService.ClassificationRules")
	defer span.End()

	return s.classifier.Rules()
}

// CupEntry is one cup competition in the categorized index.
type CupEntry struct {
	Country  string               `json:"country"`
	League   string               `json:"league"`
	Category competition.Category `json:"category"`
	Priority int                  `json:"priority"`
}

// CupIndex lists every known cup-like competition grouped by category, most
// prestigious first within each category.
func (s *DashboardService) CupIndex(ctx context.Context) (map[competition.Category][]CupEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "DashboardService.CupIndex")
	defer span.End()

	keys, err := s.matchRepo.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	index := make(map[competition.Category][]CupEntry)
	for _, key := range keys {
		label := key.Country + ": " + key.League
		if !s.classifier.IsCup(label) {
			continue
		}
		category := s.classifier.Classify(label)
		index[category] = append(index[category], CupEntry{
			Country:  key.Country,
			League:   key.League,
			Category: category,
			Priority: s.classifier.Priority(label),
		})
	}

	for category := range index {
		entries := index[category]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Priority != entries[j].Priority {
				return entries[i].Priority < entries[j].Priority
			}
			return entries[i].League < entries[j].League
		})
		index[category] = entries
	}

	return index, nil
}
