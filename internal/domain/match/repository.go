package match

import "context"

// Repository is the persistence port for decoded fixtures.
//
// Dated writes key on (id, target_date) so re-ingesting a day replaces that
// day's snapshot without touching others; reads that feed the standings and
// club engines pull finished matches only.
type Repository interface {
	UpsertDated(ctx context.Context, targetDate string, matches []Match) error
	ListByDate(ctx context.Context, targetDate string) ([]Match, error)
	ListFinished(ctx context.Context) ([]Match, error)
	ListFinishedByLeague(ctx context.Context, key LeagueKey) ([]Match, error)
	ListLeagues(ctx context.Context) ([]LeagueKey, error)
	DeleteByDate(ctx context.Context, targetDate string) (int64, error)
}
