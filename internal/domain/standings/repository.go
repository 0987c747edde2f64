package standings

import (
	"context"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

// Repository persists derived league tables. Tables are always written
// whole: a rebuild replaces the league's previous snapshot atomically so
// readers never observe a half-updated table.
type Repository interface {
	ReplaceForLeague(ctx context.Context, key match.LeagueKey, rows []Row) error
	ListForLeague(ctx context.Context, key match.LeagueKey) ([]Row, error)
}
