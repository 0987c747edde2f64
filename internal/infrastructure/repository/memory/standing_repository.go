package memory

import (
	"context"
	"sync"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
)

type StandingRepository struct {
	mu     sync.RWMutex
	tables map[match.LeagueKey][]standings.Row
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{tables: make(map[match.LeagueKey][]standings.Row)}
}

func (r *StandingRepository) ReplaceForLeague(_ context.Context, key match.LeagueKey, rows []standings.Row) error {
	snapshot := make([]standings.Row, len(rows))
	copy(snapshot, rows)

	r.mu.Lock()
	r.tables[key] = snapshot
	r.mu.Unlock()
	return nil
}

func (r *StandingRepository) ListForLeague(_ context.Context, key match.LeagueKey) ([]standings.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.tables[key]
	out := make([]standings.Row, len(rows))
	copy(out, rows)
	return out, nil
}
