// Package memory holds map-backed repository implementations used in tests
// and for running the service without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

type datedKey struct {
	id   string
	date string
}

type MatchRepository struct {
	mu      sync.RWMutex
	entries map[datedKey]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{entries: make(map[datedKey]match.Match)}
}

func (r *MatchRepository) UpsertDated(_ context.Context, targetDate string, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range matches {
		if m.ID == "" {
			continue
		}
		r.entries[datedKey{id: m.ID, date: targetDate}] = m
	}
	return nil
}

func (r *MatchRepository) ListByDate(_ context.Context, targetDate string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for key, m := range r.entries {
		if key.date == targetDate {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListFinished(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.latestSnapshots() {
		if m.Status == match.StatusFinished {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListFinishedByLeague(_ context.Context, key match.LeagueKey) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.latestSnapshots() {
		if m.Status == match.StatusFinished && m.LeagueKey() == key {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

// latestSnapshots collapses per-date rows to the newest snapshot of each
// match, mirroring how the SQL reads resolve multi-day resyncs. Callers
// must hold at least the read lock.
func (r *MatchRepository) latestSnapshots() map[string]match.Match {
	latest := make(map[string]match.Match, len(r.entries))
	dates := make(map[string]string, len(r.entries))
	for key, m := range r.entries {
		if prev, ok := dates[key.id]; ok && prev >= key.date {
			continue
		}
		dates[key.id] = key.date
		latest[key.id] = m
	}
	return latest
}

func (r *MatchRepository) ListLeagues(_ context.Context) ([]match.LeagueKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[match.LeagueKey]struct{})
	for _, m := range r.entries {
		if m.League == "" {
			continue
		}
		seen[m.LeagueKey()] = struct{}{}
	}

	out := make([]match.LeagueKey, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].League < out[j].League
	})
	return out, nil
}

func (r *MatchRepository) DeleteByDate(_ context.Context, targetDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for key := range r.entries {
		if key.date == targetDate {
			delete(r.entries, key)
			removed++
		}
	}
	return removed, nil
}

// sortMatches orders by kickoff then ID so reads are deterministic across
// map iteration order.
func sortMatches(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].StartTimestamp, items[j].StartTimestamp
		if ti == nil || tj == nil {
			if ti == nil && tj == nil {
				return items[i].ID < items[j].ID
			}
			return ti != nil
		}
		if *ti != *tj {
			return *ti < *tj
		}
		return items[i].ID < items[j].ID
	})
}
