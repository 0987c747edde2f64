package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pbarzyk/matchboard/internal/domain/clubs"
)

type ClubRepository struct {
	mu       sync.RWMutex
	profiles map[string]clubs.Profile
}

func NewClubRepository() *ClubRepository {
	return &ClubRepository{profiles: make(map[string]clubs.Profile)}
}

func (r *ClubRepository) UpsertProfiles(_ context.Context, profiles []clubs.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range profiles {
		if p.Name == "" {
			continue
		}
		r.profiles[p.Name] = p
	}
	return nil
}

func (r *ClubRepository) GetProfile(_ context.Context, name string) (clubs.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[name]
	return p, ok, nil
}

func (r *ClubRepository) ListProfiles(_ context.Context) ([]clubs.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clubs.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
