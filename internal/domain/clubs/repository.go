package clubs

import "context"

// Repository persists derived club profiles keyed by club name.
type Repository interface {
	UpsertProfiles(ctx context.Context, profiles []Profile) error
	GetProfile(ctx context.Context, name string) (Profile, bool, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
}
