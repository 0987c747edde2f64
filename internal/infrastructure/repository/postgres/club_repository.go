package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pbarzyk/matchboard/internal/domain/clubs"
	qb "github.com/pbarzyk/matchboard/internal/platform/querybuilder"
)

type clubTableModel struct {
	Name           string         `db:"name"`
	Played         int            `db:"played"`
	Wins           int            `db:"wins"`
	Draws          int            `db:"draws"`
	Losses         int            `db:"losses"`
	GoalsFor       int            `db:"goals_for"`
	GoalsAgainst   int            `db:"goals_against"`
	GoalDifference int            `db:"goal_difference"`
	WinRate        float64        `db:"win_rate"`
	Leagues        pq.StringArray `db:"leagues"`
	Logo           sql.NullString `db:"logo"`
}

func (m clubTableModel) toDomain() clubs.Profile {
	return clubs.Profile{
		Name:           m.Name,
		Played:         m.Played,
		Wins:           m.Wins,
		Draws:          m.Draws,
		Losses:         m.Losses,
		GoalsFor:       m.GoalsFor,
		GoalsAgainst:   m.GoalsAgainst,
		GoalDifference: m.GoalDifference,
		WinRate:        m.WinRate,
		Leagues:        []string(m.Leagues),
		Logo:           m.Logo.String,
	}
}

var clubColumns = []string{
	"name", "played", "wins", "draws", "losses", "goals_for",
	"goals_against", "goal_difference", "win_rate", "leagues", "logo",
}

const clubUpsertSuffix = `ON CONFLICT (name) DO UPDATE SET
	played = EXCLUDED.played,
	wins = EXCLUDED.wins,
	draws = EXCLUDED.draws,
	losses = EXCLUDED.losses,
	goals_for = EXCLUDED.goals_for,
	goals_against = EXCLUDED.goals_against,
	goal_difference = EXCLUDED.goal_difference,
	win_rate = EXCLUDED.win_rate,
	leagues = EXCLUDED.leagues,
	logo = EXCLUDED.logo,
	updated_at = NOW()`

// clubUpsertChunkSize keeps batches under the parameter cap at 11 columns
// per row.
const clubUpsertChunkSize = 1000

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) UpsertProfiles(ctx context.Context, profiles []clubs.Profile) error {
	for start := 0; start < len(profiles); start += clubUpsertChunkSize {
		end := min(start+clubUpsertChunkSize, len(profiles))
		if err := r.upsertChunk(ctx, profiles[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ClubRepository) upsertChunk(ctx context.Context, profiles []clubs.Profile) error {
	builder := qb.InsertInto("club_profiles").Columns(clubColumns...).Suffix(clubUpsertSuffix)

	rows := 0
	for _, p := range profiles {
		if p.Name == "" {
			continue
		}
		builder.Values(
			p.Name, p.Played, p.Wins, p.Draws, p.Losses, p.GoalsFor,
			p.GoalsAgainst, p.GoalDifference, p.WinRate,
			pq.StringArray(p.Leagues), nullableString(p.Logo),
		)
		rows++
	}
	if rows == 0 {
		return nil
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert clubs query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert club profiles: %w", err)
	}
	return nil
}

func (r *ClubRepository) GetProfile(ctx context.Context, name string) (clubs.Profile, bool, error) {
	query, args, err := qb.Select(clubColumns...).From("club_profiles").
		Where(qb.Eq("name", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return clubs.Profile{}, false, fmt.Errorf("build get club query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return clubs.Profile{}, false, nil
		}
		return clubs.Profile{}, false, fmt.Errorf("get club profile name=%s: %w", name, err)
	}
	return row.toDomain(), true, nil
}

func (r *ClubRepository) ListProfiles(ctx context.Context) ([]clubs.Profile, error) {
	query, args, err := qb.Select(clubColumns...).From("club_profiles").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list club profiles: %w", err)
	}

	out := make([]clubs.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
