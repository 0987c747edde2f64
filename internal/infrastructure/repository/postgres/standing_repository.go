package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/domain/standings"
	qb "github.com/pbarzyk/matchboard/internal/platform/querybuilder"
)

type standingTableModel struct {
	Country        string `db:"country"`
	League         string `db:"league"`
	Position       int    `db:"position"`
	Team           string `db:"team"`
	Played         int    `db:"played"`
	Wins           int    `db:"wins"`
	Draws          int    `db:"draws"`
	Losses         int    `db:"losses"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
	GoalDifference int    `db:"goal_difference"`
	Points         int    `db:"points"`
	Form           string `db:"form"`
}

var standingColumns = []string{
	"country", "league", "position", "team", "played", "wins", "draws",
	"losses", "goals_for", "goals_against", "goal_difference", "points", "form",
}

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

// ReplaceForLeague swaps the league's table in one transaction so readers
// never see a mix of old and new rows.
func (r *StandingRepository) ReplaceForLeague(ctx context.Context, key match.LeagueKey, rows []standings.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("league_standings").
		Where(qb.Eq("country", key.Country), qb.Eq("league", key.League)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings league=%s: %w", key.League, err)
	}

	if len(rows) > 0 {
		builder := qb.InsertInto("league_standings").Columns(standingColumns...)
		for _, row := range rows {
			builder.Values(
				key.Country, key.League, row.Position, row.Team, row.Played,
				row.Wins, row.Draws, row.Losses, row.GoalsFor, row.GoalsAgainst,
				row.GoalDifference, row.Points, row.Form,
			)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standings league=%s: %w", key.League, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings: %w", err)
	}
	return nil
}

func (r *StandingRepository) ListForLeague(ctx context.Context, key match.LeagueKey) ([]standings.Row, error) {
	query, args, err := qb.Select(standingColumns...).From("league_standings").
		Where(qb.Eq("country", key.Country), qb.Eq("league", key.League)).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings league=%s: %w", key.League, err)
	}

	out := make([]standings.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.Row{
			Position:       row.Position,
			Team:           row.Team,
			Played:         row.Played,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Form:           row.Form,
		})
	}
	return out, nil
}
