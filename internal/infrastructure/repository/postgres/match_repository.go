// Package postgres holds the sqlx-backed repositories. Writes are
// idempotent upserts so re-running an ingestion pass converges instead of
// duplicating rows.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	qb "github.com/pbarzyk/matchboard/internal/platform/querybuilder"
)

// upsertChunkSize keeps multi-row inserts under postgres' 65535 parameter
// cap; 17 columns per row leaves ample margin at 500 rows.
const upsertChunkSize = 500

var matchColumns = []string{
	"id", "target_date", "start_timestamp", "start_time_utc",
	"status_code", "status", "league", "country", "competition_path",
	"home", "away", "home_score", "away_score", "home_score_ht",
	"away_score_ht", "home_logo", "away_logo",
}

const matchUpsertSuffix = `ON CONFLICT (id, target_date) DO UPDATE SET
	start_timestamp = EXCLUDED.start_timestamp,
	start_time_utc = EXCLUDED.start_time_utc,
	status_code = EXCLUDED.status_code,
	status = EXCLUDED.status,
	league = EXCLUDED.league,
	country = EXCLUDED.country,
	competition_path = EXCLUDED.competition_path,
	home = EXCLUDED.home,
	away = EXCLUDED.away,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	home_score_ht = EXCLUDED.home_score_ht,
	away_score_ht = EXCLUDED.away_score_ht,
	home_logo = EXCLUDED.home_logo,
	away_logo = EXCLUDED.away_logo,
	updated_at = NOW()`

// latestFinishedSQL dedupes matches that appear on several target dates:
// the most recent snapshot of each id wins, then finished rows are kept.
const latestFinishedSQL = `
SELECT id, target_date, start_timestamp, start_time_utc, status_code, status,
       league, country, competition_path, home, away, home_score, away_score,
       home_score_ht, away_score_ht, home_logo, away_logo
FROM (
    SELECT DISTINCT ON (id) *
    FROM matches
    ORDER BY id, target_date DESC
) latest
WHERE status = 'finished'`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertDated(ctx context.Context, targetDate string, matches []match.Match) error {
	for start := 0; start < len(matches); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(matches))
		if err := r.upsertChunk(ctx, targetDate, matches[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *MatchRepository) upsertChunk(ctx context.Context, targetDate string, matches []match.Match) error {
	builder := qb.InsertInto("matches").Columns(matchColumns...).Suffix(matchUpsertSuffix)

	rows := 0
	for _, m := range matches {
		if m.ID == "" {
			continue
		}
		builder.Values(
			m.ID, targetDate, nullableInt64(m.StartTimestamp), nullableString(m.StartTimeUTC),
			m.StatusCode, string(m.Status), m.League, m.Country, nullableString(m.CompetitionPath),
			m.Home, m.Away, nullableInt(m.HomeScore), nullableInt(m.AwayScore),
			nullableInt(m.HomeScoreHT), nullableInt(m.AwayScoreHT),
			nullableString(m.HomeLogo), nullableString(m.AwayLogo),
		)
		rows++
	}
	if rows == 0 {
		return nil
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert matches query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert matches date=%s: %w", targetDate, err)
	}
	return nil
}

func (r *MatchRepository) ListByDate(ctx context.Context, targetDate string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("target_date", targetDate)).
		OrderBy("start_timestamp NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches date=%s: %w", targetDate, err)
	}
	return toDomainMatches(rows), nil
}

func (r *MatchRepository) ListFinished(ctx context.Context) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, latestFinishedSQL+" ORDER BY start_timestamp NULLS LAST, id"); err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}
	return toDomainMatches(rows), nil
}

func (r *MatchRepository) ListFinishedByLeague(ctx context.Context, key match.LeagueKey) ([]match.Match, error) {
	query := latestFinishedSQL + " AND country = $1 AND league = $2 ORDER BY start_timestamp NULLS LAST, id"

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, key.Country, key.League); err != nil {
		return nil, fmt.Errorf("list finished matches league=%s: %w", key.League, err)
	}
	return toDomainMatches(rows), nil
}

func (r *MatchRepository) ListLeagues(ctx context.Context) ([]match.LeagueKey, error) {
	const query = `SELECT DISTINCT country, league FROM matches WHERE league <> '' ORDER BY country, league`

	var rows []struct {
		Country string `db:"country"`
		League  string `db:"league"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]match.LeagueKey, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.LeagueKey{Country: row.Country, League: row.League})
	}
	return out, nil
}

func (r *MatchRepository) DeleteByDate(ctx context.Context, targetDate string) (int64, error) {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("target_date", targetDate)).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete matches query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete matches date=%s: %w", targetDate, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted matches: %w", err)
	}
	return affected, nil
}

func toDomainMatches(rows []matchTableModel) []match.Match {
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
