package postgres

import (
	"database/sql"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

type matchTableModel struct {
	ID              string         `db:"id"`
	TargetDate      string         `db:"target_date"`
	StartTimestamp  sql.NullInt64  `db:"start_timestamp"`
	StartTimeUTC    sql.NullString `db:"start_time_utc"`
	StatusCode      string         `db:"status_code"`
	Status          string         `db:"status"`
	League          string         `db:"league"`
	Country         string         `db:"country"`
	CompetitionPath sql.NullString `db:"competition_path"`
	Home            string         `db:"home"`
	Away            string         `db:"away"`
	HomeScore       sql.NullInt32  `db:"home_score"`
	AwayScore       sql.NullInt32  `db:"away_score"`
	HomeScoreHT     sql.NullInt32  `db:"home_score_ht"`
	AwayScoreHT     sql.NullInt32  `db:"away_score_ht"`
	HomeLogo        sql.NullString `db:"home_logo"`
	AwayLogo        sql.NullString `db:"away_logo"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:              m.ID,
		StartTimestamp:  nullInt64Ptr(m.StartTimestamp),
		StartTimeUTC:    m.StartTimeUTC.String,
		StatusCode:      m.StatusCode,
		Status:          match.Status(m.Status),
		League:          m.League,
		Country:         m.Country,
		CompetitionPath: m.CompetitionPath.String,
		Home:            m.Home,
		Away:            m.Away,
		HomeScore:       nullInt32Ptr(m.HomeScore),
		AwayScore:       nullInt32Ptr(m.AwayScore),
		HomeScoreHT:     nullInt32Ptr(m.HomeScoreHT),
		AwayScoreHT:     nullInt32Ptr(m.AwayScoreHT),
		HomeLogo:        m.HomeLogo.String,
		AwayLogo:        m.AwayLogo.String,
	}
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	value := v.Int64
	return &value
}

func nullInt32Ptr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	value := int(v.Int32)
	return &value
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
