package match

import "time"

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusLive       Status = "live"
	StatusFinished   Status = "finished"
	StatusUnknown    Status = "unknown"
)

// StatusFromCode maps the feed's numeric stage codes onto coarse states.
// Codes outside the known set are preserved on the match as-is but reported
// as unknown.
func StatusFromCode(code string) Status {
	switch code {
	case "1":
		return StatusNotStarted
	case "2":
		return StatusLive
	case "3":
		return StatusFinished
	default:
		return StatusUnknown
	}
}

// Match is one fixture as decoded from the feed. Score pointers are nil when
// the feed omitted the field or carried a non-numeric placeholder.
type Match struct {
	ID string `json:"id"`

	StartTimestamp *int64 `json:"start_timestamp,omitempty"`
	StartTimeUTC   string `json:"start_time_utc,omitempty"`

	StatusCode string `json:"status_code"`
	Status     Status `json:"status"`

	League          string `json:"league"`
	Country         string `json:"country"`
	CompetitionPath string `json:"competition_path,omitempty"`

	Home string `json:"home"`
	Away string `json:"away"`

	HomeScore   *int `json:"home_score"`
	AwayScore   *int `json:"away_score"`
	HomeScoreHT *int `json:"home_score_ht,omitempty"`
	AwayScoreHT *int `json:"away_score_ht,omitempty"`

	HomeLogo string `json:"home_logo,omitempty"`
	AwayLogo string `json:"away_logo,omitempty"`
}

// HasResult reports whether the match counts toward tables and aggregates:
// finished with both full-time scores present. A finished match missing
// either score is excluded everywhere results are folded.
func (m Match) HasResult() bool {
	return m.Status == StatusFinished && m.HomeScore != nil && m.AwayScore != nil
}

// StartTime returns the kickoff time when the feed carried a timestamp.
func (m Match) StartTime() (time.Time, bool) {
	if m.StartTimestamp == nil {
		return time.Time{}, false
	}
	return time.Unix(*m.StartTimestamp, 0).UTC(), true
}

// LeagueKey identifies a league scope: feeds name leagues per country, so
// the pair is the unit standings are computed over.
type LeagueKey struct {
	Country string `json:"country"`
	League  string `json:"league"`
}

func (m Match) LeagueKey() LeagueKey {
	return LeagueKey{Country: m.Country, League: m.League}
}
