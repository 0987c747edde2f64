// Package standings folds finished matches into a league table.
package standings

import (
	"sort"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

const formWindow = 5

// Row is one team's line in a league table. Form holds the last outcomes as
// a letter sequence ("WDLWW"), oldest first.
type Row struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Form           string `json:"form"`
}

// Compute builds a table from finished matches. Matches that are not
// finished, lack a team name, or miss either score are skipped whole; a
// half-counted match would corrupt the symmetry of the totals.
//
// Matches are folded in kickoff order, undated ones after all dated ones.
// Only Form depends on that order; the totals are plain sums.
func Compute(matches []match.Match) []Row {
	if len(matches) == 0 {
		return []Row{}
	}

	ordered := make([]match.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, iOK := ordered[i].StartTimestamp, ordered[i].StartTimestamp != nil
		tj, jOK := ordered[j].StartTimestamp, ordered[j].StartTimestamp != nil
		if !iOK || !jOK {
			return iOK && !jOK
		}
		return *ti < *tj
	})

	type tally struct {
		row  Row
		form []byte
	}
	table := make(map[string]*tally)
	teamOf := func(name string) *tally {
		t, ok := table[name]
		if !ok {
			t = &tally{row: Row{Team: name}}
			table[name] = t
		}
		return t
	}

	for _, m := range ordered {
		if !m.HasResult() || m.Home == "" || m.Away == "" {
			continue
		}

		home, away := teamOf(m.Home), teamOf(m.Away)
		hs, as := *m.HomeScore, *m.AwayScore

		home.row.Played++
		away.row.Played++
		home.row.GoalsFor += hs
		home.row.GoalsAgainst += as
		away.row.GoalsFor += as
		away.row.GoalsAgainst += hs

		switch {
		case hs > as:
			home.row.Wins++
			away.row.Losses++
			home.form = append(home.form, 'W')
			away.form = append(away.form, 'L')
		case hs < as:
			away.row.Wins++
			home.row.Losses++
			away.form = append(away.form, 'W')
			home.form = append(home.form, 'L')
		default:
			home.row.Draws++
			away.row.Draws++
			home.form = append(home.form, 'D')
			away.form = append(away.form, 'D')
		}

		if len(home.form) > formWindow {
			home.form = home.form[len(home.form)-formWindow:]
		}
		if len(away.form) > formWindow {
			away.form = away.form[len(away.form)-formWindow:]
		}
	}

	rows := make([]Row, 0, len(table))
	for _, t := range table {
		t.row.GoalDifference = t.row.GoalsFor - t.row.GoalsAgainst
		t.row.Points = t.row.Wins*3 + t.row.Draws
		t.row.Form = string(t.form)
		rows = append(rows, t.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})

	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows
}
