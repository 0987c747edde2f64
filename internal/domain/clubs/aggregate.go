// Package clubs derives cross-competition club profiles and rolling form
// from finished matches.
package clubs

import (
	"math"
	"sort"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

// Profile is one club's lifetime line across every competition it appears
// in. WinRate is a percentage rounded to two decimals.
type Profile struct {
	Name           string   `json:"name"`
	Played         int      `json:"played"`
	Wins           int      `json:"wins"`
	Draws          int      `json:"draws"`
	Losses         int      `json:"losses"`
	GoalsFor       int      `json:"goals_for"`
	GoalsAgainst   int      `json:"goals_against"`
	GoalDifference int      `json:"goal_difference"`
	WinRate        float64  `json:"win_rate"`
	Leagues        []string `json:"leagues"`
	Logo           string   `json:"logo,omitempty"`
}

// Aggregate folds finished matches into per-club profiles, keyed by club
// name. Both sides of every counted match are updated together.
//
// The input is re-sorted by kickoff internally (undated last) so the
// "latest non-empty logo" choice does not depend on caller ordering; the
// numeric totals are order-independent sums either way.
func Aggregate(matches []match.Match) map[string]Profile {
	ordered := make([]match.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].StartTimestamp, ordered[j].StartTimestamp
		if ti == nil || tj == nil {
			return ti != nil && tj == nil
		}
		return *ti < *tj
	})

	type tally struct {
		profile Profile
		leagues map[string]struct{}
	}
	table := make(map[string]*tally)
	clubOf := func(name string) *tally {
		t, ok := table[name]
		if !ok {
			t = &tally{profile: Profile{Name: name}, leagues: make(map[string]struct{})}
			table[name] = t
		}
		return t
	}

	for _, m := range ordered {
		if !m.HasResult() || m.Home == "" || m.Away == "" {
			continue
		}

		home, away := clubOf(m.Home), clubOf(m.Away)
		hs, as := *m.HomeScore, *m.AwayScore

		home.profile.Played++
		away.profile.Played++
		home.profile.GoalsFor += hs
		home.profile.GoalsAgainst += as
		away.profile.GoalsFor += as
		away.profile.GoalsAgainst += hs

		switch {
		case hs > as:
			home.profile.Wins++
			away.profile.Losses++
		case hs < as:
			away.profile.Wins++
			home.profile.Losses++
		default:
			home.profile.Draws++
			away.profile.Draws++
		}

		if m.League != "" {
			home.leagues[m.League] = struct{}{}
			away.leagues[m.League] = struct{}{}
		}
		if m.HomeLogo != "" {
			home.profile.Logo = m.HomeLogo
		}
		if m.AwayLogo != "" {
			away.profile.Logo = m.AwayLogo
		}
	}

	out := make(map[string]Profile, len(table))
	for name, t := range table {
		p := t.profile
		p.GoalDifference = p.GoalsFor - p.GoalsAgainst
		if p.Played > 0 {
			p.WinRate = math.Round(float64(p.Wins)/float64(p.Played)*100*100) / 100
		}
		p.Leagues = make([]string, 0, len(t.leagues))
		for league := range t.leagues {
			p.Leagues = append(p.Leagues, league)
		}
		sort.Strings(p.Leagues)
		out[name] = p
	}

	return out
}
