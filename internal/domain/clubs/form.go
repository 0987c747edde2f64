package clubs

import (
	"math"
	"sort"

	"github.com/pbarzyk/matchboard/internal/domain/competition"
	"github.com/pbarzyk/matchboard/internal/domain/match"
)

const DefaultFormWindow = 5

type FormLabel string

const (
	FormExcellent     FormLabel = "Excellent"
	FormGood          FormLabel = "Good"
	FormAverage       FormLabel = "Average"
	FormDifficult     FormLabel = "Difficult"
	FormCritical      FormLabel = "Critical"
	FormNotApplicable FormLabel = "Not applicable"
)

// FormSummary scores a club's last results in one competition stream.
type FormSummary struct {
	Matches      int       `json:"matches"`
	Points       int       `json:"points"`
	AvgPoints    float64   `json:"avg_points"`
	PercentOfMax float64   `json:"percent_of_max"`
	Label        FormLabel `json:"label"`
	Results      string    `json:"results"`
	Window       int       `json:"window"`
}

// FormReport carries the two independent streams. League and cup results
// are never blended; they differ too much in frequency and stakes.
type FormReport struct {
	Club   string      `json:"club"`
	League FormSummary `json:"league_form"`
	Cup    FormSummary `json:"cup_form"`
}

// ComputeForm builds the rolling form for one club from its finished
// matches. The classifier splits the history into league and cup streams;
// each stream is scored over its own last `window` results.
func ComputeForm(club string, history []match.Match, classifier *competition.Classifier, window int) FormReport {
	if window <= 0 {
		window = DefaultFormWindow
	}
	if classifier == nil {
		classifier = competition.NewClassifier(nil)
	}

	ordered := make([]match.Match, 0, len(history))
	for _, m := range history {
		if m.HasResult() && (m.Home == club || m.Away == club) {
			ordered = append(ordered, m)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].StartTimestamp, ordered[j].StartTimestamp
		if ti == nil || tj == nil {
			return ti != nil && tj == nil
		}
		return *ti < *tj
	})

	var league, cup []match.Match
	for _, m := range ordered {
		if classifier.IsCup(m.Country + ": " + m.League) {
			cup = append(cup, m)
		} else {
			league = append(league, m)
		}
	}

	return FormReport{
		Club:   club,
		League: summarize(club, league, window),
		Cup:    summarize(club, cup, window),
	}
}

func summarize(club string, stream []match.Match, window int) FormSummary {
	if len(stream) > window {
		stream = stream[len(stream)-window:]
	}

	summary := FormSummary{Window: window, Label: FormNotApplicable}
	if len(stream) == 0 {
		return summary
	}

	results := make([]byte, 0, len(stream))
	for _, m := range stream {
		scored, conceded := *m.HomeScore, *m.AwayScore
		if m.Away == club {
			scored, conceded = conceded, scored
		}
		switch {
		case scored > conceded:
			summary.Points += 3
			results = append(results, 'W')
		case scored == conceded:
			summary.Points++
			results = append(results, 'D')
		default:
			results = append(results, 'L')
		}
	}

	summary.Matches = len(stream)
	summary.Results = string(results)
	summary.AvgPoints = round2(float64(summary.Points) / float64(summary.Matches))
	summary.PercentOfMax = round2(float64(summary.Points) / float64(summary.Matches*3) * 100)
	summary.Label = labelFor(summary.PercentOfMax)
	return summary
}

func labelFor(percent float64) FormLabel {
	switch {
	case percent >= 80:
		return FormExcellent
	case percent >= 60:
		return FormGood
	case percent >= 40:
		return FormAverage
	case percent >= 20:
		return FormDifficult
	default:
		return FormCritical
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
