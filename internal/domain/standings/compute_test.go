package standings

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func finished(ts int64, home, away string, hs, as int) match.Match {
	return match.Match{
		ID:             home + "-" + away,
		StartTimestamp: int64Ptr(ts),
		Status:         match.StatusFinished,
		Home:           home,
		Away:           away,
		HomeScore:      intPtr(hs),
		AwayScore:      intPtr(as),
	}
}

func TestCompute_ThreeMatchScenario(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		finished(100, "Home", "Away", 2, 1),
		finished(200, "Away", "Third", 0, 0),
		finished(300, "Third", "Home", 1, 3),
	}

	rows := Compute(matches)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Team != "Home" || rows[0].Points != 6 {
		t.Fatalf("expected Home first with 6 points, got %s with %d", rows[0].Team, rows[0].Points)
	}
	if rows[0].Position != 1 {
		t.Fatalf("expected position 1, got %d", rows[0].Position)
	}

	// Away and Third both have 1 point; Away is 1-2 (GD -1), Third 1-3 (GD -2).
	if rows[1].Team != "Away" || rows[2].Team != "Third" {
		t.Fatalf("expected Away then Third, got %s then %s", rows[1].Team, rows[2].Team)
	}
	if rows[1].GoalDifference <= rows[2].GoalDifference {
		t.Fatalf("expected goal difference to break the tie: %d vs %d", rows[1].GoalDifference, rows[2].GoalDifference)
	}
}

func TestCompute_SymmetricTotals(t *testing.T) {
	t.Parallel()

	rows := Compute([]match.Match{finished(1, "A", "B", 4, 0)})

	var a, b Row
	for _, row := range rows {
		switch row.Team {
		case "A":
			a = row
		case "B":
			b = row
		}
	}

	if a.Wins != 1 || b.Losses != 1 {
		t.Fatalf("expected complementary outcome, got A.Wins=%d B.Losses=%d", a.Wins, b.Losses)
	}
	if a.GoalsFor != b.GoalsAgainst || a.GoalsAgainst != b.GoalsFor {
		t.Fatal("goal totals are not mirrored")
	}
}

func TestCompute_OrderInvarianceOfTotals(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		finished(10, "A", "B", 1, 0),
		finished(20, "B", "C", 2, 2),
		finished(30, "C", "A", 0, 1),
		finished(40, "A", "B", 3, 3),
		finished(50, "B", "C", 1, 0),
	}

	want := Compute(matches)

	rng := rand.New(rand.NewSource(42))
	for range 10 {
		shuffled := make([]match.Match, len(matches))
		copy(shuffled, matches)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if got := Compute(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffled input changed the table:\ngot  %+v\nwant %+v", got, want)
		}
	}
}

func TestCompute_Idempotence(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		finished(10, "A", "B", 2, 1),
		finished(20, "B", "A", 1, 1),
	}

	first := Compute(matches)
	second := Compute(matches)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated computation diverged")
	}
}

func TestCompute_TieBreakAlphabetical(t *testing.T) {
	t.Parallel()

	// Two fully identical records, order of appearance reversed.
	matches := []match.Match{
		finished(10, "Zeta", "Other", 1, 0),
		finished(20, "Alpha", "Another", 1, 0),
	}

	rows := Compute(matches)
	if rows[0].Team != "Alpha" || rows[1].Team != "Zeta" {
		t.Fatalf("expected alphabetical tie-break, got %s then %s", rows[0].Team, rows[1].Team)
	}
}

func TestCompute_FormWindowAndOrder(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		finished(1, "A", "B", 1, 0), // W
		finished(2, "A", "B", 0, 1), // L
		finished(3, "A", "B", 2, 2), // D
		finished(4, "A", "B", 3, 0), // W
		finished(5, "A", "B", 1, 0), // W
		finished(6, "A", "B", 0, 2), // L
	}

	rows := Compute(matches)
	var a Row
	for _, row := range rows {
		if row.Team == "A" {
			a = row
		}
	}

	// Six results, window keeps the last five, oldest first.
	if a.Form != "LDWWL" {
		t.Fatalf("expected form LDWWL, got %q", a.Form)
	}
}

func TestCompute_UndatedMatchesFoldLast(t *testing.T) {
	t.Parallel()

	undated := finished(0, "A", "B", 1, 0)
	undated.StartTimestamp = nil

	matches := []match.Match{
		undated,                     // W, but folds after the dated losses
		finished(1, "A", "B", 0, 1), // L
		finished(2, "A", "B", 0, 1), // L
	}

	rows := Compute(matches)
	var a Row
	for _, row := range rows {
		if row.Team == "A" {
			a = row
		}
	}
	if a.Form != "LLW" {
		t.Fatalf("expected undated result last in form, got %q", a.Form)
	}
}

func TestCompute_SkipsIncompleteMatches(t *testing.T) {
	t.Parallel()

	noScore := match.Match{
		ID:             "x",
		StartTimestamp: int64Ptr(5),
		Status:         match.StatusFinished,
		Home:           "A",
		Away:           "B",
		HomeScore:      nil,
		AwayScore:      intPtr(2),
	}
	live := finished(6, "A", "B", 1, 1)
	live.Status = match.StatusLive
	unnamed := finished(7, "", "B", 1, 0)

	rows := Compute([]match.Match{noScore, live, unnamed})
	if len(rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(rows))
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	t.Parallel()

	if rows := Compute(nil); len(rows) != 0 {
		t.Fatalf("expected empty output, got %d rows", len(rows))
	}
}
