package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id", "home", "away").
		From("matches").
		Where(Eq("country", "England"), Eq("league", "Premier League")).
		OrderBy("start_timestamp NULLS LAST", "id").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id, home, away FROM matches" +
		" WHERE country = $1 AND league = $2" +
		" ORDER BY start_timestamp NULLS LAST, id LIMIT 50"
	if sql != want {
		t.Fatalf("got %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"England", "Premier League"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelect_RequiresTableAndColumns(t *testing.T) {
	t.Parallel()

	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error without a table")
	}
	if _, _, err := Select().From("matches").ToSQL(); err == nil {
		t.Fatal("expected error without columns")
	}
}

func TestIn(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id").
		From("matches").
		Where(In("status", []any{"finished", "live"})).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if want := "SELECT id FROM matches WHERE status IN ($1, $2)"; sql != want {
		t.Fatalf("got %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestIn_EmptyMatchesNothing(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id").From("matches").Where(In("status", nil)).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if want := "SELECT id FROM matches WHERE 1=0"; sql != want {
		t.Fatalf("got %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestInsert_MultiRowWithSuffix(t *testing.T) {
	t.Parallel()

	sql, args, err := InsertInto("club_profiles").
		Columns("name", "played").
		Values("United", 10).
		Values("City", 9).
		Suffix("ON CONFLICT (name) DO UPDATE SET played = EXCLUDED.played").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "INSERT INTO club_profiles (name, played) VALUES ($1, $2), ($3, $4)" +
		" ON CONFLICT (name) DO UPDATE SET played = EXCLUDED.played"
	if sql != want {
		t.Fatalf("got %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"United", 10, "City", 9}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsert_RejectsRaggedRows(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("club_profiles").
		Columns("name", "played").
		Values("United").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for row/column mismatch")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	sql, args, err := DeleteFrom("matches").Where(Eq("target_date", "2026-08-01")).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if want := "DELETE FROM matches WHERE target_date = $1"; sql != want {
		t.Fatalf("got %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"2026-08-01"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestDelete_RefusesUnconditional(t *testing.T) {
	t.Parallel()

	if _, _, err := DeleteFrom("matches").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}
