package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/infrastructure/repository/memory"
	"github.com/pbarzyk/matchboard/internal/platform/logging"
)

type stubFetcher struct {
	payloads map[string]string
	failOn   map[string]error
	calls    []string
}

func (f *stubFetcher) FetchDate(_ context.Context, target time.Time) (string, error) {
	date := target.Format(dateLayout)
	f.calls = append(f.calls, date)
	if err, ok := f.failOn[date]; ok {
		return "", err
	}
	return f.payloads[date], nil
}

type stubDecoder struct{}

// DecodeAll parses the trimmed test payload format "id|home|away|score".
func (stubDecoder) DecodeAll(raw string) []match.Match {
	var out []match.Match
	for _, line := range strings.Split(raw, "\n") {
		parts := strings.Split(strings.TrimSpace(line), "|")
		if len(parts) != 4 {
			continue
		}
		m := match.Match{
			ID:      parts[0],
			Home:    parts[1],
			Away:    parts[2],
			League:  "Test League",
			Country: "Testland",
		}
		var hs, as int
		if _, err := fmt.Sscanf(parts[3], "%d-%d", &hs, &as); err == nil {
			m.Status = match.StatusFinished
			m.HomeScore, m.AwayScore = &hs, &as
		} else {
			m.Status = match.StatusNotStarted
		}
		out = append(out, m)
	}
	return out
}

func newTestIngestion(t *testing.T, fetcher *stubFetcher) (*IngestionService, *memory.MatchRepository, *memory.StandingRepository, *memory.ClubRepository) {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	standingRepo := memory.NewStandingRepository()
	clubRepo := memory.NewClubRepository()

	svc := NewIngestionService(fetcher, stubDecoder{}, matchRepo, standingRepo, clubRepo, logging.NewNop(), IngestionConfig{
		SyncWorkers:    2,
		RebuildWorkers: 2,
	})
	return svc, matchRepo, standingRepo, clubRepo
}

func TestSyncDay_StoresDecodedMatches(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{payloads: map[string]string{
		"2026-08-01": "m1|United|City|2-1\nm2|Rovers|Town|scheduled",
	}}
	svc, matchRepo, _, _ := newTestIngestion(t, fetcher)

	report, err := svc.SyncDay(context.Background(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SyncDay: %v", err)
	}
	if report.Decoded != 2 || report.Finished != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	stored, err := matchRepo.ListByDate(context.Background(), "2026-08-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored matches, got %d", len(stored))
	}
}

func TestSyncDay_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{payloads: map[string]string{
		"2026-08-01": "m1|United|City|2-1",
	}}
	svc, matchRepo, _, _ := newTestIngestion(t, fetcher)

	ctx := context.Background()
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for range 3 {
		if _, err := svc.SyncDay(ctx, day); err != nil {
			t.Fatalf("SyncDay: %v", err)
		}
	}

	stored, err := matchRepo.ListByDate(ctx, "2026-08-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("repeated syncs must converge to one row, got %d", len(stored))
	}
}

func TestSyncWindow_ReportsPerDayFailures(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{
		payloads: map[string]string{
			"2026-08-01": "m1|United|City|2-1",
			"2026-08-03": "m3|Town|Rovers|0-0",
		},
		failOn: map[string]error{
			"2026-08-02": errors.New("upstream 503"),
		},
	}
	svc, _, _, _ := newTestIngestion(t, fetcher)

	report, err := svc.SyncWindow(context.Background(),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SyncWindow: %v", err)
	}

	if report.Synced != 2 || report.Failed != 1 {
		t.Fatalf("expected 2 synced / 1 failed, got %+v", report)
	}
	if len(report.Days) != 3 {
		t.Fatalf("expected 3 day reports, got %d", len(report.Days))
	}
	if report.Days[1].Date != "2026-08-02" || report.Days[1].Error == "" {
		t.Fatalf("expected failure recorded for the middle day, got %+v", report.Days[1])
	}
	if report.Matches != 2 {
		t.Fatalf("expected 2 matches counted, got %d", report.Matches)
	}
}

func TestSyncWindow_RejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestIngestion(t, &stubFetcher{})

	_, err := svc.SyncWindow(context.Background(),
		time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRebuildAggregates_PersistsTablesAndProfiles(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{payloads: map[string]string{
		"2026-08-01": "m1|United|City|2-0\nm2|City|Rovers|1-1",
	}}
	svc, _, standingRepo, clubRepo := newTestIngestion(t, fetcher)

	ctx := context.Background()
	if _, err := svc.SyncDay(ctx, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SyncDay: %v", err)
	}

	report, err := svc.RebuildAggregates(ctx)
	if err != nil {
		t.Fatalf("RebuildAggregates: %v", err)
	}
	if report.Leagues != 1 || report.Clubs != 3 || report.Matches != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	rows, err := standingRepo.ListForLeague(ctx, match.LeagueKey{Country: "Testland", League: "Test League"})
	if err != nil {
		t.Fatalf("ListForLeague: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 standings rows, got %d", len(rows))
	}
	if rows[0].Team != "United" || rows[0].Points != 3 {
		t.Fatalf("expected United on top with 3 points, got %+v", rows[0])
	}

	profile, found, err := clubRepo.GetProfile(ctx, "City")
	if err != nil || !found {
		t.Fatalf("GetProfile: found=%v err=%v", found, err)
	}
	if profile.Played != 2 || profile.Losses != 1 || profile.Draws != 1 {
		t.Fatalf("unexpected City profile: %+v", profile)
	}
}

func TestSyncDay_NotifiesDataChanged(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{payloads: map[string]string{
		"2026-08-01": "m1|United|City|2-1",
	}}

	notified := 0
	svc := NewIngestionService(fetcher, stubDecoder{},
		memory.NewMatchRepository(), memory.NewStandingRepository(), memory.NewClubRepository(),
		logging.NewNop(), IngestionConfig{OnDataChanged: func() { notified++ }})

	if _, err := svc.SyncDay(context.Background(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SyncDay: %v", err)
	}
	if notified != 1 {
		t.Fatalf("expected one cache invalidation, got %d", notified)
	}
}
