package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/pbarzyk/matchboard/internal/domain/match"
	"github.com/pbarzyk/matchboard/internal/platform/logging"
	"github.com/pbarzyk/matchboard/internal/usecase"
)

type Handler struct {
	standings *usecase.StandingsService
	clubs     *usecase.ClubService
	dashboard *usecase.DashboardService
	ingestion *usecase.IngestionService
	logger    *logging.Logger
	validate  *validator.Validate
}

func NewHandler(
	standings *usecase.StandingsService,
	clubs *usecase.ClubService,
	dashboard *usecase.DashboardService,
	ingestion *usecase.IngestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		standings: standings,
		clubs:     clubs,
		dashboard: dashboard,
		ingestion: ingestion,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.ListLeagues")
	defer span.End()

	keys, err := h.standings.Leagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, keys)
}

// GetStandings serves the computed table for one league. League names can
// contain slashes, so the league is addressed by query parameters rather
// than the path.
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetStandings")
	defer span.End()

	country := r.URL.Query().Get("country")
	league := r.URL.Query().Get("league")

	rows, err := h.standings.TableForLeague(ctx, country, league)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

// ListMatches serves matches addressed by calendar date, or a league's
// finished results when league query params are given instead.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.ListMatches")
	defer span.End()

	query := r.URL.Query()
	var matches []match.Match
	var err error
	if league := query.Get("league"); league != "" {
		matches, err = h.dashboard.MatchesByLeague(ctx, query.Get("country"), league)
	} else {
		matches, err = h.dashboard.MatchesByDate(ctx, query.Get("date"))
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matches)
}

func (h *Handler) GetClassificationRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetClassificationRules")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.dashboard.ClassificationRules(ctx))
}

func (h *Handler) GetCupIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetCupIndex")
	defer span.End()

	index, err := h.dashboard.CupIndex(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, index)
}

// ListClubs lists all club profiles, optionally narrowed by ?q= name search.
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.ListClubs")
	defer span.End()

	profiles, err := h.clubs.SearchProfiles(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, profiles)
}

func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetClub")
	defer span.End()

	profile, err := h.clubs.GetProfile(ctx, r.PathValue("name"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, profile)
}

func (h *Handler) GetClubForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.GetClubForm")
	defer span.End()

	report, err := h.clubs.Form(ctx, r.PathValue("name"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

type syncDayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) RunSyncDayJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.RunSyncDayJob")
	defer span.End()

	var req syncDayRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	target, _ := time.Parse("2006-01-02", req.Date)
	report, err := h.ingestion.SyncDay(ctx, target)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync day job failed", "date", req.Date, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

type syncWindowRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) RunSyncWindowJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.RunSyncWindowJob")
	defer span.End()

	var req syncWindowRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	report, err := h.ingestion.SyncWindow(ctx, start, end)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync window job failed", "start", req.StartDate, "end", req.EndDate, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunRebuildAggregatesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.RunRebuildAggregatesJob")
	defer span.End()

	report, err := h.ingestion.RebuildAggregates(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "rebuild aggregates job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) decodeBody(r *http.Request, target any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: malformed JSON body", usecase.ErrInvalidInput)
	}
	if err := h.validate.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
