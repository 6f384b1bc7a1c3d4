package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

const defaultSnapshotTimeout = 60 * time.Second

// PageFactory opens a page bound to ctx. Callers close the page when done.
type PageFactory func(ctx context.Context) (*usecase.Page, error)

type HandlerConfig struct {
	NewPage         PageFactory
	AllowedOrigins  []string
	SnapshotTimeout time.Duration
	Logger          *logging.Logger
}

type Handler struct {
	newPage         PageFactory
	snapshotTimeout time.Duration
	upgrader        websocket.Upgrader
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.SnapshotTimeout
	if timeout <= 0 {
		timeout = defaultSnapshotTimeout
	}

	return &Handler{
		newPage:         cfg.NewPage,
		snapshotTimeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16384,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type snapshotQuery struct {
	CompetitionID string `validate:"required_with=SeasonID,max=64"`
	SeasonID      string `validate:"required_with=CompetitionID,max=64"`
	MatchID       string `validate:"max=64"`
	Tab           string `validate:"omitempty,oneof=overview team1 team2"`
	Width         int    `validate:"gte=0,lte=16384"`
	Height        int    `validate:"gte=0,lte=16384"`
}

// Snapshot drives a throwaway page through the requested selections and
// returns the resulting document.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Snapshot")
	defer span.End()

	query, err := h.parseSnapshotQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.snapshotTimeout)
	defer cancel()

	page, err := h.newPage(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "open page failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	defer page.Close()

	snapshot, err := page.Browse(ctx, usecase.BrowseInput{
		CompetitionID: query.CompetitionID,
		SeasonID:      query.SeasonID,
		MatchID:       query.MatchID,
		Tab:           query.Tab,
		Width:         query.Width,
		Height:        query.Height,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "browse page failed", "page_id", page.ID(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

func (h *Handler) parseSnapshotQuery(r *http.Request) (snapshotQuery, error) {
	values := r.URL.Query()
	query := snapshotQuery{
		CompetitionID: strings.TrimSpace(values.Get("competition")),
		SeasonID:      strings.TrimSpace(values.Get("season")),
		MatchID:       strings.TrimSpace(values.Get("match")),
		Tab:           strings.TrimSpace(values.Get("tab")),
	}

	var err error
	if query.Width, err = parseDimension(values.Get("width")); err != nil {
		return snapshotQuery{}, fmt.Errorf("%w: width: %v", usecase.ErrInvalidInput, err)
	}
	if query.Height, err = parseDimension(values.Get("height")); err != nil {
		return snapshotQuery{}, fmt.Errorf("%w: height: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(r.Context(), query); err != nil {
		return snapshotQuery{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return query, nil
}

func parseDimension(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	allowMap := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		candidate := strings.TrimSpace(origin)
		if candidate == "*" {
			allowAll = true
			continue
		}
		if candidate != "" {
			allowMap[candidate] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" || allowAll {
			return true
		}
		if _, ok := allowMap[origin]; ok {
			return true
		}
		// Same-origin shells are always allowed.
		return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"), r.Host)
	}
}
