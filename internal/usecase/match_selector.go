package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/platform/cache"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

const (
	matchesSlot           = "matches"
	matchesLoadingText    = "Loading matches..."
	matchesErrorText      = "Error loading matches. Please try again."
	matchLabelPlaceholder = "Select a Match"
)

// MatchSelector lists the matches of the selected competition season grouped
// by stage and publishes MatchChosen when one is picked.
type MatchSelector struct {
	client   AnalyticsClient
	doc      *view.Document
	bus      *Bus
	runner   *Runner
	rows     *MatchRows
	meta     *cache.Store[string, match.Meta]
	graph    *GraphLoader
	overview *OverviewPanel
	squads   *SquadPanel
	tabs     *TabController
	prefetch *ants.Pool
	tokens   *tokens
	logger   *logging.Logger

	mu       sync.Mutex
	options  []match.Option
	groups   []match.StageGroup
	expanded map[string]bool
}

type MatchSelectorDeps struct {
	Client   AnalyticsClient
	Document *view.Document
	Bus      *Bus
	Runner   *Runner
	Rows     *MatchRows
	Meta     *cache.Store[string, match.Meta]
	Graph    *GraphLoader
	Overview *OverviewPanel
	Squads   *SquadPanel
	Tabs     *TabController
	// Prefetch warms the rows cache for every listed match. Nil disables it.
	Prefetch *ants.Pool
	Logger   *logging.Logger
}

func NewMatchSelector(deps MatchSelectorDeps) *MatchSelector {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchSelector{
		client:   deps.Client,
		doc:      deps.Document,
		bus:      deps.Bus,
		runner:   deps.Runner,
		rows:     deps.Rows,
		meta:     deps.Meta,
		graph:    deps.Graph,
		overview: deps.Overview,
		squads:   deps.Squads,
		tabs:     deps.Tabs,
		prefetch: deps.Prefetch,
		tokens:   newTokens(),
		logger:   logger.Named("match_selector"),
		expanded: make(map[string]bool),
	}
}

// OnSelectionChanged resets the match dependent panels and schedules the
// match list fetch for the new selection.
func (s *MatchSelector) OnSelectionChanged(ctx context.Context, event SelectionChanged) {
	token := s.tokens.next(matchesSlot)

	if err := s.reset(ctx); err != nil {
		s.logger.ErrorContext(ctx, "reset match panels failed", "error", err)
	}

	s.runner.Go("matches", func(ctx context.Context) error {
		return s.load(ctx, event, token)
	})
}

func (s *MatchSelector) reset(ctx context.Context) error {
	s.mu.Lock()
	s.options = nil
	s.groups = nil
	s.expanded = make(map[string]bool)
	s.mu.Unlock()

	loading, err := view.Render(ctx, view.Notice("loading", matchesLoadingText))
	if err != nil {
		return err
	}
	if err := s.doc.SetHTML(view.IDMatchList, loading); err != nil {
		return err
	}
	if err := s.doc.SetText(view.IDMatchLabel, matchLabelPlaceholder); err != nil {
		return err
	}
	s.tabs.SetMatch("")
	if err := s.graph.Reset(); err != nil {
		return err
	}
	if err := s.overview.Clear(); err != nil {
		return err
	}
	return s.squads.Clear(squadTargets()...)
}

func (s *MatchSelector) load(ctx context.Context, event SelectionChanged, token uint64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSelector.load",
		attribute.String("competition.id", event.CompetitionID),
		attribute.String("season.id", event.SeasonID),
	)
	defer span.End()

	options, err := s.client.ListMatches(ctx, event.CompetitionID, event.SeasonID)
	if !s.tokens.current(matchesSlot, token) {
		s.logger.DebugContext(ctx, "drop stale match list",
			"competition_id", event.CompetitionID,
			"season_id", event.SeasonID,
		)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "fetch matches failed",
			"competition_id", event.CompetitionID,
			"season_id", event.SeasonID,
			"error", err,
		)
		markup, renderErr := view.Render(ctx, view.Notice("error", matchesErrorText))
		if renderErr != nil {
			return renderErr
		}
		if setErr := s.doc.SetHTML(view.IDMatchList, markup); setErr != nil {
			return setErr
		}
		return fmt.Errorf("list matches: %w", err)
	}

	s.mu.Lock()
	s.options = options
	s.groups = match.GroupByStage(options)
	err = s.renderLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.warm(ctx, options, token)
	return nil
}

// Choose selects a listed match and publishes MatchChosen.
func (s *MatchSelector) Choose(ctx context.Context, matchID string) error {
	s.mu.Lock()
	option, ok := match.Find(s.options, matchID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: match %s is not listed", ErrNotFound, matchID)
	}

	if err := s.doc.SetText(view.IDMatchLabel, option.Label()); err != nil {
		return err
	}
	if err := s.doc.SetHidden(view.IDMatchList, true); err != nil {
		return err
	}
	if s.meta != nil {
		s.meta.SetIfAbsent(ctx, option.MatchID, option.Meta())
	}

	s.logger.InfoContext(ctx, "match selected", "match_id", option.MatchID, "stage", option.CompetitionStage)
	s.bus.PublishMatchChosen(ctx, MatchChosen{MatchID: option.MatchID})
	return nil
}

func (s *MatchSelector) ToggleList() error {
	_, err := s.doc.ToggleHidden(view.IDMatchList)
	return err
}

// ToggleStage shows or hides the matches of one stage only.
func (s *MatchSelector) ToggleStage(ctx context.Context, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, group := range s.groups {
		if group.Stage == stage {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: stage %q", ErrNotFound, stage)
	}
	s.expanded[stage] = !s.expanded[stage]
	return s.renderLocked(ctx)
}

func (s *MatchSelector) Expanded(stage string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[stage]
}

func (s *MatchSelector) Groups() []match.StageGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]match.StageGroup(nil), s.groups...)
}

func (s *MatchSelector) renderLocked(ctx context.Context) error {
	markup, err := view.Render(ctx, view.MatchList(s.groups, s.expanded))
	if err != nil {
		return fmt.Errorf("render match list: %w", err)
	}
	return s.doc.SetHTML(view.IDMatchList, markup)
}

// warm resolves the rows of every listed match through the worker pool and
// stops submitting once the selection changes.
func (s *MatchSelector) warm(ctx context.Context, options []match.Option, token uint64) {
	if s.prefetch == nil || len(options) == 0 {
		return
	}

	var workers sync.WaitGroup
	for _, option := range options {
		if !s.tokens.current(matchesSlot, token) {
			break
		}
		if s.rows.Cached(option.MatchID) {
			continue
		}
		matchID := option.MatchID
		workers.Add(1)
		if err := s.prefetch.Submit(func() {
			defer workers.Done()
			if !s.tokens.current(matchesSlot, token) {
				return
			}
			if _, err := s.rows.Resolve(ctx, matchID); err != nil {
				s.logger.DebugContext(ctx, "prefetch match rows failed", "match_id", matchID, "error", err)
			}
		}); err != nil {
			workers.Done()
			s.logger.WarnContext(ctx, "submit prefetch task failed", "match_id", matchID, "error", err)
			break
		}
	}
	workers.Wait()
}
