package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
	"github.com/riskibarqy/matchlens/internal/platform/cache"
	idgen "github.com/riskibarqy/matchlens/internal/platform/id"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

type ActionType string

const (
	ActionSelectSeason       ActionType = "select_season"
	ActionToggleCompetitions ActionType = "toggle_competitions"
	ActionToggleCompetition  ActionType = "toggle_competition"
	ActionToggleMatches      ActionType = "toggle_matches"
	ActionToggleStage        ActionType = "toggle_stage"
	ActionSelectMatch        ActionType = "select_match"
	ActionActivateTab        ActionType = "activate_tab"
	ActionResize             ActionType = "resize"
	ActionToggleSidebar      ActionType = "toggle_sidebar"
)

// Action is one user interaction sent by the page shell.
type Action struct {
	Type   ActionType `json:"type" validate:"required,oneof=select_season toggle_competitions toggle_competition toggle_matches toggle_stage select_match activate_tab resize toggle_sidebar"`
	Value  string     `json:"value,omitempty" validate:"max=256"`
	Group  string     `json:"group,omitempty" validate:"max=256"`
	Target string     `json:"target,omitempty" validate:"max=128"`
	Width  int        `json:"width,omitempty" validate:"gte=0,lte=16384"`
	Height int        `json:"height,omitempty" validate:"gte=0,lte=16384"`
}

type PageConfig struct {
	SquadSource     squad.Source
	GraphMode       graph.Mode
	PrefetchWorkers int
	CacheTTL        time.Duration
	Logger          *logging.Logger
	IDGenerator     idgen.Generator
}

// Page is one open match analytics page: its document, the selection
// cascade components and the caches they share for the page lifetime.
type Page struct {
	id       string
	doc      *view.Document
	bus      *Bus
	runner   *Runner
	rows     *MatchRows
	meta     *cache.Store[string, match.Meta]
	prefetch *ants.Pool
	validate *validator.Validate
	logger   *logging.Logger
	cancel   context.CancelFunc

	Competitions *CompetitionSelector
	Matches      *MatchSelector
	Details      *MatchDetailLoader
	Overview     *OverviewPanel
	Squads       *SquadPanel
	Tabs         *TabController
	Graph        *GraphLoader
	Sidebar      *Sidebar
}

func NewPage(ctx context.Context, client AnalyticsClient, cfg PageConfig) (*Page, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: analytics client is required", ErrInvalidInput)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	pageID, err := ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate page id: %w", err)
	}
	logger = logger.With("page_id", pageID)

	var prefetch *ants.Pool
	if cfg.PrefetchWorkers > 0 {
		prefetch, err = ants.NewPool(cfg.PrefetchWorkers)
		if err != nil {
			return nil, fmt.Errorf("create prefetch pool: %w", err)
		}
	}

	pageCtx, cancel := context.WithCancel(ctx)
	doc := view.NewPageDocument(overview.Fields)
	bus := NewBus()
	runner := NewRunner(pageCtx, logger)
	rows := NewMatchRows(client, cache.NewStore[string, []match.Row](cache.WithTTL(cfg.CacheTTL)))
	meta := cache.NewStore[string, match.Meta](cache.WithTTL(cfg.CacheTTL))

	squads := NewSquadPanel(client, cfg.SquadSource, doc, logger)
	tabs := NewTabController(doc, squads, runner, logger)
	graphLoader := NewGraphLoader(client, cfg.GraphMode, doc, logger)
	overviewPanel := NewOverviewPanel(client, rows, meta, doc, logger)

	p := &Page{
		id:       pageID,
		doc:      doc,
		bus:      bus,
		runner:   runner,
		rows:     rows,
		meta:     meta,
		prefetch: prefetch,
		validate: validator.New(),
		logger:   logger,
		cancel:   cancel,

		Competitions: NewCompetitionSelector(client, doc, bus, logger),
		Overview:     overviewPanel,
		Squads:       squads,
		Tabs:         tabs,
		Graph:        graphLoader,
		Sidebar:      NewSidebar(doc),
	}
	p.Matches = NewMatchSelector(MatchSelectorDeps{
		Client:   client,
		Document: doc,
		Bus:      bus,
		Runner:   runner,
		Rows:     rows,
		Meta:     meta,
		Graph:    graphLoader,
		Overview: overviewPanel,
		Squads:   squads,
		Tabs:     tabs,
		Prefetch: prefetch,
		Logger:   logger,
	})
	p.Details = NewMatchDetailLoader(doc, rows, tabs, squads, graphLoader, overviewPanel, runner, logger)

	bus.OnSelectionChanged(p.Matches.OnSelectionChanged)
	bus.OnMatchChosen(p.Details.OnMatchChosen)
	return p, nil
}

func (p *Page) ID() string {
	return p.id
}

func (p *Page) Document() *view.Document {
	return p.doc
}

func (p *Page) Bus() *Bus {
	return p.bus
}

// Start loads the competition list; the first option is selected once it arrives.
func (p *Page) Start() {
	p.runner.Go("competitions", p.Competitions.Load)
}

// Wait blocks until every scheduled load has finished.
func (p *Page) Wait() {
	p.runner.Wait()
}

func (p *Page) Close() {
	p.cancel()
	p.runner.Wait()
	if p.prefetch != nil {
		p.prefetch.Release()
	}
}

func (p *Page) RowsCacheStats() cache.Stats {
	return p.rows.Stats()
}

func (p *Page) MatchMeta(ctx context.Context, matchID string) (match.Meta, bool) {
	return p.meta.Get(ctx, matchID)
}

// Dispatch applies one validated user action. Loads it starts run in the
// background; Wait observes their completion.
func (p *Page) Dispatch(ctx context.Context, action Action) error {
	action.Value = strings.TrimSpace(action.Value)
	action.Group = strings.TrimSpace(action.Group)
	if err := p.validate.StructCtx(ctx, action); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.Page.Dispatch."+string(action.Type))
	defer span.End()

	switch action.Type {
	case ActionSelectSeason:
		if action.Value == "" {
			return fmt.Errorf("%w: value is required for %s", ErrInvalidInput, action.Type)
		}
		return p.Competitions.Select(ctx, action.Value)
	case ActionToggleCompetitions:
		return p.Competitions.ToggleList()
	case ActionToggleCompetition:
		return p.Competitions.ToggleGroup(ctx, action.Group)
	case ActionToggleMatches:
		return p.Matches.ToggleList()
	case ActionToggleStage:
		return p.Matches.ToggleStage(ctx, action.Group)
	case ActionSelectMatch:
		if action.Value == "" {
			return fmt.Errorf("%w: value is required for %s", ErrInvalidInput, action.Type)
		}
		return p.Matches.Choose(ctx, action.Value)
	case ActionActivateTab:
		return p.Tabs.Activate(ctx, action.Value)
	case ActionResize:
		target := action.Target
		if target == "" {
			target = view.IDGraph
		}
		return p.doc.SetSize(target, view.Size{Width: action.Width, Height: action.Height})
	case ActionToggleSidebar:
		_, err := p.Sidebar.Toggle()
		return err
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action.Type)
	}
}

// BrowseInput drives a headless walk through the cascade. Empty fields keep
// whatever the page selects on its own.
type BrowseInput struct {
	CompetitionID string
	SeasonID      string
	MatchID       string
	Tab           string
	Width         int
	Height        int
}

// Browse starts the page and replays the given selections, waiting for every
// load in between, then returns the final document.
func (p *Page) Browse(ctx context.Context, input BrowseInput) (view.Snapshot, error) {
	if input.Width > 0 || input.Height > 0 {
		if err := p.Dispatch(ctx, Action{Type: ActionResize, Target: view.IDGraph, Width: input.Width, Height: input.Height}); err != nil {
			return view.Snapshot{}, err
		}
	}

	p.Start()
	p.Wait()
	if len(p.Competitions.Options()) == 0 {
		return p.doc.Snapshot(), fmt.Errorf("%w: no competitions loaded", ErrDependencyUnavailable)
	}

	if input.CompetitionID != "" || input.SeasonID != "" {
		value := competition.EncodeValue(input.CompetitionID, input.SeasonID)
		if p.Competitions.Selected() != value {
			if err := p.Dispatch(ctx, Action{Type: ActionSelectSeason, Value: value}); err != nil {
				return view.Snapshot{}, err
			}
			p.Wait()
		}
	}
	if input.MatchID != "" {
		if err := p.Dispatch(ctx, Action{Type: ActionSelectMatch, Value: input.MatchID}); err != nil {
			return view.Snapshot{}, err
		}
		p.Wait()
	}
	if input.Tab != "" {
		if err := p.Dispatch(ctx, Action{Type: ActionActivateTab, Value: input.Tab}); err != nil {
			return view.Snapshot{}, err
		}
		p.Wait()
	}
	return p.doc.Snapshot(), nil
}
