package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

type Tab string

const (
	TabOverview Tab = "overview"
	TabTeam1    Tab = "team1"
	TabTeam2    Tab = "team2"
)

type tabDef struct {
	tab    Tab
	button string
	panel  string
	squad  string
	team   int
}

var tabDefs = []tabDef{
	{tab: TabOverview, button: view.IDTabOverview, panel: view.IDPanelOverview, team: -1},
	{tab: TabTeam1, button: view.IDTabTeam1, panel: view.IDPanelTeam1, squad: view.IDSquadTeam1, team: 0},
	{tab: TabTeam2, button: view.IDTabTeam2, panel: view.IDPanelTeam2, squad: view.IDSquadTeam2, team: 1},
}

// TabController keeps exactly one tab active. Activating a team tab loads
// that team's squad for the selected match; earlier loads are not cancelled.
type TabController struct {
	doc    *view.Document
	squads *SquadPanel
	runner *Runner
	logger *logging.Logger

	mu      sync.Mutex
	active  Tab
	teams   [2]string
	matchID string
}

func NewTabController(doc *view.Document, squads *SquadPanel, runner *Runner, logger *logging.Logger) *TabController {
	if logger == nil {
		logger = logging.Default()
	}
	c := &TabController{
		doc:    doc,
		squads: squads,
		runner: runner,
		logger: logger.Named("tab_controller"),
		active: TabOverview,
	}
	for _, def := range tabDefs {
		if active, err := doc.HasClass(def.button, view.ClassActive); err == nil && active {
			c.active = def.tab
			return c
		}
	}
	for _, target := range []string{view.IDTabOverview, view.IDPanelOverview} {
		if err := doc.AddClass(target, view.ClassActive); err != nil {
			c.logger.Warn("activate default tab failed", "target", target, "error", err)
		}
	}
	return c
}

func (c *TabController) Activate(ctx context.Context, id string) error {
	def, ok := findTab(Tab(id))
	if !ok {
		return fmt.Errorf("%w: tab %q", ErrTargetNotFound, id)
	}

	for _, other := range tabDefs {
		if err := c.doc.RemoveClass(other.button, view.ClassActive); err != nil {
			return err
		}
		if err := c.doc.RemoveClass(other.panel, view.ClassActive); err != nil {
			return err
		}
	}
	if err := c.doc.AddClass(def.button, view.ClassActive); err != nil {
		return err
	}
	if err := c.doc.AddClass(def.panel, view.ClassActive); err != nil {
		return err
	}

	c.mu.Lock()
	c.active = def.tab
	matchID := c.matchID
	team := ""
	if def.team >= 0 {
		team = c.teams[def.team]
	}
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "tab activated", "tab", def.tab)
	if team != "" && matchID != "" {
		target := def.squad
		c.runner.Go("squad", func(ctx context.Context) error {
			return c.squads.Load(ctx, team, matchID, target)
		})
	}
	return nil
}

func (c *TabController) Active() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ActiveTeam returns the team and squad container of the active tab when it
// is a team tab with a known team name.
func (c *TabController) ActiveTeam() (string, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, _ := findTab(c.active)
	if def.team < 0 || c.teams[def.team] == "" {
		return "", "", false
	}
	return c.teams[def.team], def.squad, true
}

// SetMatch records the selected match and forgets the previous match's teams.
func (c *TabController) SetMatch(matchID string) {
	c.mu.Lock()
	c.matchID = matchID
	c.teams = [2]string{}
	c.mu.Unlock()
}

func (c *TabController) Match() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchID
}

func (c *TabController) SetTeams(teams [2]string) {
	c.mu.Lock()
	c.teams = teams
	c.mu.Unlock()
}

func (c *TabController) Teams() [2]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.teams
}

func squadTargets() []string {
	out := make([]string, 0, 2)
	for _, def := range tabDefs {
		if def.squad != "" {
			out = append(out, def.squad)
		}
	}
	return out
}

func findTab(tab Tab) (tabDef, bool) {
	for _, def := range tabDefs {
		if def.tab == tab {
			return def, true
		}
	}
	return tabDef{}, false
}
