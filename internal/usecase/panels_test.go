package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

func figureFixture() graph.Figure {
	return graph.Figure{
		Data:   []any{map[string]any{"type": "scatter", "x": []any{1, 2}}},
		Layout: map[string]any{"title": "Pass network"},
	}
}

func TestOverviewPanel_WritesAllFieldsWithPlaceholders(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("FetchMatchRows", mock.Anything, "m").Return(finalRows(), nil).Once()
	f.client.On("FetchOverview", mock.Anything, "m").Return(overview.Stats{
		"home_score":   float64(3),
		"away_score":   nil,
		"home_goals":   []any{"Messi 23'", "Di María 36'"},
		"away_goals":   []any{},
		"home_assists": []any{},
		"referee":      "NaN",
		"home_passes":  float64(612),
	}, nil).Once()

	require.NoError(t, f.page.Overview.Load(context.Background(), "m"))

	want := map[string]string{
		"home_team":            "Argentina",
		"away_team":            "France",
		"home_score":           "3",
		"away_score":           overview.Missing,
		"home_goals":           "Messi 23', Di María 36'",
		"away_goals":           overview.EmptyList,
		"home_assists":         overview.EmptyList,
		"away_assists":         overview.Missing,
		"referee":              overview.Missing,
		"stadium":              overview.Missing,
		"home_passes":          "612",
		"away_passes_complete": overview.Missing,
	}
	for field, text := range want {
		assert.Equal(t, text, f.element(t, view.OverviewTarget(field)).Text, field)
	}
	for _, field := range overview.Fields {
		assert.NotEmpty(t, f.element(t, view.OverviewTarget(field)).Text, field)
	}
}

func TestOverviewPanel_NeedsBothFetchesBeforeWriting(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	doc := f.page.Document()
	require.NoError(t, doc.SetText(view.OverviewTarget("referee"), "previous"))

	f.client.On("FetchMatchRows", mock.Anything, "m").Return(finalRows(), nil).Once()
	f.client.On("FetchOverview", mock.Anything, "m").Return(nil, errors.New("500")).Once()

	err := f.page.Overview.Load(context.Background(), "m")
	require.Error(t, err)
	assert.Equal(t, "previous", f.element(t, view.OverviewTarget("referee")).Text)
	assert.Contains(t, f.logs.String(), "overview load failed")
}

func TestSquadPanel_CategorizedSource(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("FetchCategorizedSquad", mock.Anything, "m", "Argentina").Return(squad.Categorized{
		Columns:   []string{"Name", "Goals"},
		Values:    map[string][]any{"Name": {"A", "B"}, "Goals": {float64(1), nil}},
		Unmatched: []string{"Secondary Striker"},
	}, nil).Once()

	require.NoError(t, f.page.Squads.Load(context.Background(), "Argentina", "m", view.IDSquadTeam1))

	markup := f.element(t, view.IDSquadTeam1).HTML
	assert.Contains(t, markup, "<th>Name</th><th>Goals</th>")
	assert.Contains(t, markup, "<tr><td>A</td><td>1</td></tr>")
	assert.Contains(t, markup, "<tr><td>B</td><td>N/A</td></tr>")
	assert.Contains(t, f.logs.String(), "squad positions without a category")
}

func TestSquadPanel_HTMLSourceIsSanitized(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{SquadSource: squad.SourceHTML})
	f.client.On("FetchSquadHTML", mock.Anything, "m", "France").
		Return(`<table onmouseover="x()"><tr><td>Mbappé</td></tr></table><script>x()</script><iframe srcdoc="<script>x()</script>"></iframe>`, nil).
		Once()

	require.NoError(t, f.page.Squads.Load(context.Background(), "France", "m", view.IDSquadTeam2))

	markup := f.element(t, view.IDSquadTeam2).HTML
	assert.Contains(t, markup, "Mbappé")
	assert.NotContains(t, markup, "script")
	assert.NotContains(t, markup, "onmouseover")
	assert.NotContains(t, markup, "iframe")
}

func TestSquadPanel_FailureShowsErrorMessage(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("FetchCategorizedSquad", mock.Anything, "m", "France").Return(squad.Categorized{}, errors.New("down")).Once()

	require.NoError(t, f.page.Squads.Load(context.Background(), "France", "m", view.IDSquadTeam2))
	assert.Contains(t, f.element(t, view.IDSquadTeam2).HTML, "Error loading squad.")
	assert.Contains(t, f.logs.String(), "squad load failed")
}

func TestSquadPanel_LastRequestWins(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	started := make(chan struct{})
	release := make(chan struct{})
	f.client.On("FetchCategorizedSquad", mock.Anything, "old", "Argentina").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(squad.Categorized{Columns: []string{"Name"}, Values: map[string][]any{"Name": {"Stale"}}}, nil).
		Once()
	f.client.On("FetchCategorizedSquad", mock.Anything, "new", "Argentina").
		Return(squad.Categorized{Columns: []string{"Name"}, Values: map[string][]any{"Name": {"Fresh"}}}, nil).
		Once()

	done := make(chan error, 1)
	go func() {
		done <- f.page.Squads.Load(context.Background(), "Argentina", "old", view.IDSquadTeam1)
	}()
	<-started
	require.NoError(t, f.page.Squads.Load(context.Background(), "Argentina", "new", view.IDSquadTeam1))
	close(release)
	require.NoError(t, <-done)

	markup := f.element(t, view.IDSquadTeam1).HTML
	assert.Contains(t, markup, "Fresh")
	assert.NotContains(t, markup, "Stale")
}

func TestGraphLoader_FigureMode(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("FetchFigure", mock.Anything, "m").Return(figureFixture(), nil).Once()

	require.NoError(t, f.page.Graph.Load(context.Background(), "m"))
	chart := f.element(t, view.IDGraph).Chart
	require.NotNil(t, chart)
	assert.Equal(t, "Pass network", chart.Layout["title"])
}

func TestGraphLoader_FragmentModeSizesRequestAndSanitizes(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{GraphMode: graph.ModeFragment})
	ctx := context.Background()
	require.NoError(t, f.page.Dispatch(ctx, Action{Type: ActionResize, Target: view.IDGraph, Width: 900, Height: 500}))

	f.client.On("FetchGraphFragment", mock.Anything, "m", graph.Dimensions{Width: 900, Height: 500}).
		Return(`<div id="plot" onload="boot()"></div><script>Plotly.newPlot("plot", [])</script>`, nil).
		Once()

	require.NoError(t, f.page.Graph.Load(ctx, "m"))
	markup := f.element(t, view.IDGraph).HTML
	assert.Equal(t, `<div id="plot"></div>`, markup)
}

func TestGraphLoader_FailureShowsFixedMessage(t *testing.T) {
	t.Parallel()

	modes := []graph.Mode{graph.ModeFigure, graph.ModeFragment}
	for _, mode := range modes {
		mode := mode
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()

			f := newPageFixture(t, PageConfig{GraphMode: mode})
			netErr := errors.New("dial tcp 127.0.0.1:5000: connect: connection refused")
			f.client.On("FetchFigure", mock.Anything, "m").Return(graph.Figure{}, netErr).Maybe()
			f.client.On("FetchGraphFragment", mock.Anything, "m", mock.Anything).Return("", netErr).Maybe()

			var err error
			require.NotPanics(t, func() { err = f.page.Graph.Load(context.Background(), "m") })
			require.ErrorIs(t, err, netErr)
			assert.Equal(t, "<p>Error loading match graph</p>", f.element(t, view.IDGraph).HTML)
		})
	}
}

func TestTabController_ActivateKeepsOneActive(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	ctx := context.Background()
	assert.Equal(t, TabOverview, f.page.Tabs.Active())

	require.NoError(t, f.page.Dispatch(ctx, Action{Type: ActionActivateTab, Value: "team1"}))
	assert.Equal(t, TabTeam1, f.page.Tabs.Active())

	active := 0
	for _, id := range []string{view.IDTabOverview, view.IDTabTeam1, view.IDTabTeam2, view.IDPanelOverview, view.IDPanelTeam1, view.IDPanelTeam2} {
		if has, _ := f.page.Document().HasClass(id, view.ClassActive); has {
			active++
			assert.True(t, strings.HasSuffix(id, "team1"), id)
		}
	}
	assert.Equal(t, 2, active)

	err := f.page.Tabs.Activate(ctx, "lineups")
	require.ErrorIs(t, err, ErrTargetNotFound)
	assert.Equal(t, TabTeam1, f.page.Tabs.Active())
}

func TestTabController_TeamTabLoadsSquad(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.page.Tabs.SetMatch("m")
	f.page.Tabs.SetTeams([2]string{"Argentina", "France"})
	f.client.On("FetchCategorizedSquad", mock.Anything, "m", "France").Return(squad.Categorized{
		Columns: []string{"Goalkeeper"},
		Values:  map[string][]any{"Goalkeeper": {"Hugo Lloris"}},
	}, nil).Once()

	require.NoError(t, f.page.Tabs.Activate(context.Background(), "team2"))
	f.page.Wait()

	assert.Contains(t, f.element(t, view.IDSquadTeam2).HTML, "Hugo Lloris")
}

func TestTabController_TeamTabWithoutMatchDoesNothing(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	require.NoError(t, f.page.Tabs.Activate(context.Background(), "team1"))
	f.page.Wait()
	assert.Empty(t, f.element(t, view.IDSquadTeam1).HTML)
}

func TestTabController_ReportsMissingDefaultTab(t *testing.T) {
	t.Parallel()

	logs := &lockedBuffer{}
	c := NewTabController(view.NewDocument("unrelated"), nil, nil, logging.NewJSONTo(logs, logging.LevelDebug))

	assert.Equal(t, TabOverview, c.Active())
	assert.Equal(t, 2, strings.Count(logs.String(), "activate default tab failed"))
}
