package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
	usecasemock "github.com/riskibarqy/matchlens/internal/mocks/usecase"
	idgen "github.com/riskibarqy/matchlens/internal/platform/id"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type pageFixture struct {
	page   *Page
	client *usecasemock.AnalyticsClient
	logs   *lockedBuffer
}

func newPageFixture(t *testing.T, cfg PageConfig) *pageFixture {
	t.Helper()

	logs := &lockedBuffer{}
	client := usecasemock.NewAnalyticsClient(t)
	cfg.Logger = logging.NewJSONTo(logs, logging.LevelDebug)
	cfg.IDGenerator = idgen.NewSequence("test_page_")

	page, err := NewPage(context.Background(), client, cfg)
	require.NoError(t, err)
	t.Cleanup(page.Close)

	return &pageFixture{page: page, client: client, logs: logs}
}

func (f *pageFixture) element(t *testing.T, id string) view.Element {
	t.Helper()
	el, err := f.page.Document().Element(id)
	require.NoError(t, err)
	return el
}

var worldCup = competition.SeasonOption{
	CompetitionID:   "43",
	SeasonID:        "106",
	CompetitionName: "FIFA World Cup",
	SeasonName:      "2022",
	DisplayKey:      "FIFA World Cup (2022)",
}

var laLiga = competition.SeasonOption{
	CompetitionID:   "11",
	SeasonID:        "90",
	CompetitionName: "La Liga",
	DisplayKey:      "La Liga (2020/2021)",
}

var finalMatch = match.Option{MatchID: "3869685", CompetitionStage: "Final", HomeTeam: "Argentina", AwayTeam: "France"}

func finalRows() []match.Row {
	return []match.Row{
		{"team": "Argentina", "player": "Lionel Messi"},
		{"team": "France", "player": "Kylian Mbappé"},
		{"team": "Argentina", "player": "Ángel Di María"},
	}
}

func TestNewPage_RequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewPage(context.Background(), nil, PageConfig{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPage_BrowseRunsWholeCascade(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	figure := graph.Figure{Data: []any{map[string]any{"type": "scatter"}}, Layout: map[string]any{"title": "Shots"}}

	f.client.On("ListCompetitions", mock.Anything).Return([]competition.SeasonOption{worldCup}, nil).Once()
	f.client.On("ListMatches", mock.Anything, "43", "106").Return([]match.Option{finalMatch}, nil).Once()
	f.client.On("FetchMatchRows", mock.Anything, finalMatch.MatchID).Return(finalRows(), nil).Once()
	f.client.On("FetchFigure", mock.Anything, finalMatch.MatchID).Return(figure, nil).Once()
	f.client.On("FetchOverview", mock.Anything, finalMatch.MatchID).Return(overview.Stats{
		"home_team": "Argentina", "away_team": "France", "home_score": float64(3), "away_score": float64(3),
		"referee": "Szymon Marciniak", "competition_stage": "Final",
	}, nil).Once()
	f.client.On("FetchCategorizedSquad", mock.Anything, finalMatch.MatchID, "Argentina").Return(squad.Categorized{
		Columns: []string{"Goalkeeper", "Forwards"},
		Values:  map[string][]any{"Goalkeeper": {"Emiliano Martínez"}, "Forwards": {"Lionel Messi", "Julián Álvarez"}},
	}, nil).Once()

	snapshot, err := f.page.Browse(context.Background(), BrowseInput{
		CompetitionID: "43",
		SeasonID:      "106",
		MatchID:       finalMatch.MatchID,
		Tab:           string(TabTeam1),
		Width:         800,
		Height:        450,
	})
	require.NoError(t, err)
	assert.Equal(t, f.page.Document().Version(), snapshot.Version)

	assert.Equal(t, "FIFA World Cup (2022)", f.element(t, view.IDCompetitionLabel).Text)
	assert.Equal(t, "Argentina vs France", f.element(t, view.IDMatchLabel).Text)
	assert.Equal(t, "Argentina", f.element(t, view.IDTabTeam1).Text)
	assert.Equal(t, "France", f.element(t, view.IDTabTeam2).Text)
	assert.Equal(t, "3", f.element(t, view.OverviewTarget("home_score")).Text)
	assert.Equal(t, "N/A", f.element(t, view.OverviewTarget("stadium")).Text)
	assert.Contains(t, f.element(t, view.IDSquadTeam1).HTML, "<td>Julián Álvarez</td>")
	require.NotNil(t, f.element(t, view.IDGraph).Chart)
	assert.Equal(t, "Shots", f.element(t, view.IDGraph).Chart.Layout["title"])

	meta, ok := f.page.MatchMeta(context.Background(), finalMatch.MatchID)
	require.True(t, ok)
	assert.Equal(t, "Final", meta.CompetitionStage)
	assert.Equal(t, 1, f.page.RowsCacheStats().Loads)
}

func TestPage_DispatchRejectsInvalidActions(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	ctx := context.Background()

	cases := []Action{
		{Type: "explode"},
		{},
		{Type: ActionResize, Width: -1},
		{Type: ActionSelectSeason},
		{Type: ActionSelectMatch, Value: "   "},
	}
	for _, action := range cases {
		err := f.page.Dispatch(ctx, action)
		assert.True(t, errors.Is(err, ErrInvalidInput), "action %+v got %v", action, err)
	}
}

func TestPage_DispatchResizeRecordsGraphSize(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	require.NoError(t, f.page.Dispatch(context.Background(), Action{Type: ActionResize, Width: 640, Height: 360}))
	assert.Equal(t, view.Size{Width: 640, Height: 360}, f.element(t, view.IDGraph).Size)

	err := f.page.Dispatch(context.Background(), Action{Type: ActionResize, Target: "nope", Width: 1, Height: 1})
	require.ErrorIs(t, err, ErrTargetNotFound)
}

func TestPage_ToggleSidebar(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	ctx := context.Background()

	require.NoError(t, f.page.Dispatch(ctx, Action{Type: ActionToggleSidebar}))
	assert.Equal(t, "250px", f.element(t, view.IDSidebar).Styles["width"])
	assert.Equal(t, "250px", f.element(t, view.IDMain).Styles["marginLeft"])
	assert.Contains(t, f.element(t, view.IDSidebarArrow).Classes, view.ClassOpen)

	require.NoError(t, f.page.Dispatch(ctx, Action{Type: ActionToggleSidebar}))
	assert.Equal(t, "0", f.element(t, view.IDSidebar).Styles["width"])
	assert.NotContains(t, f.element(t, view.IDSidebarArrow).Classes, view.ClassOpen)
}

func TestPage_BrowseFailsWithoutCompetitions(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("ListCompetitions", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	snapshot, err := f.page.Browse(context.Background(), BrowseInput{CompetitionID: "43", SeasonID: "106"})
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Equal(t, f.page.Document().Version(), snapshot.Version)
	f.client.AssertNotCalled(t, "ListMatches", mock.Anything, mock.Anything, mock.Anything)
}
