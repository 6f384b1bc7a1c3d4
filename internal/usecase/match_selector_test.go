package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/view"
)

func worldCupMatches() []match.Option {
	return []match.Option{
		{MatchID: "1", CompetitionStage: "Group Stage", HomeTeam: "Qatar", AwayTeam: "Ecuador"},
		{MatchID: "2", CompetitionStage: "Round of 16", HomeTeam: "Netherlands", AwayTeam: "United States"},
		{MatchID: "3", CompetitionStage: "Group Stage", HomeTeam: "England", AwayTeam: "Iran"},
		finalMatch,
		{MatchID: "4", CompetitionStage: "Round of 16", HomeTeam: "Argentina", AwayTeam: "Australia"},
	}
}

func TestMatchSelector_GroupsByStageInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("ListCompetitions", mock.Anything).Return([]competition.SeasonOption{worldCup}, nil).Once()
	f.client.On("ListMatches", mock.Anything, "43", "106").Return(worldCupMatches(), nil).Once()

	f.page.Start()
	f.page.Wait()

	groups := f.page.Matches.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "Group Stage", groups[0].Stage)
	assert.Equal(t, "Round of 16", groups[1].Stage)
	assert.Equal(t, "Final", groups[2].Stage)

	total := 0
	seen := map[string]bool{}
	for _, group := range groups {
		for _, option := range group.Matches {
			assert.False(t, seen[option.MatchID], "duplicated match %s", option.MatchID)
			seen[option.MatchID] = true
			total++
		}
	}
	assert.Equal(t, len(worldCupMatches()), total)

	list := f.element(t, view.IDMatchList)
	assert.Contains(t, list.HTML, "Netherlands vs United States")
	assert.Equal(t, "Select a Match", f.element(t, view.IDMatchLabel).Text)
}

func TestMatchSelector_FetchFailureShowsErrorWithoutEvent(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	var chosen []MatchChosen
	f.page.Bus().OnMatchChosen(func(_ context.Context, event MatchChosen) { chosen = append(chosen, event) })

	f.client.On("ListCompetitions", mock.Anything).Return([]competition.SeasonOption{worldCup}, nil).Once()
	f.client.On("ListMatches", mock.Anything, "43", "106").Return(nil, errors.New("502 bad gateway")).Once()

	f.page.Start()
	f.page.Wait()

	assert.Contains(t, f.element(t, view.IDMatchList).HTML, "Error loading matches. Please try again.")
	assert.Empty(t, chosen)
	assert.Contains(t, f.logs.String(), "fetch matches failed")
}

func TestMatchSelector_DiscardsSupersededResponse(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	started := make(chan struct{})
	release := make(chan struct{})

	f.client.On("ListCompetitions", mock.Anything).Return([]competition.SeasonOption{worldCup, laLiga}, nil).Once()
	f.client.On("ListMatches", mock.Anything, "43", "106").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(worldCupMatches(), nil).
		Once()
	f.client.On("ListMatches", mock.Anything, "11", "90").
		Return([]match.Option{{MatchID: "9", CompetitionStage: "Regular Season", HomeTeam: "Barcelona", AwayTeam: "Real Madrid"}}, nil).
		Once()

	f.page.Start()
	<-started
	require.NoError(t, f.page.Dispatch(context.Background(), Action{Type: ActionSelectSeason, Value: laLiga.Value()}))
	close(release)
	f.page.Wait()

	groups := f.page.Matches.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Regular Season", groups[0].Stage)
	assert.NotContains(t, f.element(t, view.IDMatchList).HTML, "Qatar")
	assert.Contains(t, f.logs.String(), "drop stale match list")
}

func TestMatchSelector_ChooseAndToggles(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{})
	f.client.On("ListCompetitions", mock.Anything).Return([]competition.SeasonOption{worldCup}, nil).Once()
	f.client.On("ListMatches", mock.Anything, "43", "106").Return(worldCupMatches(), nil).Once()
	f.page.Start()
	f.page.Wait()

	ctx := context.Background()
	require.NoError(t, f.page.Dispatch(ctx, Action{Type: ActionToggleMatches}))
	assert.False(t, f.element(t, view.IDMatchList).Hidden)

	require.NoError(t, f.page.Dispatch(ctx, Action{Type: ActionToggleStage, Group: "Final"}))
	assert.True(t, f.page.Matches.Expanded("Final"))
	assert.False(t, f.page.Matches.Expanded("Group Stage"))
	require.ErrorIs(t, f.page.Dispatch(ctx, Action{Type: ActionToggleStage, Group: "Quarter-finals"}), ErrNotFound)

	var chosen []MatchChosen
	f.page.Bus().OnMatchChosen(func(_ context.Context, event MatchChosen) { chosen = append(chosen, event) })
	f.client.On("FetchMatchRows", mock.Anything, "2").Return([]match.Row{{"team": "Netherlands"}, {"team": "United States"}}, nil).Maybe()
	f.client.On("FetchFigure", mock.Anything, "2").Return(graph.Figure{}, errors.New("boom")).Maybe()
	f.client.On("FetchOverview", mock.Anything, "2").Return(nil, errors.New("boom")).Maybe()

	require.NoError(t, f.page.Matches.Choose(ctx, "2"))
	f.page.Wait()

	require.Equal(t, []MatchChosen{{MatchID: "2"}}, chosen)
	assert.Equal(t, "Netherlands vs United States", f.element(t, view.IDMatchLabel).Text)
	assert.True(t, f.element(t, view.IDMatchList).Hidden)

	meta, ok := f.page.MatchMeta(ctx, "2")
	require.True(t, ok)
	assert.Equal(t, "Round of 16", meta.CompetitionStage)

	require.ErrorIs(t, f.page.Matches.Choose(ctx, "404"), ErrNotFound)
}

func TestMatchSelector_PrefetchWarmsRowsCache(t *testing.T) {
	t.Parallel()

	f := newPageFixture(t, PageConfig{PrefetchWorkers: 2})
	f.client.On("ListCompetitions", mock.Anything).Return([]competition.SeasonOption{worldCup}, nil).Once()
	f.client.On("ListMatches", mock.Anything, "43", "106").Return(worldCupMatches(), nil).Once()
	for _, option := range worldCupMatches() {
		f.client.On("FetchMatchRows", mock.Anything, option.MatchID).
			Return([]match.Row{{"team": option.HomeTeam}, {"team": option.AwayTeam}}, nil).
			Once()
	}

	f.page.Start()
	f.page.Wait()

	stats := f.page.RowsCacheStats()
	assert.Equal(t, len(worldCupMatches()), stats.Loads)

	rows, err := f.page.rows.Resolve(context.Background(), finalMatch.MatchID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
