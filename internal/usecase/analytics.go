package usecase

import (
	"context"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
)

// AnalyticsClient is the match analytics server as seen by the page.
type AnalyticsClient interface {
	ListCompetitions(ctx context.Context) ([]competition.SeasonOption, error)
	ListMatches(ctx context.Context, competitionID, seasonID string) ([]match.Option, error)
	FetchMatchRows(ctx context.Context, matchID string) ([]match.Row, error)
	FetchOverview(ctx context.Context, matchID string) (overview.Stats, error)
	FetchGraphFragment(ctx context.Context, matchID string, dims graph.Dimensions) (string, error)
	FetchFigure(ctx context.Context, matchID string) (graph.Figure, error)
	FetchSquadHTML(ctx context.Context, matchID, teamName string) (string, error)
	FetchCategorizedSquad(ctx context.Context, matchID, teamName string) (squad.Categorized, error)
}
