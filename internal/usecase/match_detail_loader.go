package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

// MatchDetailLoader reacts to MatchChosen. Team labels, graph and overview
// each run in their own failure scope.
type MatchDetailLoader struct {
	doc      *view.Document
	rows     *MatchRows
	tabs     *TabController
	squads   *SquadPanel
	graph    *GraphLoader
	overview *OverviewPanel
	runner   *Runner
	logger   *logging.Logger
}

func NewMatchDetailLoader(
	doc *view.Document,
	rows *MatchRows,
	tabs *TabController,
	squads *SquadPanel,
	graph *GraphLoader,
	overview *OverviewPanel,
	runner *Runner,
	logger *logging.Logger,
) *MatchDetailLoader {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchDetailLoader{
		doc:      doc,
		rows:     rows,
		tabs:     tabs,
		squads:   squads,
		graph:    graph,
		overview: overview,
		runner:   runner,
		logger:   logger.Named("match_detail_loader"),
	}
}

// OnMatchChosen records the match and schedules the detail loads.
func (l *MatchDetailLoader) OnMatchChosen(_ context.Context, event MatchChosen) {
	matchID := event.MatchID
	l.tabs.SetMatch(matchID)

	l.runner.Go("teams", func(ctx context.Context) error {
		return l.LoadTeams(ctx, matchID)
	})
	l.runner.Go("graph", func(ctx context.Context) error {
		return l.graph.Load(ctx, matchID)
	})
	l.runner.Go("overview", func(ctx context.Context) error {
		return l.overview.Load(ctx, matchID)
	})
}

// LoadTeams labels the team tabs from the match rows, in the order the teams
// first appear, then loads the squad of the active team tab.
func (l *MatchDetailLoader) LoadTeams(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDetailLoader.LoadTeams", attribute.String("match.id", matchID))
	defer span.End()

	rows, err := l.rows.Resolve(ctx, matchID)
	if err != nil {
		span.RecordError(err)
		l.logger.ErrorContext(ctx, "fetch match data failed", "match_id", matchID, "error", err)
		return err
	}
	if l.tabs.Match() != matchID {
		l.logger.DebugContext(ctx, "drop stale match rows", "match_id", matchID)
		return nil
	}

	teams, err := match.TeamPair(rows)
	if err != nil {
		if errors.Is(err, match.ErrUnexpectedTeamCount) {
			l.logger.ErrorContext(ctx, "unexpected number of unique teams in match data",
				"match_id", matchID,
				"teams", match.DistinctTeams(rows),
			)
		}
		return err
	}

	if err := l.doc.SetText(view.IDTabTeam1, teams[0]); err != nil {
		return err
	}
	if err := l.doc.SetText(view.IDTabTeam2, teams[1]); err != nil {
		return err
	}
	l.tabs.SetTeams(teams)

	team, target, ok := l.tabs.ActiveTeam()
	if !ok {
		return nil
	}
	if err := l.squads.Load(ctx, team, matchID, target); err != nil {
		return fmt.Errorf("load squad of active tab: %w", err)
	}
	return nil
}

