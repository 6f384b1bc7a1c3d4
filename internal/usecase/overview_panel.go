package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/platform/cache"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

const overviewSlot = "overview"

// OverviewPanel writes the overview stats of the chosen match.
type OverviewPanel struct {
	client AnalyticsClient
	rows   *MatchRows
	meta   *cache.Store[string, match.Meta]
	doc    *view.Document
	tokens *tokens
	logger *logging.Logger
}

func NewOverviewPanel(
	client AnalyticsClient,
	rows *MatchRows,
	meta *cache.Store[string, match.Meta],
	doc *view.Document,
	logger *logging.Logger,
) *OverviewPanel {
	if logger == nil {
		logger = logging.Default()
	}
	return &OverviewPanel{
		client: client,
		rows:   rows,
		meta:   meta,
		doc:    doc,
		tokens: newTokens(),
		logger: logger.Named("overview_panel"),
	}
}

// Load fetches match rows and overview stats concurrently. Nothing is written
// unless both succeed, and a response superseded by a newer Load or Clear is dropped.
func (p *OverviewPanel) Load(ctx context.Context, matchID string) error {
	token := p.tokens.next(overviewSlot)

	ctx, span := startUsecaseSpan(ctx, "usecase.OverviewPanel.Load", attribute.String("match.id", matchID))
	defer span.End()

	var (
		rows  []match.Row
		stats overview.Stats
	)
	fetch := pool.New().WithContext(ctx).WithFirstError()
	fetch.Go(func(ctx context.Context) error {
		var err error
		rows, err = p.rows.Resolve(ctx, matchID)
		return err
	})
	fetch.Go(func(ctx context.Context) error {
		var err error
		stats, err = p.client.FetchOverview(ctx, matchID)
		if err != nil {
			return fmt.Errorf("fetch overview match_id=%s: %w", matchID, err)
		}
		return nil
	})
	if err := fetch.Wait(); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "overview load failed, keeping previous content", "match_id", matchID, "error", err)
		return err
	}

	if !p.tokens.current(overviewSlot, token) {
		p.logger.DebugContext(ctx, "drop stale overview response", "match_id", matchID)
		return nil
	}

	stats = stats.WithTeamFallback(match.DistinctTeams(rows))
	if p.meta != nil {
		p.meta.SetIfAbsent(ctx, matchID, match.Meta{
			MatchID:          matchID,
			HomeTeam:         stats.Text("home_team"),
			AwayTeam:         stats.Text("away_team"),
			CompetitionStage: stats.CompetitionStage(),
		})
	}

	for _, field := range overview.Fields {
		if err := p.doc.SetText(view.OverviewTarget(field), stats.Text(field)); err != nil {
			p.logger.ErrorContext(ctx, "overview target missing", "field", field, "error", err)
			return err
		}
	}
	return nil
}

// Clear empties every overview target and invalidates in-flight loads.
func (p *OverviewPanel) Clear() error {
	p.tokens.next(overviewSlot)
	for _, field := range overview.Fields {
		if err := p.doc.SetText(view.OverviewTarget(field), ""); err != nil {
			return err
		}
	}
	return nil
}
