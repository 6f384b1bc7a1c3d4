package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/domain/squad"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

const (
	squadLoadingText = "Loading squad..."
	squadErrorText   = "Error loading squad."
)

// SquadPanel fills a team squad container from the configured squad source.
type SquadPanel struct {
	client AnalyticsClient
	source squad.Source
	doc    *view.Document
	tokens *tokens
	logger *logging.Logger
}

func NewSquadPanel(client AnalyticsClient, source squad.Source, doc *view.Document, logger *logging.Logger) *SquadPanel {
	if logger == nil {
		logger = logging.Default()
	}
	if source == "" {
		source = squad.SourceCategorized
	}
	return &SquadPanel{
		client: client,
		source: source,
		doc:    doc,
		tokens: newTokens(),
		logger: logger.Named("squad_panel"),
	}
}

func (p *SquadPanel) Source() squad.Source {
	return p.source
}

// Load shows a loading placeholder in target, then replaces it with the
// squad table of team. Only the latest Load per target writes its result.
func (p *SquadPanel) Load(ctx context.Context, team, matchID, target string) error {
	team = strings.TrimSpace(team)
	matchID = strings.TrimSpace(matchID)
	if team == "" || matchID == "" {
		return fmt.Errorf("%w: team and match id are required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.SquadPanel.Load",
		attribute.String("match.id", matchID),
		attribute.String("squad.team", team),
		attribute.String("squad.source", string(p.source)),
	)
	defer span.End()

	token := p.tokens.next(target)
	loading, err := view.Render(ctx, view.Notice("loading", squadLoadingText))
	if err != nil {
		return err
	}
	if err := p.doc.SetHTML(target, loading); err != nil {
		p.logger.ErrorContext(ctx, "squad target missing", "target", target, "error", err)
		return err
	}

	markup, err := p.fetch(ctx, team, matchID)
	if !p.tokens.current(target, token) {
		p.logger.DebugContext(ctx, "drop stale squad response", "target", target, "team", team, "match_id", matchID)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "squad load failed", "team", team, "match_id", matchID, "error", err)
		return p.doc.SetHTML(target, view.PlaceholderHTML(squadErrorText))
	}
	return p.doc.SetHTML(target, markup)
}

// Clear empties the team containers and invalidates in-flight loads.
func (p *SquadPanel) Clear(targets ...string) error {
	for _, target := range targets {
		p.tokens.next(target)
		if err := p.doc.SetHTML(target, ""); err != nil {
			return err
		}
	}
	return nil
}

func (p *SquadPanel) fetch(ctx context.Context, team, matchID string) (string, error) {
	switch p.source {
	case squad.SourceHTML:
		raw, err := p.client.FetchSquadHTML(ctx, matchID, team)
		if err != nil {
			return "", fmt.Errorf("fetch squad html: %w", err)
		}
		return view.SanitizeHTML(raw), nil
	default:
		categorized, err := p.client.FetchCategorizedSquad(ctx, matchID, team)
		if err != nil {
			return "", fmt.Errorf("fetch categorized squad: %w", err)
		}
		if len(categorized.Unmatched) > 0 {
			p.logger.DebugContext(ctx, "squad positions without a category", "team", team, "unmatched", categorized.Unmatched)
		}
		return view.Render(ctx, view.SquadTable(squad.BuildTable(categorized)))
	}
}
