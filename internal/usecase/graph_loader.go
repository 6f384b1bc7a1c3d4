package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/view"
)

const (
	graphSlot            = "graph"
	graphErrorText       = "Error loading match graph"
	graphPlaceholderText = "Please select a match to view its graph."
)

// GraphLoader renders the match graph into the graph container.
type GraphLoader struct {
	client AnalyticsClient
	mode   graph.Mode
	doc    *view.Document
	tokens *tokens
	logger *logging.Logger
}

func NewGraphLoader(client AnalyticsClient, mode graph.Mode, doc *view.Document, logger *logging.Logger) *GraphLoader {
	if logger == nil {
		logger = logging.Default()
	}
	if mode == "" {
		mode = graph.ModeFigure
	}
	return &GraphLoader{
		client: client,
		mode:   mode,
		doc:    doc,
		tokens: newTokens(),
		logger: logger.Named("graph_loader"),
	}
}

func (l *GraphLoader) Mode() graph.Mode {
	return l.mode
}

// Load sizes the request from the container size reported at call time. Any
// failure leaves the fixed error message in the container.
func (l *GraphLoader) Load(ctx context.Context, matchID string) error {
	token := l.tokens.next(graphSlot)

	ctx, span := startUsecaseSpan(ctx, "usecase.GraphLoader.Load",
		attribute.String("match.id", matchID),
		attribute.String("graph.mode", string(l.mode)),
	)
	defer span.End()

	size, err := l.doc.Size(view.IDGraph)
	if err != nil {
		l.logger.ErrorContext(ctx, "graph container missing", "error", err)
		return err
	}

	err = l.render(ctx, matchID, graph.Dimensions{Width: size.Width, Height: size.Height}, token)
	if err == nil {
		return nil
	}

	span.RecordError(err)
	l.logger.ErrorContext(ctx, "graph load failed", "match_id", matchID, "mode", l.mode, "error", err)
	if !l.tokens.current(graphSlot, token) {
		return err
	}
	if setErr := l.doc.SetHTML(view.IDGraph, view.PlaceholderHTML(graphErrorText)); setErr != nil {
		return setErr
	}
	return err
}

// Reset puts the placeholder back and invalidates in-flight loads.
func (l *GraphLoader) Reset() error {
	l.tokens.next(graphSlot)
	return l.doc.SetHTML(view.IDGraph, view.PlaceholderHTML(graphPlaceholderText))
}

func (l *GraphLoader) render(ctx context.Context, matchID string, dims graph.Dimensions, token uint64) error {
	switch l.mode {
	case graph.ModeFragment:
		fragment, err := l.client.FetchGraphFragment(ctx, matchID, dims)
		if err != nil {
			return fmt.Errorf("fetch graph fragment: %w", err)
		}
		clean := view.SanitizeHTML(fragment)
		if !l.tokens.current(graphSlot, token) {
			l.logger.DebugContext(ctx, "drop stale graph response", "match_id", matchID)
			return nil
		}
		return l.doc.SetHTML(view.IDGraph, clean)
	default:
		fig, err := l.client.FetchFigure(ctx, matchID)
		if err != nil {
			return fmt.Errorf("fetch figure: %w", err)
		}
		if err := fig.Validate(); err != nil {
			return err
		}
		if !l.tokens.current(graphSlot, token) {
			l.logger.DebugContext(ctx, "drop stale graph response", "match_id", matchID)
			return nil
		}
		return l.doc.SetChart(view.IDGraph, fig)
	}
}
