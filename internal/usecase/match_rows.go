package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/platform/cache"
)

// MatchRows resolves the row list of a match through the page cache.
type MatchRows struct {
	client AnalyticsClient
	store  *cache.Store[string, []match.Row]
}

func NewMatchRows(client AnalyticsClient, store *cache.Store[string, []match.Row]) *MatchRows {
	if store == nil {
		store = cache.NewStore[string, []match.Row]()
	}
	return &MatchRows{client: client, store: store}
}

// Resolve returns cached rows without a network call. On a miss concurrent
// callers share one fetch, and only a successful fetch is cached.
func (r *MatchRows) Resolve(ctx context.Context, matchID string) ([]match.Row, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.MatchRows.Resolve", attribute.String("match.id", matchID))
	defer span.End()

	rows, err := r.store.GetOrLoad(ctx, matchID, func(ctx context.Context) ([]match.Row, error) {
		return r.client.FetchMatchRows(ctx, matchID)
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch match rows match_id=%s: %w", matchID, err)
	}
	return rows, nil
}

// Cached reports whether rows for matchID are stored, without touching hit stats.
func (r *MatchRows) Cached(matchID string) bool {
	_, ok := r.store.StoredAt(matchID)
	return ok
}

func (r *MatchRows) Stats() cache.Stats {
	return r.store.Stats()
}
