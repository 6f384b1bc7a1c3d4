package overview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields_HasEighteenDistinctTargets(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for _, f := range Fields {
		seen[f] = struct{}{}
	}
	assert.Len(t, Fields, 18)
	assert.Len(t, seen, 18)
}

func TestStats_TextPlaceholderPolicy(t *testing.T) {
	t.Parallel()

	stats := Stats{
		"home_score":   float64(3),
		"away_score":   float64(3),
		"home_goals":   []any{"23' Messi ⚽", "108' Messi ⚽"},
		"away_goals":   []any{},
		"referee":      nil,
		"stadium":      "Lusail Stadium",
		"home_passes":  math.NaN(),
		"away_passes":  float64(512.5),
		"home_manager": "",
	}

	assert.Equal(t, "3", stats.Text("home_score"))
	assert.Equal(t, "23' Messi ⚽, 108' Messi ⚽", stats.Text("home_goals"))
	assert.Equal(t, EmptyList, stats.Text("away_goals"))
	assert.Equal(t, Missing, stats.Text("referee"))
	assert.Equal(t, Missing, stats.Text("home_assists"))
	assert.Equal(t, Missing, stats.Text("home_passes"))
	assert.Equal(t, "512.5", stats.Text("away_passes"))
	assert.Equal(t, "Lusail Stadium", stats.Text("stadium"))
	assert.Equal(t, Missing, stats.Text("home_manager"))
}

func TestStats_WithTeamFallback(t *testing.T) {
	t.Parallel()

	stats := Stats{"home_team": "Argentina"}
	filled := stats.WithTeamFallback([]string{"Argentina", "France"})

	assert.Equal(t, "Argentina", filled.Text("home_team"))
	assert.Equal(t, "France", filled.Text("away_team"))
	assert.Equal(t, Missing, stats.Text("away_team"), "source map must stay untouched")
}

func TestStats_TextLargeIntegralNumbers(t *testing.T) {
	t.Parallel()

	stats := Stats{
		"home_passes": float64(1e20),
		"away_passes": float64(-1e19),
		"home_shots":  float64(1 << 52),
	}

	assert.Equal(t, "100000000000000000000", stats.Text("home_passes"))
	assert.Equal(t, "-10000000000000000000", stats.Text("away_passes"))
	assert.Equal(t, "4503599627370496", stats.Text("home_shots"))
}
