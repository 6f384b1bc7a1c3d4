package overview

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Missing   = "N/A"
	EmptyList = "-"
)

// Fields lists the overview stats written to the panel, in panel order.
var Fields = []string{
	"home_team",
	"away_team",
	"home_score",
	"away_score",
	"home_goals",
	"away_goals",
	"home_assists",
	"away_assists",
	"home_managers",
	"away_managers",
	"referee",
	"stadium",
	"home_shots",
	"away_shots",
	"home_passes",
	"away_passes",
	"home_passes_complete",
	"away_passes_complete",
}

// Stats is the overview payload of one match as returned by the server.
type Stats map[string]any

// Text formats one field for display. Missing or null fields become Missing,
// empty goal/assist lists become EmptyList.
func (s Stats) Text(field string) string {
	value, ok := s[field]
	if !ok {
		return Missing
	}
	return formatValue(value)
}

func (s Stats) CompetitionStage() string {
	if v, ok := s["competition_stage"].(string); ok {
		return v
	}
	return ""
}

// WithTeamFallback fills missing home/away team names from the teams found in
// the match rows, first encountered team as home.
func (s Stats) WithTeamFallback(teams []string) Stats {
	out := make(Stats, len(s)+2)
	for k, v := range s {
		out[k] = v
	}
	for i, field := range []string{"home_team", "away_team"} {
		if i >= len(teams) {
			break
		}
		if formatValue(out[field]) == Missing {
			out[field] = teams[i]
		}
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return Missing
	case string:
		if strings.TrimSpace(v) == "" || strings.EqualFold(v, "nan") {
			return Missing
		}
		return v
	case float64:
		if math.IsNaN(v) {
			return Missing
		}
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		if len(v) == 0 {
			return EmptyList
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		if len(v) == 0 {
			return EmptyList
		}
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}
