package match

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrUnexpectedTeamCount = crerr.New("unexpected number of distinct teams in match rows")

const labelSeparator = " vs "

// Option is one selectable match of a competition season.
type Option struct {
	MatchID          string `json:"match_id"`
	CompetitionStage string `json:"competition_stage"`
	HomeTeam         string `json:"home_team"`
	AwayTeam         string `json:"away_team"`
}

func (o Option) Label() string {
	return o.HomeTeam + labelSeparator + o.AwayTeam
}

func (o Option) Meta() Meta {
	return Meta{
		MatchID:          o.MatchID,
		HomeTeam:         o.HomeTeam,
		AwayTeam:         o.AwayTeam,
		CompetitionStage: o.CompetitionStage,
	}
}

// SplitLabel recovers home and away names from a "{home} vs {away}" label.
func SplitLabel(label string) (string, string, bool) {
	home, away, ok := strings.Cut(label, labelSeparator)
	if !ok || strings.Contains(away, labelSeparator) {
		return "", "", false
	}
	return strings.TrimSpace(home), strings.TrimSpace(away), true
}

// Meta is cached per match id once the match is chosen.
type Meta struct {
	MatchID          string
	HomeTeam         string
	AwayTeam         string
	CompetitionStage string
}

// StageGroup holds the matches of one competition stage in response order.
type StageGroup struct {
	Stage   string
	Matches []Option
}

// GroupByStage groups options by stage. Stages keep first-seen order and no
// option is dropped or duplicated.
func GroupByStage(options []Option) []StageGroup {
	out := make([]StageGroup, 0, 8)
	index := make(map[string]int, 8)
	for _, option := range options {
		i, ok := index[option.CompetitionStage]
		if !ok {
			i = len(out)
			index[option.CompetitionStage] = i
			out = append(out, StageGroup{Stage: option.CompetitionStage})
		}
		out[i].Matches = append(out[i].Matches, option)
	}
	return out
}

func Find(options []Option, matchID string) (Option, bool) {
	for _, option := range options {
		if option.MatchID == matchID {
			return option, true
		}
	}
	return Option{}, false
}

// Row is one statistical record of a match. Only the team field is relied on.
type Row map[string]any

func (r Row) Team() string {
	switch v := r["team"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// DistinctTeams lists team values in the order they are first encountered.
func DistinctTeams(rows []Row) []string {
	seen := make(map[string]struct{}, 2)
	out := make([]string, 0, 2)
	for _, row := range rows {
		team := row.Team()
		if _, ok := seen[team]; ok {
			continue
		}
		seen[team] = struct{}{}
		out = append(out, team)
	}
	return out
}

// TeamPair returns the two participants, or ErrUnexpectedTeamCount.
func TeamPair(rows []Row) ([2]string, error) {
	teams := DistinctTeams(rows)
	if len(teams) != 2 {
		return [2]string{}, crerr.Wrapf(ErrUnexpectedTeamCount, "got %d teams %q", len(teams), teams)
	}
	return [2]string{teams[0], teams[1]}, nil
}
