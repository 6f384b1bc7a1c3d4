package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/domain/overview"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
)

const (
	PathCompetitions  = "/api/get_competitions"
	PathMatches       = "/fetch_matches"
	PathMatchRows     = "/fetch_match"
	PathMatchOverview = "/fetch_match_overview"
	PathMatchGraph    = "/fetch_match_graph"
	PathFigure        = "/fetch-data"
	PathTeamSquad     = "/fetch_team_squad"
	PathFilterTeam    = "/filter-team"
)

func (c *Client) ListCompetitions(ctx context.Context) ([]competition.SeasonOption, error) {
	var items []competitionItem
	if err := c.get(ctx, PathCompetitions, &items); err != nil {
		return nil, err
	}

	out := make([]competition.SeasonOption, 0, len(items))
	for _, item := range items {
		if item.CompetitionID == "" || item.SeasonID == "" {
			c.logger.WarnContext(ctx, "skip competition option without ids", "display_key", item.DisplayKey)
			continue
		}
		out = append(out, competition.SeasonOption{
			CompetitionID:   string(item.CompetitionID),
			SeasonID:        string(item.SeasonID),
			CompetitionName: item.CompetitionName,
			SeasonName:      item.SeasonName,
			DisplayKey:      item.DisplayKey,
		})
	}
	return out, nil
}

// ListMatches accepts both the current option shape and the legacy
// {value, text, competition_stage} shape.
func (c *Client) ListMatches(ctx context.Context, competitionID, seasonID string) ([]match.Option, error) {
	var items []matchItem
	req := matchesRequest{CompetitionID: competitionID, SeasonID: seasonID}
	if err := c.post(ctx, PathMatches, req, &items); err != nil {
		return nil, err
	}

	out := make([]match.Option, 0, len(items))
	for _, item := range items {
		option, ok := item.option()
		if !ok {
			c.logger.WarnContext(ctx, "skip match option without id", "text", item.Text)
			continue
		}
		out = append(out, option)
	}
	return out, nil
}

func (c *Client) FetchMatchRows(ctx context.Context, matchID string) ([]match.Row, error) {
	var rows []match.Row
	if err := c.post(ctx, PathMatchRows, matchRequest{MatchID: matchID}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) FetchOverview(ctx context.Context, matchID string) (overview.Stats, error) {
	var stats overview.Stats
	if err := c.post(ctx, PathMatchOverview, matchRequest{MatchID: matchID}, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, crerr.Mark(crerr.Newf("empty overview for match_id=%s", matchID), ErrDecode)
	}
	return stats, nil
}

func (c *Client) FetchGraphFragment(ctx context.Context, matchID string, dims graph.Dimensions) (string, error) {
	var resp graphFragmentResponse
	req := graphRequest{MatchID: matchID, Width: dims.Width, Height: dims.Height}
	if err := c.post(ctx, PathMatchGraph, req, &resp); err != nil {
		return "", err
	}
	if resp.GraphDiv == nil {
		return "", crerr.Mark(crerr.New("graph_div missing"), ErrDecode)
	}
	return *resp.GraphDiv, nil
}

func (c *Client) FetchFigure(ctx context.Context, matchID string) (graph.Figure, error) {
	var resp figureResponse
	if err := c.post(ctx, PathFigure, matchRequest{MatchID: matchID}, &resp); err != nil {
		return graph.Figure{}, err
	}
	if resp.Fig == nil {
		return graph.Figure{}, crerr.Mark(graph.ErrInvalidFigure, ErrDecode)
	}
	if err := resp.Fig.Validate(); err != nil {
		return graph.Figure{}, crerr.Mark(err, ErrDecode)
	}
	return *resp.Fig, nil
}

func (c *Client) FetchSquadHTML(ctx context.Context, matchID, teamName string) (string, error) {
	var resp squadHTMLResponse
	if err := c.post(ctx, PathTeamSquad, squadRequest{MatchID: matchID, TeamName: teamName}, &resp); err != nil {
		return "", err
	}
	if resp.HTML == nil {
		return "", crerr.Mark(crerr.New("html missing"), ErrDecode)
	}
	return *resp.HTML, nil
}

func (c *Client) FetchCategorizedSquad(ctx context.Context, matchID, teamName string) (squad.Categorized, error) {
	var resp categorizedResponse
	if err := c.post(ctx, PathFilterTeam, squadRequest{MatchID: matchID, TeamName: teamName}, &resp); err != nil {
		return squad.Categorized{}, err
	}
	if len(resp.Categorized) == 0 {
		return squad.Categorized{}, crerr.Mark(crerr.New("categorized missing"), ErrDecode)
	}

	columns, err := orderedKeys(resp.Categorized)
	if err != nil {
		return squad.Categorized{}, crerr.Mark(err, ErrDecode)
	}
	var values map[string][]any
	if err := json.Unmarshal(resp.Categorized, &values); err != nil {
		return squad.Categorized{}, crerr.Mark(crerr.Wrap(err, "decode categorized columns"), ErrDecode)
	}

	return squad.Categorized{
		Columns:   columns,
		Values:    values,
		Unmatched: resp.Unmatched,
	}, nil
}

type competitionItem struct {
	CompetitionID   flexID `json:"competition_id"`
	SeasonID        flexID `json:"season_id"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
	DisplayKey      string `json:"display_key"`
}

type matchItem struct {
	MatchID          flexID `json:"match_id"`
	CompetitionStage string `json:"competition_stage"`
	HomeTeam         string `json:"home_team"`
	AwayTeam         string `json:"away_team"`
	Value            flexID `json:"value"`
	Text             string `json:"text"`
}

func (m matchItem) option() (match.Option, bool) {
	option := match.Option{
		MatchID:          string(m.MatchID),
		CompetitionStage: m.CompetitionStage,
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
	}
	if option.MatchID == "" {
		option.MatchID = string(m.Value)
	}
	if option.HomeTeam == "" && option.AwayTeam == "" && m.Text != "" {
		if home, away, ok := match.SplitLabel(m.Text); ok {
			option.HomeTeam, option.AwayTeam = home, away
		} else {
			option.HomeTeam = m.Text
		}
	}
	return option, option.MatchID != ""
}

type matchesRequest struct {
	CompetitionID string `json:"competition_id" validate:"required"`
	SeasonID      string `json:"season_id" validate:"required"`
}

type matchRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

type graphRequest struct {
	MatchID string `json:"match_id" validate:"required"`
	Width   int    `json:"width" validate:"gte=0"`
	Height  int    `json:"height" validate:"gte=0"`
}

type squadRequest struct {
	MatchID  string `json:"match_id" validate:"required"`
	TeamName string `json:"team_name" validate:"required"`
}

type graphFragmentResponse struct {
	GraphDiv *string `json:"graph_div"`
}

type figureResponse struct {
	Fig *graph.Figure `json:"fig"`
}

type squadHTMLResponse struct {
	HTML *string `json:"html"`
}

type categorizedResponse struct {
	Categorized json.RawMessage `json:"categorized"`
	Unmatched   []string        `json:"unmatched"`
}

// flexID decodes ids served either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(raw []byte) error {
	s := strings.TrimSpace(string(raw))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*f = flexID(strings.TrimSpace(unquoted))
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n == float64(int64(n)) {
		*f = flexID(strconv.FormatInt(int64(n), 10))
		return nil
	}
	*f = flexID(s)
	return nil
}

// orderedKeys lists the top-level keys of a JSON object in document order.
func orderedKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, crerr.Wrap(err, "read categorized object")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, crerr.Newf("categorized must be an object, got %v", tok)
	}

	keys := make([]string, 0, 8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, crerr.Wrap(err, "read categorized key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, crerr.Newf("unexpected categorized key %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil && err != io.EOF {
			return nil, crerr.Wrapf(err, "skip categorized column %q", key)
		}
	}
	return keys, nil
}
