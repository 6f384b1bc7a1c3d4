package competition

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrInvalidSelection = crerr.New("invalid competition selection value")

// SeasonOption is one selectable competition season.
type SeasonOption struct {
	CompetitionID   string `json:"competition_id"`
	SeasonID        string `json:"season_id"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name,omitempty"`
	DisplayKey      string `json:"display_key"`
}

// Value encodes the option the way the selector list carries it.
func (o SeasonOption) Value() string {
	return EncodeValue(o.CompetitionID, o.SeasonID)
}

// Label is what the collapsed selector shows once the option is chosen.
func (o SeasonOption) Label() string {
	if label := strings.TrimSpace(o.DisplayKey); label != "" {
		return label
	}
	if o.SeasonName != "" {
		return o.CompetitionName + " (" + o.SeasonName + ")"
	}
	return o.CompetitionName
}

func EncodeValue(competitionID, seasonID string) string {
	return competitionID + "-" + seasonID
}

// ParseValue splits "{competition_id}-{season_id}" into its two ids.
func ParseValue(value string) (string, string, error) {
	value = strings.TrimSpace(value)
	competitionID, seasonID, ok := strings.Cut(value, "-")
	competitionID = strings.TrimSpace(competitionID)
	seasonID = strings.TrimSpace(seasonID)
	if !ok || competitionID == "" || seasonID == "" || strings.Contains(seasonID, "-") {
		return "", "", crerr.Wrapf(ErrInvalidSelection, "value=%q", value)
	}
	return competitionID, seasonID, nil
}

// Group is one competition with its seasons in first-seen order.
type Group struct {
	Name    string
	Seasons []SeasonOption
}

func GroupByCompetition(options []SeasonOption) []Group {
	out := make([]Group, 0, len(options))
	index := make(map[string]int, len(options))
	for _, option := range options {
		i, ok := index[option.CompetitionName]
		if !ok {
			i = len(out)
			index[option.CompetitionName] = i
			out = append(out, Group{Name: option.CompetitionName})
		}
		out[i].Seasons = append(out[i].Seasons, option)
	}
	return out
}

func Find(options []SeasonOption, value string) (SeasonOption, bool) {
	for _, option := range options {
		if option.Value() == value {
			return option, true
		}
	}
	return SeasonOption{}, false
}
