package graph

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrInvalidFigure = crerr.New("figure must carry data and layout")

// Mode selects which graph contract the analytics server speaks.
type Mode string

const (
	// ModeFigure receives a declarative chart spec and renders it in place.
	ModeFigure Mode = "figure"
	// ModeFragment receives server-rendered markup; scripts are stripped.
	ModeFragment Mode = "fragment"
)

func ParseMode(v string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeFigure:
		return ModeFigure, nil
	case ModeFragment:
		return ModeFragment, nil
	default:
		return "", crerr.Newf("invalid graph mode %q: valid values are %s, %s", v, ModeFigure, ModeFragment)
	}
}

// Dimensions are the pixel size of the graph container at request time.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Figure is a chart-library figure spec.
type Figure struct {
	Data   []any          `json:"data"`
	Layout map[string]any `json:"layout"`
}

func (f Figure) Validate() error {
	if f.Data == nil || f.Layout == nil {
		return ErrInvalidFigure
	}
	return nil
}
