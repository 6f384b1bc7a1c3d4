package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/matchlens/internal/domain/competition"
	"github.com/riskibarqy/matchlens/internal/domain/match"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
)

// Render writes a component into a pooled buffer and returns the markup.
func Render(ctx context.Context, c templ.Component) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := c.Render(ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlaceholderHTML renders a plain paragraph. It cannot fail.
func PlaceholderHTML(text string) string {
	out, _ := Render(context.Background(), Paragraph(text))
	return out
}

func Paragraph(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<p>`, templ.EscapeString(text), `</p>`)
	})
}

// Notice is a one-line status box such as the loading or error message of a list.
func Notice(class, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(w, `<div class="`, templ.EscapeString(class), `">`, templ.EscapeString(text), `</div>`)
	})
}

// CompetitionList renders competitions as group headers over their seasons.
// Collapsed groups keep their season list in the markup, hidden.
func CompetitionList(groups []competition.Group, expanded map[string]bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, group := range groups {
			name := templ.EscapeString(group.Name)
			if err := write(w,
				`<div class="competition" data-action="toggle_competition" data-group="`, name, `">`, name, `</div>`,
				`<div class="seasons-list"`, hiddenAttr(!expanded[group.Name]), `>`,
			); err != nil {
				return err
			}
			for _, season := range group.Seasons {
				if err := write(w,
					`<div class="season" data-action="select_season" data-value="`, templ.EscapeString(season.Value()), `">`,
					templ.EscapeString(season.Label()),
					`</div>`,
				); err != nil {
					return err
				}
			}
			if err := write(w, `</div>`); err != nil {
				return err
			}
		}
		return nil
	})
}

// MatchList renders one collapsible stage header per stage.
func MatchList(groups []match.StageGroup, expanded map[string]bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, group := range groups {
			stage := templ.EscapeString(group.Stage)
			if err := write(w,
				`<div class="stage" data-action="toggle_stage" data-group="`, stage, `">`, stage, `</div>`,
				`<div class="matches-list"`, hiddenAttr(!expanded[group.Stage]), `>`,
			); err != nil {
				return err
			}
			for _, option := range group.Matches {
				if err := write(w,
					`<div class="match" data-action="select_match" data-value="`, templ.EscapeString(option.MatchID), `">`,
					templ.EscapeString(option.Label()),
					`</div>`,
				); err != nil {
					return err
				}
			}
			if err := write(w, `</div>`); err != nil {
				return err
			}
		}
		return nil
	})
}

func SquadTable(table squad.Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<table class="squad-table"><thead><tr>`); err != nil {
			return err
		}
		for _, header := range table.Headers {
			if err := write(w, `<th>`, templ.EscapeString(header), `</th>`); err != nil {
				return err
			}
		}
		if err := write(w, `</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, row := range table.Rows {
			if err := write(w, `<tr>`); err != nil {
				return err
			}
			for _, cell := range row {
				if err := write(w, `<td>`, templ.EscapeString(cell), `</td>`); err != nil {
					return err
				}
			}
			if err := write(w, `</tr>`); err != nil {
				return err
			}
		}
		return write(w, `</tbody></table>`)
	})
}

func hiddenAttr(hidden bool) string {
	if hidden {
		return ` hidden`
	}
	return ""
}

func write(w io.Writer, parts ...string) error {
	for _, part := range parts {
		if _, err := io.WriteString(w, part); err != nil {
			return err
		}
	}
	return nil
}
