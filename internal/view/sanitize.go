package view

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	svgNumberList = regexp.MustCompile(`^[0-9eE\s,.+\-]*$`)
	svgPathData   = regexp.MustCompile(`^[0-9a-zA-Z\s,.+\-]*$`)
	svgTransform  = regexp.MustCompile(`^[a-zA-Z0-9\s,.()+\-]*$`)
	svgPaint      = regexp.MustCompile(`^(none|currentColor|#[0-9a-fA-F]{3,8}|[a-zA-Z]+|rgba?\([0-9\s,.%]+\))$`)
	cssClass      = regexp.MustCompile(`^[a-zA-Z0-9_\-\s]*$`)
)

// markupPolicy admits user-content HTML, tables and static SVG. Anything that
// could run code is dropped, including frames, objects, meta refreshes,
// styles, event handlers and non http(s) URLs.
var markupPolicy = newMarkupPolicy()

func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("class").Matching(cssClass).Globally()

	p.AllowElements("svg", "g", "path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text", "tspan")
	p.AllowAttrs("viewbox", "points").Matching(svgNumberList).OnElements("svg", "polyline", "polygon")
	p.AllowAttrs("d").Matching(svgPathData).OnElements("path")
	p.AllowAttrs("transform").Matching(svgTransform).OnElements("g", "path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text", "tspan")
	p.AllowAttrs("fill", "stroke").Matching(svgPaint).OnElements("svg", "g", "path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text", "tspan")
	p.AllowAttrs("x", "y", "x1", "y1", "x2", "y2", "cx", "cy", "r", "rx", "ry", "dx", "dy",
		"width", "height", "stroke-width", "opacity", "fill-opacity", "stroke-opacity", "font-size").
		Matching(svgNumberList).
		OnElements("svg", "g", "path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text", "tspan")
	p.AllowAttrs("text-anchor").Matching(regexp.MustCompile(`^(start|middle|end)$`)).OnElements("text", "tspan")
	return p
}

// SanitizeHTML reduces server markup to what markupPolicy admits. Nothing
// the analytics server sends is ever executed by the page.
func SanitizeHTML(markup string) string {
	return markupPolicy.Sanitize(markup)
}
