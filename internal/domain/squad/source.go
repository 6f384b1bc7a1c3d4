package squad

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Source selects which squad endpoint a deployment integrates with.
type Source string

const (
	SourceCategorized Source = "categorized"
	SourceHTML        Source = "html"
)

func ParseSource(v string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(v))) {
	case SourceCategorized:
		return SourceCategorized, nil
	case SourceHTML:
		return SourceHTML, nil
	default:
		return "", crerr.Newf("invalid squad source %q: valid values are %s, %s", v, SourceCategorized, SourceHTML)
	}
}
