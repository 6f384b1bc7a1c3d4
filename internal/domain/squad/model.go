package squad

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const Missing = "N/A"

// Categorized is the column → ordered values mapping served by the filter
// endpoint. Columns keeps the server's key order.
type Categorized struct {
	Columns   []string
	Values    map[string][]any
	Unmatched []string
}

// Table is a squad table pivoted for display: one header per column and one
// row per index up to the longest column.
type Table struct {
	Headers []string
	Rows    [][]string
}

func BuildTable(c Categorized) Table {
	table := Table{Headers: append([]string(nil), c.Columns...)}

	longest := 0
	for _, column := range c.Columns {
		if n := len(c.Values[column]); n > longest {
			longest = n
		}
	}

	table.Rows = make([][]string, 0, longest)
	for i := 0; i < longest; i++ {
		row := make([]string, 0, len(c.Columns))
		for _, column := range c.Columns {
			values := c.Values[column]
			if i >= len(values) {
				row = append(row, Missing)
				continue
			}
			row = append(row, cell(values[i]))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return Missing
	case string:
		if v == "NaN" {
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
	default:
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			return Missing
		}
		return s
	}
}
