package crawl

import (
	"net/url"
	"path"
	"strings"

	"github.com/gaurav-prasanna/fuelcheck/core"
)

// tableExtensions maps file extensions to the loader format that reads them.
var tableExtensions = map[string]core.Format{
	".csv":  core.FormatDelimited,
	".xlsx": core.FormatSpreadsheet,
	".xlsm": core.FormatSpreadsheet,
}

// FileName returns the lower-cased last path segment of a URL.
func FileName(rawURL string) string {
	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		p = parsed.Path
	}
	return strings.ToLower(path.Base(p))
}

// MatchesYear reports whether the file name contains any of the year tokens.
// An empty token list matches everything.
func MatchesYear(name string, years []string) bool {
	if len(years) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, y := range years {
		if y != "" && strings.Contains(name, strings.ToLower(y)) {
			return true
		}
	}
	return false
}

// FormatOf returns the loader format for a file name, or "" when the
// extension is not a supported table format.
func FormatOf(name string) core.Format {
	return tableExtensions[strings.ToLower(path.Ext(name))]
}
