// Package core defines the pipeline interfaces for fuelcheck.
// Each collaborator of the pipeline is a small, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/fuelcheck/core/audit"
	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// Format is the declared encoding of a downloaded file.
type Format string

const (
	FormatDelimited   Format = "delimited-text"
	FormatSpreadsheet Format = "spreadsheet"
)

// Resource is a dataset file discovered on the portal page.
type Resource struct {
	URL  string
	Name string // lower-cased file name taken from the URL path
	// Format is empty when the extension is not a supported table format.
	Format Format
}

// Fetcher retrieves pages and files over the network.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
	FetchFile(ctx context.Context, url string) ([]byte, error)
}

// Loader decodes a downloaded file into a table.
type Loader interface {
	Load(data []byte, format Format) (*table.Table, error)
}

// Sink persists the final table.
type Sink interface {
	Save(t *table.Table, path string) error
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Renderer converts a quality report into an output format.
type Renderer interface {
	Render(r *audit.Report) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
