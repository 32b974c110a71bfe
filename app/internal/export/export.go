// Package export serializes session records for download.
package export

import (
	"fmt"
	"io"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// Exporter defines the interface for all export formats.
type Exporter interface {
	Write(sess *entities.SessionData, w io.Writer) error
	ContentType() string
	Extension() string
}

// NewExporter creates a new exporter based on format. An empty format
// defaults to JSON.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json", "":
		return &JSONExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (supported: json, csv)", entities.ErrInvalidArgument, format)
	}
}
