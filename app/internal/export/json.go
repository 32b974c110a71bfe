package export

import (
	"encoding/json"
	"io"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// JSONExporter writes the full structured session record.
type JSONExporter struct{}

func (e *JSONExporter) Write(sess *entities.SessionData, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sess)
}

func (e *JSONExporter) ContentType() string {
	return "application/json"
}

func (e *JSONExporter) Extension() string {
	return "json"
}
