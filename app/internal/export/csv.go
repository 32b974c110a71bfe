package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// CSVExporter writes one row per turn in insertion order.
type CSVExporter struct{}

var csvHeader = []string{"turn", "ts", "tokens_input", "tokens_total", "kwh", "co2_kg", "water_l"}

func (e *CSVExporter) Write(sess *entities.SessionData, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, turn := range sess.Turns {
		row := []string{
			strconv.Itoa(turn.Index),
			turn.Timestamp.Format(time.RFC3339),
			strconv.Itoa(turn.TokensInput),
			strconv.Itoa(turn.TokensTotal),
			strconv.FormatFloat(turn.KWh, 'f', -1, 64),
			strconv.FormatFloat(turn.CO2Kg, 'f', -1, 64),
			strconv.FormatFloat(turn.WaterL, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *CSVExporter) ContentType() string {
	return "text/csv"
}

func (e *CSVExporter) Extension() string {
	return "csv"
}
