package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

var csvHeader = []string{"date", "type", "name", "description", "amount", "unit", "carbonCO2"}

// WriteCSV writes records with a header row. Dates are RFC 3339 in UTC and
// numbers use the shortest representation that round-trips.
func WriteCSV(w io.Writer, records []*model.Activity) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, record := range records {
		row := []string{
			record.Date.UTC().Format(time.RFC3339),
			record.Type,
			record.Name,
			record.Description,
			formatFloat(record.Amount),
			record.Unit,
			formatFloat(record.CarbonCO2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
