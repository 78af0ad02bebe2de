package analytics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

func TestWriteCSV(t *testing.T) {
	records := []*model.Activity{
		{
			Type:        model.CategoryTravel,
			Name:        "Commute",
			Description: "bus, then walk",
			Amount:      12.5,
			Unit:        "km",
			CarbonCO2:   1.05,
			Date:        time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			Type:      model.CategoryFood,
			Name:      `Dinner "out"`,
			Amount:    1,
			Unit:      "meal",
			CarbonCO2: 0,
			Date:      time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	want := "date,type,name,description,amount,unit,carbonCO2\n" +
		"2024-03-01T08:30:00Z,travel,Commute,\"bus, then walk\",12.5,km,1.05\n" +
		"2024-03-02T00:00:00Z,food,\"Dinner \"\"out\"\"\",,1,meal,0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, "date,type,name,description,amount,unit,carbonCO2\n", buf.String())
}
