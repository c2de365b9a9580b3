package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/foodscore/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHistoryXLSX(t *testing.T) {
	entries := []domain.HistoryEntry{
		{
			ID:               "11111111-1111-1111-1111-111111111111",
			ProductName:      "Nutella",
			Barcode:          "3017620422003",
			Source:           "openfoodfacts",
			Score:            25,
			Band:             domain.BandPoor,
			ScoreImpact:      -25,
			IngredientsCount: 7,
			CreatedAt:        time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		{
			ID:          "22222222-2222-2222-2222-222222222222",
			ProductName: "Rolled Oats",
			Source:      "usda",
			Score:       85,
			Band:        domain.BandExcellent,
			ScoreImpact: 35,
			CreatedAt:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := HistoryXLSX(entries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{HistorySheet}, f.GetSheetList())

	rows, err := f.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, historyHeaders, rows[0])
	assert.Equal(t, []string{
		"2026-03-04T05:06:07Z", "Nutella", "3017620422003", "openfoodfacts",
		"25", "Poor", "-25", "7", "11111111-1111-1111-1111-111111111111",
	}, rows[1])
	assert.Equal(t, "Rolled Oats", rows[2][1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "Excellent", rows[2][5])
}

func TestHistoryXLSX_Empty(t *testing.T) {
	data, err := HistoryXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, historyHeaders, rows[0])
}
