package csvfile

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReader() *Reader {
	return NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const sampleCSV = `city,country_code,local_currency,amount
Bengaluru,IN,INR,1250.50
Berlin,DE,EUR,89.90
San Francisco,US,USD,42.00
Tokyo,JP,JPY,3600
`

func TestReader_Read_HappyPath(t *testing.T) {
	recs, err := testReader().Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, "Bengaluru", recs[0].City)
	assert.Equal(t, "IN", recs[0].CountryCode)
	assert.Equal(t, "INR", recs[0].Currency)
	assert.Equal(t, 1250.50, recs[0].Amount)
	assert.Equal(t, 1, recs[0].Line)

	assert.Equal(t, "San Francisco", recs[2].City)
	assert.Equal(t, 3600.0, recs[3].Amount)
	assert.Equal(t, 4, recs[3].Line)
}

func TestReader_Read_MissingHeader(t *testing.T) {
	data := "city,country_code,amount\nBerlin,DE,89.90\n"
	_, err := testReader().Read(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local_currency")
}

func TestReader_Read_UnparseableAmountSkipped(t *testing.T) {
	data := "city,country_code,local_currency,amount\nBerlin,DE,EUR,abc\nTokyo,JP,JPY,3600\n"
	recs, err := testReader().Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Tokyo", recs[0].City)
	assert.Equal(t, 2, recs[0].Line)
}

func TestReader_Read_NegativeAmountKept(t *testing.T) {
	// Non-positive amounts parse fine here; the enricher validates and skips
	// them so the warning carries the row context.
	data := "city,country_code,local_currency,amount\nBerlin,DE,EUR,-5\n"
	recs, err := testReader().Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, -5.0, recs[0].Amount)
}

func TestReader_Read_ExtraColumnsIgnored(t *testing.T) {
	data := "notes,city,country_code,local_currency,amount\nx,Berlin,DE,EUR,10\n"
	recs, err := testReader().Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Berlin", recs[0].City)
}

func TestReader_ReadFile_Missing(t *testing.T) {
	_, err := testReader().ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
