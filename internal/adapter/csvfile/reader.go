// Package csvfile reads expense records from a CSV file with the required
// columns city, country_code, local_currency, amount.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tripline/expense-enricher/internal/domain"
)

var requiredColumns = []string{"city", "country_code", "local_currency", "amount"}

// Reader parses expense CSVs into input records.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a CSV reader. Rows with unparseable amounts are skipped
// with a warning; structural problems (missing file, missing headers) are
// fatal.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadFile opens and parses the CSV at path.
func (r *Reader) ReadFile(path string) ([]domain.InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	recs, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}

// Read parses CSV data from src. The first row must be a header containing
// every required column; extra columns are ignored.
func (r *Reader) Read(src io.Reader) ([]domain.InputRecord, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required CSV header: %s", name)
		}
	}

	var records []domain.InputRecord
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		field := func(name string) string {
			return strings.TrimSpace(row[cols[name]])
		}

		amountRaw := field("amount")
		amount, err := strconv.ParseFloat(amountRaw, 64)
		if err != nil {
			r.logger.Warn("skipping row with unparseable amount",
				"row", line,
				"amount", amountRaw,
			)
			continue
		}

		records = append(records, domain.InputRecord{
			City:        field("city"),
			CountryCode: field("country_code"),
			Currency:    field("local_currency"),
			Amount:      amount,
			Line:        line,
		})
	}
	return records, nil
}
