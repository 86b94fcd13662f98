// Package jsonfile writes the enriched output document.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tripline/expense-enricher/internal/domain"
)

// Writer serializes enriched records to a JSON array on disk.
type Writer struct {
	pretty bool
}

// NewWriter creates a writer. pretty selects indented output for human
// consumption; the default is compact.
func NewWriter(pretty bool) *Writer {
	return &Writer{pretty: pretty}
}

// WriteFile marshals records and writes them to path. An empty input
// produces an empty JSON array, never null.
func (w *Writer) WriteFile(path string, records []domain.EnrichedRecord) error {
	data, err := w.marshal(records)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (w *Writer) marshal(records []domain.EnrichedRecord) ([]byte, error) {
	if records == nil {
		records = []domain.EnrichedRecord{}
	}
	if w.pretty {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return json.Marshal(records)
}
