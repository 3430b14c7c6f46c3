package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Column describes one exported field. Weight sizes the column in PDFs.
type Column struct {
	Key    string
	Label  string
	Weight float64
}

// Dataset is the tabular content shared by every export format.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// CSVExporter renders datasets as CSV with a label header row.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		header[i] = col.label()
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Columns))
		for i, col := range data.Columns {
			record[i] = row[col.Key]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (c Column) label() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}
