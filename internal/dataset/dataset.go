// internal/dataset/dataset.go

// Package dataset reads the labelled phrase CSV files and groups their rows
// into pun/non-pun pairs.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingTextColumn is returned when the header row has no text column.
var ErrMissingTextColumn = errors.New("dataset: missing required column \"text\"")

// Row is one line of a dataset file. ID and Label are empty when the file
// does not carry those columns.
type Row struct {
	Line  int
	ID    string
	Text  string
	Label string
}

// Key returns the identifier used to track whether the row was processed.
// Files without an id column fall back to the phrase itself.
func (r Row) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Text
}

// ReadRows opens path and decodes it with Read.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read decodes a CSV stream with a header row. Column names are matched
// case-insensitively; a text column is required.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingTextColumn
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	textIdx, ok := columns["text"]
	if !ok {
		return nil, ErrMissingTextColumn
	}
	idIdx, hasID := columns["id"]
	labelIdx, hasLabel := columns["label"]

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := Row{Line: line, Text: field(record, textIdx)}
		if hasID {
			row.ID = strings.TrimSpace(field(record, idIdx))
		}
		if hasLabel {
			row.Label = strings.TrimSpace(field(record, labelIdx))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
