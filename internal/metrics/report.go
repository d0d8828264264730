// internal/metrics/report.go
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Row is one line of the metrics CSV.
type Row struct {
	Metric string
	Value  string
}

// Rows lists the statistics in their fixed output order.
func (s Snapshot) Rows() []Row {
	rows := []Row{
		{"F1 Score (Trocadilho)", formatFloat(s.Pun.F1)},
		{"F1 Score (Não Trocadilho)", formatFloat(s.NonPun.F1)},
		{"Accuracy", formatFloat(s.Accuracy)},
		{"Precision (Trocadilho)", formatFloat(s.Pun.Precision)},
		{"Recall (Trocadilho)", formatFloat(s.Pun.Recall)},
		{"Precision (Não Trocadilho)", formatFloat(s.NonPun.Precision)},
		{"Recall (Não Trocadilho)", formatFloat(s.NonPun.Recall)},
		{"True Positives", strconv.Itoa(s.Confusion.TP)},
		{"True Negatives", strconv.Itoa(s.Confusion.TN)},
		{"False Positives", strconv.Itoa(s.Confusion.FP)},
		{"False Negatives", strconv.Itoa(s.Confusion.FN)},
		{"Total Samples", strconv.Itoa(s.Confusion.Total())},
	}
	if s.Pairs > 0 {
		rows = append(rows, Row{"Total Pairs", strconv.Itoa(s.Pairs)})
	}
	rows = append(rows, Row{"Excluded", strconv.Itoa(s.Excluded)})
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes the Metric,Value table to w.
func WriteCSV(w io.Writer, s Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	for _, row := range s.Rows() {
		if err := cw.Write([]string{row.Metric, row.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDebugCSV writes one line per observation with 1 for pun, 0 for
// non-pun and -1 for an unrecognized label.
func WriteDebugCSV(w io.Writer, obs []Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "y_true", "y_pred"}); err != nil {
		return err
	}
	for _, o := range obs {
		if err := cw.Write([]string{o.Source, classDigit(o.True), classDigit(o.Pred)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func classDigit(c Class) string {
	return strconv.Itoa(int(c))
}

// WriteFile creates path and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
