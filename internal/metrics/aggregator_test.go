// internal/metrics/aggregator_test.go
package metrics

import (
	"bytes"
	"encoding/csv"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/trocadilho/internal/store"
)

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want Class
	}{
		{"Trocadilho", Positive},
		{"'Trocadilho'", Positive},
		{"pun", Positive},
		{"Não trocadilho", Negative},
		{"NAO TROCADILHO", Negative},
		{"non-pun", Negative},
		{"PARSE_ERROR", Unrecognized},
		{"talvez", Unrecognized},
		{"", Unrecognized},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, ClassifyLabel(tc.raw), "ClassifyLabel(%q)", tc.raw)
	}
}

func pairRows(total, correct int) []store.PairResult {
	rows := make([]store.PairResult, 0, total)
	for i := range total {
		rows = append(rows, store.PairResult{ID: int64(i + 1), PairID: strconv.Itoa(i + 1), IsCorrect: i < correct})
	}
	return rows
}

func TestComputePairsUnfolds(t *testing.T) {
	snap := ComputePairs(pairRows(10, 6))

	assert.Equal(t, Confusion{TP: 6, TN: 6, FP: 4, FN: 4}, snap.Confusion)
	assert.Equal(t, 20, snap.Confusion.Total())
	assert.Equal(t, 10, snap.Pairs)
	assert.InDelta(t, 0.6, snap.Accuracy, 1e-9)
	assert.InDelta(t, 0.6, snap.Pun.Precision, 1e-9)
	assert.InDelta(t, 0.6, snap.Pun.Recall, 1e-9)
	assert.InDelta(t, 0.6, snap.NonPun.F1, 1e-9)
}

func TestComputePairsExcludesParseErrors(t *testing.T) {
	rows := pairRows(4, 4)
	rows = append(rows, store.PairResult{ID: 5, PairID: "5", ErrorFlag: true})

	snap := ComputePairs(rows)
	assert.Equal(t, 4, snap.Pairs)
	assert.Equal(t, 1, snap.Excluded)
	assert.Equal(t, 8, snap.Confusion.Total())
	assert.InDelta(t, 1.0, snap.Accuracy, 1e-9)
}

func TestComputeIsOrderIndependent(t *testing.T) {
	rows := pairRows(25, 9)
	want := ComputePairs(rows)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 5 {
		shuffled := append([]store.PairResult(nil), rows...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if diff := cmp.Diff(want, ComputePairs(shuffled)); diff != "" {
			t.Fatalf("snapshot depends on order (-want +got):\n%s", diff)
		}
	}
}

func TestComputePhrasesExcludesUnrecognized(t *testing.T) {
	rows := []store.PhraseResult{
		{ID: 1, CorrectLabel: "Trocadilho", ExtractedLabel: "Trocadilho"},
		{ID: 2, CorrectLabel: "Trocadilho", ExtractedLabel: "Não trocadilho"},
		{ID: 3, CorrectLabel: "Não trocadilho", ExtractedLabel: "Não trocadilho"},
		{ID: 4, CorrectLabel: "Não trocadilho", ExtractedLabel: "Trocadilho"},
		{ID: 5, CorrectLabel: "Não trocadilho", ExtractedLabel: "Não trocadilho"},
		{ID: 6, CorrectLabel: "Trocadilho", ExtractedLabel: store.ParseErrorSentinel},
		{ID: 7, CorrectLabel: "", ExtractedLabel: "Trocadilho"},
	}
	snap := ComputePhrases(rows)
	assert.Equal(t, Confusion{TP: 1, TN: 2, FP: 1, FN: 1}, snap.Confusion)
	assert.Equal(t, 2, snap.Excluded)
	assert.Equal(t, []string{store.ParseErrorSentinel, "Trocadilho"}, snap.ExcludedLabels)
	assert.InDelta(t, 0.6, snap.Accuracy, 1e-9)
	assert.InDelta(t, 0.5, snap.Pun.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, snap.NonPun.Precision, 1e-9)
	assert.Zero(t, snap.Pairs)
}

func TestComputeEmptyHasZeroScores(t *testing.T) {
	snap := Compute(nil)
	assert.Zero(t, snap.Accuracy)
	assert.Equal(t, ClassScores{}, snap.Pun)
	assert.Equal(t, ClassScores{}, snap.NonPun)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ComputePairs(pairRows(10, 6))))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Metric", "Value"}, records[0])

	values := map[string]string{}
	for _, rec := range records[1:] {
		values[rec[0]] = rec[1]
	}
	assert.Equal(t, "6", values["True Positives"])
	assert.Equal(t, "4", values["False Negatives"])
	assert.Equal(t, "20", values["Total Samples"])
	assert.Equal(t, "10", values["Total Pairs"])
	assert.Equal(t, "0.600000", values["Accuracy"])
	assert.Equal(t, "F1 Score (Trocadilho)", records[1][0])
}

func TestWriteDebugCSVFile(t *testing.T) {
	obs, _, _ := UnfoldPairs(pairRows(2, 1))
	path := filepath.Join(t.TempDir(), "debug.csv")
	require.NoError(t, WriteFile(path, func(w io.Writer) error { return WriteDebugCSV(w, obs) }))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "source,y_true,y_pred\n1.H,1,1\n1.N,0,0\n2.H,1,0\n2.N,0,1\n", string(data))

	all := AllPhraseObservations([]store.PhraseResult{{ID: 3, CorrectLabel: "x", ExtractedLabel: "Trocadilho"}})
	var buf bytes.Buffer
	require.NoError(t, WriteDebugCSV(&buf, all))
	assert.Contains(t, buf.String(), "3,-1,1")
}
