// internal/metrics/aggregator.go

// Package metrics turns stored classification attempts into a confusion
// matrix and the usual derived scores.
package metrics

import (
	"sort"
	"strconv"

	"github.com/mwiater/trocadilho/internal/parser"
	"github.com/mwiater/trocadilho/internal/store"
)

const maxExcludedSample = 10

// ClassifyLabel maps stored label text to a class. Negation markers win over
// the positive keywords, so "Não trocadilho" is negative.
func ClassifyLabel(raw string) Class {
	switch parser.ClassifyLabel(raw) {
	case parser.NonPun:
		return Negative
	case parser.Pun:
		return Positive
	default:
		return Unrecognized
	}
}

// PhraseObservations scores phrase rows. Rows with an unrecognized gold or
// predicted label are returned separately.
func PhraseObservations(rows []store.PhraseResult) (valid []Observation, excluded []store.PhraseResult) {
	for _, row := range rows {
		obs := phraseObservation(row)
		if obs.True == Unrecognized || obs.Pred == Unrecognized {
			excluded = append(excluded, row)
			continue
		}
		valid = append(valid, obs)
	}
	return valid, excluded
}

// AllPhraseObservations keeps unrecognized rows too, for debug output.
func AllPhraseObservations(rows []store.PhraseResult) []Observation {
	obs := make([]Observation, 0, len(rows))
	for _, row := range rows {
		obs = append(obs, phraseObservation(row))
	}
	return obs
}

func phraseObservation(row store.PhraseResult) Observation {
	return Observation{
		Source: strconv.FormatInt(row.ID, 10),
		True:   ClassifyLabel(row.CorrectLabel),
		Pred:   ClassifyLabel(row.ExtractedLabel),
	}
}

// UnfoldPairs turns each parsed pair row into two instances: the pun phrase
// (gold positive, predicted positive when the row is correct) and the non-pun
// phrase (gold negative, predicted the complement). Parse-error rows are
// counted and skipped.
func UnfoldPairs(rows []store.PairResult) (obs []Observation, used, excluded int) {
	for _, row := range rows {
		if row.ErrorFlag {
			excluded++
			continue
		}
		used++
		pred, complement := Negative, Positive
		if row.IsCorrect {
			pred, complement = Positive, Negative
		}
		obs = append(obs,
			Observation{Source: row.PairID + ".H", True: Positive, Pred: pred},
			Observation{Source: row.PairID + ".N", True: Negative, Pred: complement},
		)
	}
	return obs, used, excluded
}

// Compute builds the confusion matrix and scores. The result does not
// depend on the order of obs.
func Compute(obs []Observation) Snapshot {
	var cm Confusion
	for _, o := range obs {
		switch {
		case o.True == Positive && o.Pred == Positive:
			cm.TP++
		case o.True == Negative && o.Pred == Negative:
			cm.TN++
		case o.True == Negative && o.Pred == Positive:
			cm.FP++
		case o.True == Positive && o.Pred == Negative:
			cm.FN++
		}
	}
	return Snapshot{
		Confusion: cm,
		Accuracy:  ratio(cm.TP+cm.TN, cm.Total()),
		Pun:       scores(cm.TP, cm.FP, cm.FN),
		NonPun:    scores(cm.TN, cm.FN, cm.FP),
	}
}

// ComputePhrases is Compute over phrase rows, with the exclusion report filled.
func ComputePhrases(rows []store.PhraseResult) Snapshot {
	valid, excluded := PhraseObservations(rows)
	snap := Compute(valid)
	snap.Excluded = len(excluded)
	snap.ExcludedLabels = sampleLabels(excluded)
	return snap
}

// ComputePairs is Compute over unfolded pair rows.
func ComputePairs(rows []store.PairResult) Snapshot {
	obs, used, excluded := UnfoldPairs(rows)
	snap := Compute(obs)
	snap.Pairs = used
	snap.Excluded = excluded
	return snap
}

func sampleLabels(rows []store.PhraseResult) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		seen[row.ExtractedLabel] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	if len(labels) > maxExcludedSample {
		labels = labels[:maxExcludedSample]
	}
	return labels
}

func scores(tp, fp, fn int) ClassScores {
	precision := ratio(tp, tp+fp)
	recall := ratio(tp, tp+fn)
	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return ClassScores{Precision: precision, Recall: recall, F1: f1}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
