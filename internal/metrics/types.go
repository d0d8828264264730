// internal/metrics/types.go
package metrics

// Class is the ternary label used when scoring stored rows.
type Class int

const (
	Unrecognized Class = iota - 1
	Negative
	Positive
)

func (c Class) String() string {
	switch c {
	case Positive:
		return "pun"
	case Negative:
		return "non-pun"
	default:
		return "unrecognized"
	}
}

// Observation is one scored instance. Source points back at the stored row
// it came from.
type Observation struct {
	Source string
	True   Class
	Pred   Class
}

// Confusion holds the 2x2 counts with "pun" as the positive class.
type Confusion struct {
	TP int
	TN int
	FP int
	FN int
}

// Total is the number of counted instances.
func (c Confusion) Total() int { return c.TP + c.TN + c.FP + c.FN }

// ClassScores are precision, recall and F1 for one class.
type ClassScores struct {
	Precision float64
	Recall    float64
	F1        float64
}

// Snapshot is the report derived from one set of observations.
type Snapshot struct {
	Confusion Confusion
	Accuracy  float64
	Pun       ClassScores
	NonPun    ClassScores
	// Excluded counts rows left out because a label was unrecognized or the
	// reply could not be parsed.
	Excluded       int
	ExcludedLabels []string
	// Pairs is the number of pair rows that were unfolded; zero in phrase mode.
	Pairs int
}
