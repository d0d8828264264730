// internal/dataset/pairs.go
package dataset

import "strings"

const (
	punSuffix    = "H"
	nonPunSuffix = "N"
)

// Pair is a pun phrase and its minimally edited non-pun counterpart.
type Pair struct {
	ID     string
	Pun    string
	NonPun string
}

// SplitID splits "<base>.<suffix>" on the last dot. ok is false when id has
// no dot.
func SplitID(id string) (base, suffix string, ok bool) {
	idx := strings.LastIndex(id, ".")
	if idx < 0 {
		return "", "", false
	}
	return id[:idx], id[idx+1:], true
}

// LoadPairs groups rows into pairs keyed by base id. Only ".H" and ".N"
// suffixes are recognised and a pair is kept only when both exist. Pairs are
// returned in the order their base id first appears.
func LoadPairs(rows []Row) []Pair {
	type partial struct {
		pun, non       string
		hasPun, hasNon bool
	}

	var order []string
	byBase := make(map[string]*partial)
	for _, row := range rows {
		base, suffix, ok := SplitID(row.ID)
		if !ok || (suffix != punSuffix && suffix != nonPunSuffix) {
			continue
		}
		p, seen := byBase[base]
		if !seen {
			p = &partial{}
			byBase[base] = p
			order = append(order, base)
		}
		if suffix == punSuffix {
			p.pun, p.hasPun = row.Text, true
		} else {
			p.non, p.hasNon = row.Text, true
		}
	}

	pairs := make([]Pair, 0, len(order))
	for _, base := range order {
		p := byBase[base]
		if p.hasPun && p.hasNon {
			pairs = append(pairs, Pair{ID: base, Pun: p.pun, NonPun: p.non})
		}
	}
	return pairs
}
