// internal/dataset/check.go
package dataset

// PairReport lists the problems that keep rows out of LoadPairs.
type PairReport struct {
	TotalIDs     int
	Pairs        int
	OrphanPun    []string
	OrphanNonPun []string
	Unrecognized []string
}

// OK reports whether every id belongs to a complete pair.
func (r PairReport) OK() bool {
	return len(r.OrphanPun) == 0 && len(r.OrphanNonPun) == 0 && len(r.Unrecognized) == 0
}

// CheckPairs inspects the id column of rows. Duplicate ids are counted once.
func CheckPairs(rows []Row) PairReport {
	seen := make(map[string]bool, len(rows))
	var ids []string
	for _, row := range rows {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		ids = append(ids, row.ID)
	}

	report := PairReport{TotalIDs: len(ids)}
	for _, id := range ids {
		base, suffix, ok := SplitID(id)
		switch {
		case ok && suffix == punSuffix:
			if seen[base+"."+nonPunSuffix] {
				report.Pairs++
			} else {
				report.OrphanPun = append(report.OrphanPun, id)
			}
		case ok && suffix == nonPunSuffix:
			if !seen[base+"."+punSuffix] {
				report.OrphanNonPun = append(report.OrphanNonPun, id)
			}
		default:
			report.Unrecognized = append(report.Unrecognized, id)
		}
	}
	return report
}
