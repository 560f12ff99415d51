package reconcile

// ResyncBranch names the path the change detector chose for one resync run
type ResyncBranch string

const (
	// BranchNone means stored and incoming sets carry the same fingerprint;
	// nothing was written
	BranchNone ResyncBranch = "none"
	// BranchEmptyLoad means the destination held no reference rows and the
	// incoming set was loaded wholesale
	BranchEmptyLoad ResyncBranch = "empty-load"
	// BranchFullReplace means fingerprints differed and the stored set was
	// replaced wholesale
	BranchFullReplace ResyncBranch = "full-replace"
)

// ResyncReport summarizes one reference-code resync run
type ResyncReport struct {
	Branch       ResyncBranch `json:"branch"`
	RowsDeleted  int          `json:"rows_deleted"`
	RowsInserted int          `json:"rows_inserted"`
}

// LoadReport summarizes one dataset load: rows actually inserted per entity
// kind (rows already present are skipped, not counted) and the number of
// envelopes whose totals were recomputed.
type LoadReport struct {
	Inserted   map[EntityKind]int `json:"inserted"`
	Recomputed int                `json:"recomputed"`
}

// NewLoadReport creates an empty load report
func NewLoadReport() *LoadReport {
	return &LoadReport{Inserted: make(map[EntityKind]int)}
}

func (r *LoadReport) add(kind EntityKind, n int) {
	if n != 0 {
		r.Inserted[kind] += n
	}
}

// TotalInserted returns the number of rows inserted across all entity kinds
func (r *LoadReport) TotalInserted() int {
	total := 0
	for _, n := range r.Inserted {
		total += n
	}
	return total
}
