package item

// CreateState tracks CreateWithPhoto. The happy path is Uncreated, RecordOnly, Complete.
// A photo failure moves RecordOnly to RolledBack, or to Inconsistent when the rollback fails.
type CreateState int

const (
	StateUncreated CreateState = iota
	StateRecordOnly
	StateComplete
	StateRolledBack
	StateInconsistent
)

func (s CreateState) String() string {
	switch s {
	case StateUncreated:
		return "uncreated"
	case StateRecordOnly:
		return "record_only"
	case StateComplete:
		return "complete"
	case StateRolledBack:
		return "rolled_back"
	case StateInconsistent:
		return "inconsistent"
	}
	return "unknown"
}

// Stable reports whether the state needs no further action.
func (s CreateState) Stable() bool {
	return s != StateRecordOnly && s != StateInconsistent
}

// CanTransition reports whether next may follow s.
func (s CreateState) CanTransition(next CreateState) bool {
	switch s {
	case StateUncreated:
		return next == StateRecordOnly
	case StateRecordOnly:
		return next == StateComplete || next == StateRolledBack || next == StateInconsistent
	}
	return false
}
