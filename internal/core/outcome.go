package core

import "time"

// Outcome says how a reconciled cell got its value.
type Outcome string

const (
	// OutcomeFetched: the cell already held a value; nothing was written.
	OutcomeFetched Outcome = "fetched"
	// OutcomeWritten: the cell was empty and the input value was written.
	OutcomeWritten Outcome = "written"
	// OutcomeSkipped: the cell was empty and the sender sent SkipSentinel.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeMissing: the cell was empty and the input had no value.
	OutcomeMissing Outcome = "missing"
)

func (o Outcome) String() string {
	return string(o)
}

// Reconciliation is the journal record of one reconciled cell.
type Reconciliation struct {
	RunID         string
	ReferenceDate Date
	Category      Category
	Address       CellAddress
	Outcome       Outcome
	Value         string
	CreatedAt     time.Time
}
