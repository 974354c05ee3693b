package datarecording

import (
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/checkoutsim/checkout"
)

// TrialTable is the table that holds one row per trial.
const TrialTable = "trials"

// TrialEntry is a row of the trial table. SQLite stores a NaN mean system
// time as NULL.
type TrialEntry struct {
	RunID          string
	Worker         int
	Trial          int
	Utilisation    float64
	MeanCustomers  float64
	MeanSystemTime float64
}

// TrialRecorder records trial results into a DataRecorder. It is safe for
// concurrent use by several workers.
type TrialRecorder struct {
	lock     sync.Mutex
	recorder DataRecorder
	runID    string
}

// NewTrialRecorder creates the trial table and tags every row with a new run
// ID.
func NewTrialRecorder(recorder DataRecorder) *TrialRecorder {
	recorder.CreateTable(TrialTable, TrialEntry{})

	return &TrialRecorder{
		recorder: recorder,
		runID:    xid.New().String(),
	}
}

// RunID returns the ID that tags the rows of this run.
func (r *TrialRecorder) RunID() string {
	return r.runID
}

// RecordTrial buffers the result of one trial.
func (r *TrialRecorder) RecordTrial(worker, trial int, result checkout.Result) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.recorder.InsertData(TrialTable, TrialEntry{
		RunID:          r.runID,
		Worker:         worker,
		Trial:          trial,
		Utilisation:    result.Utilisation,
		MeanCustomers:  result.MeanCustomersInSystem,
		MeanSystemTime: result.MeanSystemTime,
	})
}

// Flush writes the buffered rows.
func (r *TrialRecorder) Flush() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.recorder.Flush()
}
