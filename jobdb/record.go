// Package jobdb persists submitted job records in the Consul KV store and
// exposes the status tag an external poller updates as jobs advance through
// their lifecycle.
package jobdb

// Status tags of a job record. The unknown tag is set at submission time,
// the others belong to the external process tracking the scheduler.
const (
	StatusUnknown  = "?"
	StatusQueued   = "Q"
	StatusRunning  = "R"
	StatusHeld     = "H"
	StatusComplete = "C"
	StatusError    = "E"
)

// Record is the persisted description of a submitted job, keyed by the
// opaque identifier returned at submission
type Record struct {
	// JobID is the identifier returned by the submission mechanism
	JobID string
	// JobName is the name directive of the submitted script
	JobName string
	// RunDir is the directory the job was submitted from
	RunDir string
	// Status is the lifecycle tag, StatusUnknown right after submission
	Status string
	// Auto marks jobs expected to report their own completion
	Auto bool
	// QsubStr is the full submitted script text
	QsubStr string
	// Walltime is the requested wall clock time in seconds
	Walltime int64
	// Nodes is the requested node count
	Nodes int
	// Procs is the total requested process count
	Procs int
}
