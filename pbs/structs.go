// Package pbs implements the PBS/Torque batch job model: a JobSpec value
// object, a deterministic qsub script serializer, a parser able to read the
// script back (including hand-edited ones) and submitters dispatching scripts
// to a local or remote qsub.
package pbs

import (
	"regexp"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// DefaultMessage is the mail events selector used when a script defines none
const DefaultMessage = "a"

// DefaultPriority is the scheduling priority used when a script defines none
const DefaultPriority = "0"

// JobSpec describes a batch job resource request and its payload command.
//
// Required fields for a submittable job are Name, Nodes, PPN, Walltime, Queue
// and Command. The zero values of the optional fields mean "directive not
// emitted". Construction applies no validation, callers owning the values may
// run Validate before submission.
type JobSpec struct {
	// Name declares the job name. PBS accepts up to 15 printable
	// non-whitespace characters, first character alphabetic. This is a
	// contract with the scheduler, not enforced here.
	Name string
	// Account is the optional accounting string (#PBS -A)
	Account string
	// Nodes is the number of nodes to request
	Nodes int
	// PPN is the number of processors per node to request
	PPN int
	// Walltime is the requested wall clock time as HH:MM:SS
	Walltime string
	// Pmem is the optional per-node memory request, free form (e.g. "3800mb")
	Pmem string
	// Queue is the destination queue, also emitted as the qos resource
	Queue string
	// Exetime is the optional time after which the job is eligible for
	// execution (#PBS -a), in the scheduler form [[[[CC]YY]MM]DD]hhmm[.SS]
	Exetime string
	// Message selects mail events: one or more of "a", "b", "e", or exactly
	// "n" for none
	Message string
	// Email is the optional mail recipient list user[@host][,user[@host],...]
	Email string
	// Priority ranges from -1024 (low) to 1023 (high), kept as text to
	// preserve its exact formatting
	Priority string
	// Command is the payload executed by the job, may be multi-line
	Command string
	// Auto marks jobs whose command reports its own completion to the job
	// database. Policy flag only, nothing in this package acts on it.
	Auto bool
	// JobID is set after a successful submission and empty before
	JobID string
}

// NewJobSpec returns a JobSpec holding the documented defaults for the
// optional fields
func NewJobSpec() *JobSpec {
	return &JobSpec{
		Message:  DefaultMessage,
		Priority: DefaultPriority,
	}
}

// Procs returns the total process count requested by the job
func (j *JobSpec) Procs() int {
	return j.Nodes * j.PPN
}

var validName = regexp.MustCompile(`^[a-zA-Z][[:graph:]]{0,14}$`)

// Validate checks the constraints callers should honor before submitting.
//
// The serializer never calls it: an invalid JobSpec serializes to an invalid
// script and the scheduler rejects it, which is the historical contract.
func (j *JobSpec) Validate() error {
	var merr *multierror.Error
	if !validName.MatchString(j.Name) {
		merr = multierror.Append(merr, errors.Errorf("invalid job name %q: up to 15 printable non-whitespace characters starting with a letter", j.Name))
	}
	if j.Nodes < 1 {
		merr = multierror.Append(merr, errors.Errorf("invalid nodes count %d: must be a positive integer", j.Nodes))
	}
	if j.PPN < 1 {
		merr = multierror.Append(merr, errors.Errorf("invalid processors per node count %d: must be a positive integer", j.PPN))
	}
	if _, err := WalltimeSeconds(j.Walltime); err != nil {
		merr = multierror.Append(merr, err)
	}
	if j.Queue == "" {
		merr = multierror.Append(merr, errors.New("missing queue"))
	}
	if j.Command == "" {
		merr = multierror.Append(merr, errors.New("missing command"))
	}
	if !validMessage.MatchString(j.Message) {
		merr = multierror.Append(merr, errors.Errorf("invalid mail events selector %q: one or more of \"abe\", or exactly \"n\"", j.Message))
	}
	if prio, err := parsePriority(j.Priority); err != nil {
		merr = multierror.Append(merr, err)
	} else if prio < -1024 || prio > 1023 {
		merr = multierror.Append(merr, errors.Errorf("priority %d out of the scheduler range [-1024, 1023]", prio))
	}
	return merr.ErrorOrNil()
}

var validMessage = regexp.MustCompile(`^(n|[abe]{1,3})$`)
