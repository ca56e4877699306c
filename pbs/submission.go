package pbs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/prisms-center/gopbs/config"
	"github.com/prisms-center/gopbs/helper/executil"
	"github.com/prisms-center/gopbs/helper/stringutil"
	"github.com/prisms-center/gopbs/jobdb"
	"github.com/prisms-center/gopbs/log"
)

// Submitter dispatches a rendered job script to a scheduler submission
// mechanism and returns the opaque job identifier. Implementations never
// retry, the caller decides.
type Submitter interface {
	Submit(ctx context.Context, job *JobSpec) (string, error)
}

// SchedulerClient is the transport a RemoteSubmitter needs on the cluster
// front-end. *sshutil.SSHClient satisfies it.
type SchedulerClient interface {
	RunCommand(cmd string) (string, error)
	CopyFile(source io.Reader, remotePath string, permissions string) error
}

// QsubSubmitter submits jobs by piping the script to a local qsub binary
type QsubSubmitter struct {
	// QsubPath is the submission binary, config.DefaultQsubPath if empty
	QsubPath string
}

// Submit runs qsub with the rendered script on stdin and returns the job
// identifier it prints. The context cancels the qsub process tree.
func (s *QsubSubmitter) Submit(ctx context.Context, job *JobSpec) (string, error) {
	qsub := s.QsubPath
	if qsub == "" {
		qsub = config.DefaultQsubPath
	}
	cmd := executil.Command(ctx, qsub)
	cmd.Stdin = strings.NewReader(job.Script())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debugf("Submitting job %q via %q", job.Name, qsub)
	if err := cmd.Run(); err != nil {
		return "", &SubmissionError{Reason: strings.TrimSpace(stderr.String()), cause: err}
	}
	jobID, err := parseJobIDFromQsubOutput(stdout.String())
	if err != nil {
		return "", &SubmissionError{cause: err}
	}
	return jobID, nil
}

// RemoteSubmitter submits jobs on a cluster front-end reached over SSH: the
// script is uploaded under the remote working directory and qsub is invoked
// there
type RemoteSubmitter struct {
	Client SchedulerClient
	// WorkingDir is the remote directory the script is uploaded to and
	// submitted from, "." if empty
	WorkingDir string
}

// Submit uploads the rendered script and runs qsub on it
func (s *RemoteSubmitter) Submit(ctx context.Context, job *JobSpec) (string, error) {
	wd := s.WorkingDir
	if wd == "" {
		wd = "."
	}
	scriptName := stringutil.UniqueTimestampedName("gopbs_submit_", ".sh")
	remotePath := path.Join(wd, scriptName)
	if err := s.Client.CopyFile(strings.NewReader(job.Script()), remotePath, "0644"); err != nil {
		return "", &SubmissionError{Reason: fmt.Sprintf("failed to upload submit script to %q", remotePath), cause: err}
	}

	cmd := fmt.Sprintf("cd %s; qsub %s", wd, scriptName)
	log.Debugf("Submitting job %q with command: %q", job.Name, cmd)
	output, err := s.Client.RunCommand(cmd)
	if err != nil {
		return "", &SubmissionError{Reason: strings.TrimSpace(output), cause: err}
	}
	jobID, err := parseJobIDFromQsubOutput(output)
	if err != nil {
		return "", &SubmissionError{cause: err}
	}
	return jobID, nil
}

// RecordStore is the subset of the job database needed at submission time
type RecordStore interface {
	Add(rec jobdb.Record) error
}

// SubmitAndRecord submits the job and, on success, sets its JobID and adds a
// job database record with the unknown status tag. A nil store only submits.
//
// The walltime is converted before submitting so a malformed one fails early
// instead of leaving a submitted job unrecorded.
func SubmitAndRecord(ctx context.Context, submitter Submitter, store RecordStore, job *JobSpec) (string, error) {
	seconds, err := WalltimeSeconds(job.Walltime)
	if err != nil {
		return "", errors.Wrap(err, "cannot build a job record")
	}
	runDir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine the job run directory")
	}

	jobID, err := submitter.Submit(ctx, job)
	if err != nil {
		return "", err
	}
	job.JobID = jobID
	log.Printf("Submitted job %q with id %q", job.Name, jobID)

	if store == nil {
		return jobID, nil
	}
	rec := jobdb.Record{
		JobID:    jobID,
		JobName:  job.Name,
		RunDir:   runDir,
		Status:   jobdb.StatusUnknown,
		Auto:     job.Auto,
		QsubStr:  job.Script(),
		Walltime: seconds,
		Nodes:    job.Nodes,
		Procs:    job.Procs(),
	}
	if err := store.Add(rec); err != nil {
		return jobID, errors.Wrapf(err, "job %q was submitted but recording it failed", jobID)
	}
	return jobID, nil
}
