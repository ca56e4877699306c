package pbs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prisms-center/gopbs/jobdb"
)

// MockSchedulerClient allows to mock the SSH transport to a cluster front-end
type MockSchedulerClient struct {
	MockRunCommand func(string) (string, error)
	MockCopyFile   func(io.Reader, string, string) error

	uploadedPath    string
	uploadedContent string
}

// RunCommand to mock a command ran via SSH
func (c *MockSchedulerClient) RunCommand(cmd string) (string, error) {
	if c.MockRunCommand != nil {
		return c.MockRunCommand(cmd)
	}
	return "", nil
}

// CopyFile to mock a file upload via scp
func (c *MockSchedulerClient) CopyFile(source io.Reader, remotePath, permissions string) error {
	if c.MockCopyFile != nil {
		return c.MockCopyFile(source, remotePath, permissions)
	}
	content, err := io.ReadAll(source)
	if err != nil {
		return err
	}
	c.uploadedPath = remotePath
	c.uploadedContent = string(content)
	return nil
}

func TestRemoteSubmitter(t *testing.T) {
	t.Parallel()
	var runCmd string
	client := &MockSchedulerClient{
		MockRunCommand: func(cmd string) (string, error) {
			runCmd = cmd
			return "12345.nyx.arc-ts.umich.edu\n", nil
		},
	}
	submitter := &RemoteSubmitter{Client: client, WorkingDir: "/scratch/jdoe"}

	job := minimalJob()
	jobID, err := submitter.Submit(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, "12345.nyx.arc-ts.umich.edu", jobID)

	assert.Equal(t, job.Script(), client.uploadedContent)
	assert.True(t, strings.HasPrefix(client.uploadedPath, "/scratch/jdoe/gopbs_submit_"))
	assert.True(t, strings.HasPrefix(runCmd, "cd /scratch/jdoe; qsub gopbs_submit_"))
}

// An upload failure must abort the submission, qsub is never invoked on a
// possibly truncated script
func TestRemoteSubmitterUploadFailure(t *testing.T) {
	t.Parallel()
	ranCommand := false
	client := &MockSchedulerClient{
		MockCopyFile: func(source io.Reader, remotePath, permissions string) error {
			return errors.New("connection reset during transfer")
		},
		MockRunCommand: func(cmd string) (string, error) {
			ranCommand = true
			return "12345.nyx\n", nil
		},
	}
	submitter := &RemoteSubmitter{Client: client, WorkingDir: "/scratch/jdoe"}

	_, err := submitter.Submit(context.Background(), minimalJob())
	require.Error(t, err)
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Reason, "failed to upload submit script")
	assert.False(t, ranCommand)
}

func TestRemoteSubmitterCommandFailure(t *testing.T) {
	t.Parallel()
	client := &MockSchedulerClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "qsub: submit error (Unknown queue MSG=cannot locate queue)", errors.New("exit status 1")
		},
	}
	submitter := &RemoteSubmitter{Client: client}

	_, err := submitter.Submit(context.Background(), minimalJob())
	require.Error(t, err)
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Reason, "Unknown queue")
}

func TestRemoteSubmitterEmptyOutput(t *testing.T) {
	t.Parallel()
	client := &MockSchedulerClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "", nil
		},
	}
	submitter := &RemoteSubmitter{Client: client}

	_, err := submitter.Submit(context.Background(), minimalJob())
	require.Error(t, err)
	require.True(t, errors.As(err, new(*SubmissionError)))
}

type mockSubmitter struct {
	jobID  string
	err    error
	called bool
}

func (m *mockSubmitter) Submit(ctx context.Context, job *JobSpec) (string, error) {
	m.called = true
	return m.jobID, m.err
}

type mockRecordStore struct {
	added []jobdb.Record
	err   error
}

func (m *mockRecordStore) Add(rec jobdb.Record) error {
	m.added = append(m.added, rec)
	return m.err
}

func TestSubmitAndRecord(t *testing.T) {
	t.Parallel()
	submitter := &mockSubmitter{jobID: "12345.nyx"}
	store := &mockRecordStore{}
	job := minimalJob()
	job.Auto = true

	jobID, err := SubmitAndRecord(context.Background(), submitter, store, job)
	require.NoError(t, err)
	require.Equal(t, "12345.nyx", jobID)
	require.Equal(t, "12345.nyx", job.JobID)

	require.Len(t, store.added, 1)
	rec := store.added[0]
	assert.Equal(t, "12345.nyx", rec.JobID)
	assert.Equal(t, "job1", rec.JobName)
	assert.Equal(t, jobdb.StatusUnknown, rec.Status)
	assert.True(t, rec.Auto)
	assert.Equal(t, job.Script(), rec.QsubStr)
	assert.Equal(t, int64(36000), rec.Walltime)
	assert.Equal(t, 2, rec.Nodes)
	assert.Equal(t, 32, rec.Procs)
	assert.NotEmpty(t, rec.RunDir)
}

func TestSubmitAndRecordWithNilStore(t *testing.T) {
	t.Parallel()
	submitter := &mockSubmitter{jobID: "1.nyx"}
	jobID, err := SubmitAndRecord(context.Background(), submitter, nil, minimalJob())
	require.NoError(t, err)
	require.Equal(t, "1.nyx", jobID)
}

// A malformed walltime must fail before the job is dispatched, not after
func TestSubmitAndRecordInvalidWalltime(t *testing.T) {
	t.Parallel()
	submitter := &mockSubmitter{jobID: "1.nyx"}
	store := &mockRecordStore{}
	job := minimalJob()
	job.Walltime = "soon"

	_, err := SubmitAndRecord(context.Background(), submitter, store, job)
	require.Error(t, err)
	assert.False(t, submitter.called)
	assert.Empty(t, store.added)
}

func TestSubmitAndRecordSubmissionFailure(t *testing.T) {
	t.Parallel()
	submitter := &mockSubmitter{err: &SubmissionError{Reason: "queue disabled"}}
	store := &mockRecordStore{}

	_, err := SubmitAndRecord(context.Background(), submitter, store, minimalJob())
	require.Error(t, err)
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Empty(t, store.added)
}
