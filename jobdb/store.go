package jobdb

import (
	"path"
	"strconv"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
)

// KVPrefix is the root of the job records subtree in the Consul KV store
const KVPrefix = "gopbs/jobs"

const consulGenericErrMsg = "consul KV error"

type recordNotFound struct {
	jobID string
}

func (r *recordNotFound) Error() string {
	return "no job record found with id: " + r.jobID
}

// IsRecordNotFoundError checks if the given error is a job record not found error
func IsRecordNotFoundError(err error) bool {
	_, ok := errors.Cause(err).(*recordNotFound)
	return ok
}

// Store gives access to the job records held in Consul. One KV key per
// record field, under KVPrefix/<jobID>/.
type Store struct {
	kv *api.KV
}

// NewStore creates a job record store backed by the given Consul client
func NewStore(client *api.Client) *Store {
	return &Store{kv: client.KV()}
}

// Add persists a job record. An existing record with the same id is
// overwritten field by field.
func (s *Store) Add(rec Record) error {
	if rec.JobID == "" {
		return errors.New("cannot add a job record without a job id")
	}
	for _, kvp := range recordKVPairs(rec) {
		if _, err := s.kv.Put(kvp, nil); err != nil {
			return errors.Wrap(err, consulGenericErrMsg)
		}
	}
	return nil
}

// Get returns the record of the given job id, or a record not found error
func (s *Store) Get(jobID string) (*Record, error) {
	kvps, _, err := s.kv.List(path.Join(KVPrefix, jobID)+"/", nil)
	if err != nil {
		return nil, errors.Wrap(err, consulGenericErrMsg)
	}
	if len(kvps) == 0 {
		return nil, errors.WithStack(&recordNotFound{jobID: jobID})
	}
	rec := recordFromKVPairs(jobID, kvps)
	return &rec, nil
}

// List returns all persisted job records
func (s *Store) List() ([]Record, error) {
	ids, _, err := s.kv.Keys(KVPrefix+"/", "/", nil)
	if err != nil {
		return nil, errors.Wrap(err, consulGenericErrMsg)
	}
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(path.Base(strings.TrimSuffix(id, "/")))
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// SetStatus updates the lifecycle tag of the given job. This is the mutation
// hook used by the external process polling the scheduler.
func (s *Store) SetStatus(jobID, status string) error {
	if _, err := s.Get(jobID); err != nil {
		return err
	}
	kvp := &api.KVPair{Key: path.Join(KVPrefix, jobID, "jobstatus"), Value: []byte(status)}
	_, err := s.kv.Put(kvp, nil)
	return errors.Wrap(err, consulGenericErrMsg)
}

// Delete removes the record of the given job id. Deleting an absent record
// is not an error.
func (s *Store) Delete(jobID string) error {
	_, err := s.kv.DeleteTree(path.Join(KVPrefix, jobID)+"/", nil)
	return errors.Wrap(err, consulGenericErrMsg)
}

func recordKVPairs(rec Record) api.KVPairs {
	prefix := path.Join(KVPrefix, rec.JobID)
	return api.KVPairs{
		{Key: path.Join(prefix, "jobname"), Value: []byte(rec.JobName)},
		{Key: path.Join(prefix, "rundir"), Value: []byte(rec.RunDir)},
		{Key: path.Join(prefix, "jobstatus"), Value: []byte(rec.Status)},
		{Key: path.Join(prefix, "auto"), Value: []byte(strconv.FormatBool(rec.Auto))},
		{Key: path.Join(prefix, "qsubstr"), Value: []byte(rec.QsubStr)},
		{Key: path.Join(prefix, "walltime"), Value: []byte(strconv.FormatInt(rec.Walltime, 10))},
		{Key: path.Join(prefix, "nodes"), Value: []byte(strconv.Itoa(rec.Nodes))},
		{Key: path.Join(prefix, "procs"), Value: []byte(strconv.Itoa(rec.Procs))},
	}
}

func recordFromKVPairs(jobID string, kvps api.KVPairs) Record {
	rec := Record{JobID: jobID}
	for _, kvp := range kvps {
		value := string(kvp.Value)
		switch path.Base(kvp.Key) {
		case "jobname":
			rec.JobName = value
		case "rundir":
			rec.RunDir = value
		case "jobstatus":
			rec.Status = value
		case "auto":
			rec.Auto, _ = strconv.ParseBool(value)
		case "qsubstr":
			rec.QsubStr = value
		case "walltime":
			rec.Walltime, _ = strconv.ParseInt(value, 10, 64)
		case "nodes":
			rec.Nodes, _ = strconv.Atoi(value)
		case "procs":
			rec.Procs, _ = strconv.Atoi(value)
		}
	}
	return rec
}
