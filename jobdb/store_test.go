package jobdb

import (
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/hashicorp/consul/sdk/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() Record {
	return Record{
		JobID:    "12345.nyx.arc-ts.umich.edu",
		JobName:  "job1",
		RunDir:   "/scratch/jdoe/run1",
		Status:   StatusUnknown,
		Auto:     true,
		QsubStr:  "#!/bin/sh\n#PBS -N job1\n",
		Walltime: 36000,
		Nodes:    2,
		Procs:    32,
	}
}

func TestRecordKVPairsLayout(t *testing.T) {
	t.Parallel()
	kvps := recordKVPairs(testRecord())
	require.Len(t, kvps, 8)

	keys := make(map[string]string, len(kvps))
	for _, kvp := range kvps {
		keys[kvp.Key] = string(kvp.Value)
	}
	prefix := KVPrefix + "/12345.nyx.arc-ts.umich.edu/"
	assert.Equal(t, "job1", keys[prefix+"jobname"])
	assert.Equal(t, "/scratch/jdoe/run1", keys[prefix+"rundir"])
	assert.Equal(t, StatusUnknown, keys[prefix+"jobstatus"])
	assert.Equal(t, "true", keys[prefix+"auto"])
	assert.Equal(t, "#!/bin/sh\n#PBS -N job1\n", keys[prefix+"qsubstr"])
	assert.Equal(t, "36000", keys[prefix+"walltime"])
	assert.Equal(t, "2", keys[prefix+"nodes"])
	assert.Equal(t, "32", keys[prefix+"procs"])
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()
	rec := testRecord()
	got := recordFromKVPairs(rec.JobID, recordKVPairs(rec))
	require.Equal(t, rec, got)
}

func TestRecordFromKVPairsIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()
	rec := testRecord()
	kvps := recordKVPairs(rec)
	kvps[0].Key = KVPrefix + "/" + rec.JobID + "/something_else"
	got := recordFromKVPairs(rec.JobID, kvps)
	require.Empty(t, got.JobName)
	require.Equal(t, rec.RunDir, got.RunDir)
}

func newTestStore(t *testing.T) *Store {
	srv, err := testutil.NewTestServerConfigT(t, func(c *testutil.TestServerConfig) {
		c.LogLevel = "warn"
	})
	if err != nil {
		t.Skipf("consul test server unavailable: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	cfg := api.DefaultConfig()
	cfg.Address = srv.HTTPAddr
	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	return NewStore(client)
}

func TestStoreAddGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	rec := testRecord()
	require.NoError(t, store.Add(rec))

	got, err := store.Get(rec.JobID)
	require.NoError(t, err)
	require.Equal(t, rec, *got)

	// Adding again with the same id overwrites field by field
	rec.Status = StatusQueued
	rec.Procs = 64
	require.NoError(t, store.Add(rec))
	got, err = store.Get(rec.JobID)
	require.NoError(t, err)
	require.Equal(t, rec, *got)

	_, err = store.Get("0.unknown")
	require.Error(t, err)
	require.True(t, IsRecordNotFoundError(err))

	require.Error(t, store.Add(Record{}))
}

func TestStoreListSetStatusDelete(t *testing.T) {
	store := newTestStore(t)
	first := testRecord()
	second := testRecord()
	second.JobID = "12346.nyx.arc-ts.umich.edu"
	second.JobName = "job2"
	require.NoError(t, store.Add(first))
	require.NoError(t, store.Add(second))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	names := []string{records[0].JobName, records[1].JobName}
	assert.Contains(t, names, "job1")
	assert.Contains(t, names, "job2")

	require.NoError(t, store.SetStatus(first.JobID, StatusRunning))
	got, err := store.Get(first.JobID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	// The other record is untouched
	got, err = store.Get(second.JobID)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, got.Status)

	err = store.SetStatus("0.unknown", StatusRunning)
	require.Error(t, err)
	require.True(t, IsRecordNotFoundError(err))

	require.NoError(t, store.Delete(first.JobID))
	_, err = store.Get(first.JobID)
	require.True(t, IsRecordNotFoundError(err))
	records, err = store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Deleting an absent record is not an error
	require.NoError(t, store.Delete(first.JobID))
}

func TestIsRecordNotFoundError(t *testing.T) {
	t.Parallel()
	err := &recordNotFound{jobID: "42.nyx"}
	require.True(t, IsRecordNotFoundError(err))
	require.False(t, IsRecordNotFoundError(assert.AnError))
	require.Contains(t, err.Error(), "42.nyx")
}
