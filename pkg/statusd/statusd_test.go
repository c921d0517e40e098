package statusd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/praetorian-inc/rewrite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_SnapshotAggregates(t *testing.T) {
	tr := NewTracker()
	tr.BatchStarted(3)
	tr.FileFinished(types.ProcessingResult{FilePath: "a.txt", OK: true, ReplacementCount: 2})
	tr.FileFinished(types.ProcessingResult{FilePath: "b.txt", OK: false, ErrMsg: "boom"})

	snap := tr.Snapshot()
	assert.Equal(t, 3, snap.TotalFiles)
	assert.Equal(t, 2, snap.CompletedFiles)
	assert.Equal(t, 1, snap.FailedFiles)
	assert.Equal(t, 2, snap.TotalReplacements)
	assert.Equal(t, "boom", snap.Files["b.txt"].Error)
}

func TestTracker_BatchStartedResets(t *testing.T) {
	tr := NewTracker()
	tr.BatchStarted(1)
	tr.FileFinished(types.ProcessingResult{FilePath: "a.txt", OK: true})
	tr.BatchStarted(5)

	snap := tr.Snapshot()
	assert.Equal(t, 5, snap.TotalFiles)
	assert.Equal(t, 0, snap.CompletedFiles)
}

func TestServer_ServesSnapshotJSON(t *testing.T) {
	tr := NewTracker()
	tr.BatchStarted(1)
	tr.FileFinished(types.ProcessingResult{FilePath: "a.txt", OK: true, ReplacementCount: 4})

	srv := NewServer(tr, "127.0.0.1:0")
	require.NoError(t, srv.Start())
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr() + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 1, snap.CompletedFiles)
	assert.Equal(t, 4, snap.TotalReplacements)
}

func TestServer_RejectsNonGET(t *testing.T) {
	srv := NewServer(NewTracker(), "127.0.0.1:0")
	require.NoError(t, srv.Start())
	defer srv.Close()

	resp, err := http.Post("http://"+srv.Addr()+"/status", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
