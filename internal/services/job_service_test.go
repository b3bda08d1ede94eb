package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/services"
	"holoframe-backend/internal/vertex"
)

type jobFixture struct {
	db     *fakeDB
	veo    *fakeVeo
	store  *memoryStore
	events *fakeEvents
	svc    *services.JobService
	job    *models.GenerationJob
}

func newJobFixture(t *testing.T, credit, maxPolls int) *jobFixture {
	t.Helper()
	f := &jobFixture{
		db:     newFakeDB(),
		veo:    &fakeVeo{ops: map[string]*vertex.Operation{}},
		store:  newMemoryStore(),
		events: &fakeEvents{},
	}
	userID := f.db.addProfile(credit)
	job, err := f.db.CreateJob(context.Background(), &models.GenerationJob{
		UserID:           userID,
		OperationName:    opName,
		Platform:         models.PlatformVeo,
		Status:           models.JobStatusSubmitted,
		Prompt:           "float",
		HologramType:     "1side",
		OriginalImageURL: "https://xyz.supabase.co/img/original.png",
		SourceImageURL:   "https://xyz.supabase.co/img/removed.png",
	})
	require.NoError(t, err)
	f.job = job

	assets := services.NewMaterializer(f.store,
		services.WithObjectReader(fakeObjects{"gs://holo-out/videos/op9.mp4": []byte("op9-mp4")}),
	)
	f.svc = services.NewJobService(f.db, f.veo, assets, services.NewBiller(f.db, 10, nil), f.db, f.events, maxPolls, nil)
	return f
}

func (f *jobFixture) status() string {
	j, _ := f.db.GetJobByOperation(context.Background(), opName)
	return j.Status
}

func TestProcessJob_PendingIncrementsPolls(t *testing.T) {
	f := newJobFixture(t, 20, 3)

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))

	j, _ := f.db.GetJobByOperation(context.Background(), opName)
	assert.Equal(t, 1, j.Polls)
	assert.Equal(t, models.JobStatusProcessing, j.Status)
	assert.Empty(t, f.events.events)
}

func TestProcessJob_TimesOutAtMaxPolls(t *testing.T) {
	f := newJobFixture(t, 20, 2)
	f.veo.fetchErr = errors.New("503 backend unavailable")

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))
	assert.Equal(t, models.JobStatusProcessing, f.status())

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))
	assert.Equal(t, models.JobStatusTimedOut, f.status())
	assert.Contains(t, f.db.failed[f.job.ID], "timed out after 2 polls")

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, services.EventJobFailed, ev.Event)
	assert.Equal(t, f.job.UserID, ev.UserID)
	assert.Equal(t, models.JobStatusTimedOut, ev.Payload["status"])
	assert.Equal(t, 20, f.db.credit(f.job.UserID))
}

func TestProcessJob_CompletedChargesAndPublishes(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	f.veo.ops[opName] = &vertex.Operation{
		Name:     opName,
		Done:     true,
		Response: json.RawMessage(`{"predictions":[{"storageUri":"gs://holo-out/videos/op9.mp4"}]}`),
	}

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))

	path := "veo_video/" + f.job.UserID.String() + "_1.mp4"
	assert.Equal(t, "op9-mp4", string(f.store.objects[path]))
	assert.Equal(t, models.JobStatusSucceeded, f.status())
	assert.Equal(t, f.store.PublicURL(path), f.db.succeeded[f.job.ID])
	assert.Equal(t, 10, f.db.credit(f.job.UserID))
	assert.Equal(t, []string{models.LedgerStatusCharged + ":" + opName}, f.db.ledger)

	require.Len(t, f.db.holograms, 1)
	assert.Equal(t, "https://xyz.supabase.co/img/removed.png", f.db.holograms[0].BackgroundRemovedImageURL.String)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, services.EventJobCompleted, ev.Event)
	assert.Equal(t, 10, ev.Payload["remaining_credit"])
	assert.Equal(t, f.store.PublicURL(path), ev.Payload["video_url"])
}

func TestProcessJob_ConcurrentWorkersCompleteOnce(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	f.veo.ops[opName] = &vertex.Operation{
		Name:     opName,
		Done:     true,
		Response: json.RawMessage(`{"predictions":[{"storageUri":"gs://holo-out/videos/op9.mp4"}]}`),
	}

	var wg sync.WaitGroup
	for range 2 {
		snapshot := *f.job
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.svc.ProcessJob(context.Background(), &snapshot))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.store.uploadCount())
	assert.Equal(t, 1, f.db.deductions)
	assert.Equal(t, 10, f.db.credit(f.job.UserID))
	assert.Len(t, f.db.holograms, 1)
	assert.Len(t, f.events.events, 1)
	assert.Equal(t, models.JobStatusSucceeded, f.status())
}

func TestProcessJob_StaleSnapshotIsSkipped(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	f.veo.ops[opName] = &vertex.Operation{
		Name:     opName,
		Done:     true,
		Response: json.RawMessage(`{"predictions":[{"storageUri":"gs://holo-out/videos/op9.mp4"}]}`),
	}
	stale := *f.job

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))
	require.NoError(t, f.svc.ProcessJob(context.Background(), &stale))

	assert.Equal(t, 1, f.store.uploadCount())
	assert.Equal(t, 10, f.db.credit(f.job.UserID))
	assert.Len(t, f.events.events, 1)
}

func TestProcessJob_PendingAfterClaimLeavesJobAlone(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	claimed, err := f.db.ClaimJob(context.Background(), f.job.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	f.veo.fetchErr = errors.New("connection reset")
	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))

	assert.Equal(t, models.JobStatusMaterializing, f.status())
	assert.Empty(t, f.events.events)
}

func TestProcessJob_OperationErrorMarksFailed(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	f.veo.ops[opName] = &vertex.Operation{
		Name:  opName,
		Done:  true,
		Error: &vertex.OperationError{Code: 3, Message: "prompt blocked"},
	}

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))

	assert.Equal(t, models.JobStatusFailed, f.status())
	assert.Contains(t, f.db.failed[f.job.ID], "prompt blocked")
	assert.Equal(t, 0, f.db.deductions)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, services.EventJobFailed, f.events.events[0].Event)
}

func TestProcessJob_UnstorableResultFailsJob(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	f.veo.ops[opName] = &vertex.Operation{
		Name:     opName,
		Done:     true,
		Response: json.RawMessage(`{"videos":[{"gcsUri":"gs://holo-out/videos/missing.mp4"}]}`),
	}

	require.NoError(t, f.svc.ProcessJob(context.Background(), f.job))

	assert.Equal(t, models.JobStatusFailed, f.status())
	assert.Contains(t, f.db.failed[f.job.ID], "failed to store video")
	assert.Equal(t, 0, f.db.deductions)
}

func TestListPending(t *testing.T) {
	f := newJobFixture(t, 20, 5)
	jobs, err := f.svc.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, opName, jobs[0].OperationName)
}
