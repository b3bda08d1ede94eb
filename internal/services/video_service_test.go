package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/models"
	"holoframe-backend/internal/prompts"
	"holoframe-backend/internal/services"
	"holoframe-backend/internal/vertex"
)

type videoFixture struct {
	db        *fakeDB
	store     *memoryStore
	replicate *fakeReplicate
	veo       *fakeVeo
	svc       *services.VideoService
	bearer    string
}

func newVideoFixture(t *testing.T) *videoFixture {
	t.Helper()
	f := &videoFixture{
		db:        newFakeDB(),
		store:     newMemoryStore(),
		replicate: &fakeReplicate{url: "https://replicate.delivery/video.mp4"},
		veo:       &fakeVeo{},
	}
	client := downloadClient(map[string]route{
		"https://replicate.delivery/video.mp4":                 okRoute("video/mp4", "replicate-mp4"),
		"https://xyz.supabase.co/img/removed.png":              okRoute("image/png", "png-bytes"),
		"https://storage.googleapis.com/holo-out/videos/f.mp4": okRoute("video/mp4", "veo-mp4"),
	}, func(r *http.Request) {
		if strings.HasPrefix(r.URL.String(), "https://storage.googleapis.com/") {
			f.bearer = r.Header.Get("Authorization")
		}
	})
	assets := services.NewMaterializer(f.store,
		services.WithDownloadClient(client),
		services.WithTokenProvider(staticTokens("ya29.veo")),
	)
	f.svc = services.NewVideoService(
		services.NewBiller(f.db, 10, nil),
		f.db,
		f.db,
		f.replicate,
		f.veo,
		assets,
		services.VideoServiceConfig{ReplicateModel: "google/veo-3-fast", VeoStorageURI: "gs://holo-out/videos"},
		nil,
	)
	return f
}

func TestCreateVideo_InsufficientCreditMakesNoCalls(t *testing.T) {
	f := newVideoFixture(t)
	userID := f.db.addProfile(5)

	_, err := f.svc.CreateVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL: "https://xyz.supabase.co/img/removed.png",
		Prompt:   "rotate",
		Platform: models.PlatformReplicate,
	})

	e, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.KindInsufficientCredit, e.Kind)
	assert.Equal(t, http.StatusBadRequest, e.Status())
	assert.Equal(t, 0, f.replicate.calls)
	assert.Equal(t, 0, f.veo.submitCount())
	assert.Equal(t, 0, f.store.uploadCount())
	assert.Equal(t, 5, f.db.credit(userID))
}

func TestCreateVideo_Replicate(t *testing.T) {
	f := newVideoFixture(t)
	userID := f.db.addProfile(50)

	res, err := f.svc.CreateVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL:         "https://xyz.supabase.co/img/removed.png",
		Prompt:           "  slow spin  ",
		HologramType:     "4sides",
		Title:            "Cat",
		OriginalImageURL: "https://xyz.supabase.co/img/original.png",
	})
	require.NoError(t, err)

	fileName := userID.String() + "_1.mp4"
	assert.Equal(t, models.PlatformReplicate, res.Platform)
	assert.Equal(t, fileName, res.FileName)
	assert.Equal(t, "veo_video/"+fileName, res.FilePath)
	assert.Equal(t, 40, res.RemainingCredit)
	assert.Equal(t, 40, f.db.credit(userID))

	require.Len(t, f.replicate.inputs, 1)
	in := f.replicate.inputs[0]
	assert.Equal(t, "google/veo-3-fast", in.Model)
	assert.Equal(t, prompts.CreateHologramPrompt("slow spin", prompts.FourSides), in.Prompt)

	require.Len(t, f.db.holograms, 1)
	h := f.db.holograms[0]
	assert.Equal(t, "https://xyz.supabase.co/img/original.png", h.OriginalImageURL)
	assert.Equal(t, "https://xyz.supabase.co/img/removed.png", h.BackgroundRemovedImageURL.String)
	assert.Equal(t, res.VideoURL, h.VideoURL)
	assert.Equal(t, "4sides", h.HologramType)
}

func TestCreateVideo_VeoRewritesGCSURI(t *testing.T) {
	f := newVideoFixture(t)
	f.veo.result = vertex.Result{Kind: vertex.KindGCSURIVideo, URI: "gs://holo-out/videos/f.mp4"}
	userID := f.db.addProfile(10)

	res, err := f.svc.CreateVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL: "https://xyz.supabase.co/img/removed.png",
		Prompt:   "float",
		Platform: models.PlatformVeo,
	})
	require.NoError(t, err)

	require.Len(t, f.veo.submitted, 1)
	req := f.veo.submitted[0]
	assert.Equal(t, "png-bytes", string(req.ImageBytes))
	assert.Equal(t, "image/png", req.ImageMimeType)
	assert.Equal(t, "gs://holo-out/videos", req.StorageURI)
	assert.Equal(t, prompts.CreateHologramPrompt("float", prompts.OneSide), req.Prompt)
	assert.Equal(t, 1, strings.Count(req.Prompt, prompts.Base1Side))

	assert.Equal(t, "Bearer ya29.veo", f.bearer)
	assert.Equal(t, 0, res.RemainingCredit)
	assert.Equal(t, "veo-mp4", string(f.store.objects[res.FilePath]))
	assert.Equal(t, "video/mp4", f.store.types[res.FilePath])
}

func TestCreateVideo_ProviderFailureDoesNotCharge(t *testing.T) {
	f := newVideoFixture(t)
	f.veo.waitErr = apierr.Timeout("video generation timed out after 150 polls (영상 생성 시간 초과)")
	userID := f.db.addProfile(30)

	_, err := f.svc.CreateVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL: "https://xyz.supabase.co/img/removed.png",
		Prompt:   "float",
		Platform: models.PlatformVeo,
	})

	assert.True(t, apierr.Is(err, apierr.KindTimeout))
	assert.Equal(t, 0, f.db.deductions)
	assert.Equal(t, 30, f.db.credit(userID))
	assert.Equal(t, 0, f.store.uploadCount())
}

func TestCreateVideo_DeductionFailureStillSucceeds(t *testing.T) {
	f := newVideoFixture(t)
	f.db.deductErr = errors.New("connection reset by peer")
	userID := f.db.addProfile(25)

	res, err := f.svc.CreateVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL: "https://xyz.supabase.co/img/removed.png",
		Prompt:   "spin",
	})

	require.NoError(t, err)
	assert.Equal(t, 25, res.RemainingCredit)
	assert.Equal(t, []string{models.LedgerStatusUnreconciled + ":" + res.FilePath}, f.db.ledger)
}

func TestCreateVideo_Validation(t *testing.T) {
	f := newVideoFixture(t)
	userID := f.db.addProfile(50)

	cases := []services.CreateVideoInput{
		{Prompt: "p"},
		{ImageURL: "https://x/y.png"},
		{ImageURL: "https://x/y.png", Prompt: "p", Platform: "sora"},
		{ImageURL: "https://x/y.png", Prompt: "p", HologramType: "8sides"},
	}
	for _, in := range cases {
		_, err := f.svc.CreateVideo(context.Background(), userID, in)
		assert.True(t, apierr.Is(err, apierr.KindValidation), "%+v", in)
	}
	assert.Equal(t, 0, f.replicate.calls)
}

func TestCreateVideo_MissingProfile(t *testing.T) {
	f := newVideoFixture(t)
	_, err := f.svc.CreateVideo(context.Background(), uuid.New(), services.CreateVideoInput{
		ImageURL: "https://x/y.png",
		Prompt:   "p",
	})
	assert.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestStartVideo_PersistsJobWithoutCharging(t *testing.T) {
	f := newVideoFixture(t)
	userID := f.db.addProfile(10)

	job, err := f.svc.StartVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL: "https://xyz.supabase.co/img/removed.png",
		Prompt:   "float",
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusSubmitted, job.Status)
	assert.True(t, strings.HasSuffix(job.OperationName, "/operations/op-1"))
	assert.Equal(t, userID, job.UserID)
	assert.Equal(t, 10, f.db.credit(userID))
	assert.Equal(t, 0, f.db.deductions)

	_, err = f.svc.StartVideo(context.Background(), userID, services.CreateVideoInput{
		ImageURL: "https://xyz.supabase.co/img/removed.png",
		Prompt:   "float",
		Platform: models.PlatformReplicate,
	})
	assert.True(t, apierr.Is(err, apierr.KindValidation))
}
