package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/services"
)

type fakeRemover struct {
	calls   int
	version string
	url     string
	err     error
}

func (f *fakeRemover) RemoveBackground(ctx context.Context, imageURL, version string) (string, error) {
	f.calls++
	f.version = version
	return f.url, f.err
}

func newImageService(remover *fakeRemover, store *memoryStore) *services.ImageService {
	assets := services.NewMaterializer(store, services.WithDownloadClient(downloadClient(map[string]route{
		"https://r/2.png": okRoute("image/png", "cutout"),
	}, nil)))
	return services.NewImageService(remover, "rembg-v1", assets, nil)
}

func TestRemoveBackground_StoresNextSequentialPNG(t *testing.T) {
	remover := &fakeRemover{url: "https://r/2.png"}
	store := newMemoryStore("removed_backgrounds/1.png", "removed_backgrounds/4.png", "removed_backgrounds/notes.txt")

	asset, err := newImageService(remover, store).RemoveBackground(context.Background(), "https://x/1.jpg")

	require.NoError(t, err)
	assert.Equal(t, "rembg-v1", remover.version)
	assert.Equal(t, "5.png", asset.FileName)
	assert.Equal(t, "removed_backgrounds/5.png", asset.FilePath)
	assert.Equal(t, store.PublicURL("removed_backgrounds/5.png"), asset.PublicURL)
	assert.Equal(t, "cutout", string(store.objects[asset.FilePath]))
	assert.Equal(t, "image/png", store.types[asset.FilePath])
}

func TestRemoveBackground_Errors(t *testing.T) {
	remover := &fakeRemover{}
	svc := newImageService(remover, newMemoryStore())

	_, err := svc.RemoveBackground(context.Background(), " ")
	assert.True(t, apierr.Is(err, apierr.KindValidation))
	assert.Equal(t, 0, remover.calls)

	remover.err = apierr.Provider("background removal failed", `{"error":"bad image"}`)
	_, err = svc.RemoveBackground(context.Background(), "https://x/1.jpg")
	assert.True(t, apierr.Is(err, apierr.KindProvider))

	remover.err = nil
	remover.url = "https://r/missing.png"
	_, err = svc.RemoveBackground(context.Background(), "https://x/1.jpg")
	assert.True(t, apierr.Is(err, apierr.KindStorage))
}

func TestUploadUserImage(t *testing.T) {
	store := newMemoryStore("user_images/2.jpg")
	svc := newImageService(&fakeRemover{}, store)

	asset, err := svc.UploadUserImage(context.Background(), []byte("jpeg"), "cat.JPEG", "")
	require.NoError(t, err)
	assert.Equal(t, "user_images/3.jpeg", asset.FilePath)
	assert.Equal(t, "image/jpeg", store.types[asset.FilePath])

	asset, err = svc.UploadUserImage(context.Background(), []byte("png"), "blob", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "user_images/4.png", asset.FilePath)
}

func TestUploadUserImage_Validation(t *testing.T) {
	svc := newImageService(&fakeRemover{}, newMemoryStore())

	_, err := svc.UploadUserImage(context.Background(), nil, "a.png", "image/png")
	assert.True(t, apierr.Is(err, apierr.KindValidation))

	_, err = svc.UploadUserImage(context.Background(), []byte("%PDF"), "a.pdf", "application/pdf")
	assert.True(t, apierr.Is(err, apierr.KindValidation))

	_, err = svc.UploadUserImage(context.Background(), make([]byte, services.MaxUserImageSize+1), "a.png", "image/png")
	assert.True(t, apierr.Is(err, apierr.KindValidation))
}
