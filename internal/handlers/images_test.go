package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/handlers"
	"holoframe-backend/internal/models"
)

type stubImages struct {
	removedURL string
	uploaded   []byte
	uploadName string
	err        error
}

func (s *stubImages) RemoveBackground(ctx context.Context, imageURL string) (*models.StoredAsset, error) {
	s.removedURL = imageURL
	if s.err != nil {
		return nil, s.err
	}
	return &models.StoredAsset{
		FileName:  "7.png",
		FilePath:  "removed_backgrounds/7.png",
		PublicURL: "https://xyz.supabase.co/storage/v1/object/public/holo/removed_backgrounds/7.png",
	}, nil
}

func (s *stubImages) UploadUserImage(ctx context.Context, data []byte, fileName, contentType string) (*models.StoredAsset, error) {
	s.uploaded, s.uploadName = data, fileName
	if s.err != nil {
		return nil, s.err
	}
	return &models.StoredAsset{FileName: "3.jpeg", FilePath: "user_images/3.jpeg", PublicURL: "https://cdn/user_images/3.jpeg"}, nil
}

func imagesRouter(images *stubImages) http.Handler {
	router := newRouter(nil)
	h := handlers.NewImagesHandler(images)
	router.POST("/api/v1/remove-background", h.RemoveBackground)
	router.POST("/api/v1/user-images", h.UploadUserImage)
	return router
}

func TestRemoveBackground(t *testing.T) {
	images := &stubImages{}
	router := newRouter(nil)
	router.POST("/api/v1/remove-background", handlers.NewImagesHandler(images).RemoveBackground)

	w := do(router, "POST", "/api/v1/remove-background", map[string]string{"imageUrl": "https://cdn/user_images/3.png"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn/user_images/3.png", images.removedURL)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "removed_backgrounds/7.png", body["filePath"])
	assert.Equal(t, "7.png", body["fileName"])
}

func TestRemoveBackground_Errors(t *testing.T) {
	images := &stubImages{err: apierr.Validation("imageUrl is required")}
	router := newRouter(nil)
	router.POST("/rb", handlers.NewImagesHandler(images).RemoveBackground)

	w := do(router, "POST", "/rb", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")

	w = do(router, "POST", "/rb", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "imageUrl is required", decode(t, w)["error"])

	images.err = apierr.Provider("replicate prediction failed", "model offline")
	w = do(router, "POST", "/rb", map[string]string{"imageUrl": "https://cdn/a.png"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "model offline", decode(t, w)["detail"])
}

func TestUploadUserImage(t *testing.T) {
	images := &stubImages{}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "cat.jpg")
	require.NoError(t, err)
	part.Write([]byte("jpeg-bytes"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/v1/user-images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	imagesRouter(images).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("jpeg-bytes"), images.uploaded)
	assert.Equal(t, "cat.jpg", images.uploadName)
	assert.Equal(t, "user_images/3.jpeg", decode(t, w)["filePath"])
}

func TestUploadUserImage_NoFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "no file here"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/v1/user-images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	imagesRouter(&stubImages{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no file uploaded")
}

func TestUploadUserImage_NotMultipart(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/user-images", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	imagesRouter(&stubImages{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "failed to parse multipart form")
}
