package supabase_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/supabase"
)

func TestStorageClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/holo/veo_video/3.mp4", r.URL.Path)
		assert.Equal(t, "false", r.Header.Get("x-upsert"))
		assert.Equal(t, "video/mp4", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "mp4-bytes", string(body))
		w.Write([]byte(`{"Key":"holo/veo_video/3.mp4"}`))
	}))
	defer srv.Close()

	s, err := supabase.NewStorageClient(srv.URL+"/", "service-key", "holo")
	require.NoError(t, err)

	require.NoError(t, s.Upload("veo_video/3.mp4", []byte("mp4-bytes"), "video/mp4"))
	assert.Equal(t, srv.URL+"/storage/v1/object/public/holo/veo_video/3.mp4", s.PublicURL("veo_video/3.mp4"))
}

func TestStorageClient_UploadConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	s, err := supabase.NewStorageClient(srv.URL, "k", "holo")
	require.NoError(t, err)

	err = s.Upload("user_images/1.png", []byte("x"), "image/png")
	e, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.KindStorage, e.Kind)
	assert.Contains(t, e.Detail, "already exists")
}

func TestStorageClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/list/holo", r.URL.Path)

		var body struct {
			Prefix string `json:"prefix"`
			Limit  int    `json:"limit"`
			SortBy struct {
				Column string `json:"column"`
				Order  string `json:"order"`
			} `json:"sortBy"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "removed_backgrounds", body.Prefix)
		assert.Equal(t, 1000, body.Limit)
		assert.Equal(t, "created_at", body.SortBy.Column)
		assert.Equal(t, "desc", body.SortBy.Order)

		w.Write([]byte(`[
			{"name":"1.png","id":"a","created_at":"2024-05-01T10:00:00Z","metadata":{"size":1024}},
			{"name":"2.png","id":"b","created_at":"2024-05-02T10:00:00Z","metadata":{"size":2048}},
			{"name":".emptyFolderPlaceholder","id":"c","created_at":"2024-04-01T10:00:00Z","metadata":{}},
			{"name":"nested","id":null,"created_at":null,"metadata":null}
		]`))
	}))
	defer srv.Close()

	s, err := supabase.NewStorageClient(srv.URL, "k", "holo")
	require.NoError(t, err)

	objects, err := s.List("removed_backgrounds/", 0)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "2.png", objects[0].Name)
	assert.Equal(t, "removed_backgrounds/2.png", objects[0].Path)
	assert.Equal(t, int64(2048), objects[0].Size)
	assert.Equal(t, "1.png", objects[1].Name)
}

func TestStorageClient_Remove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/holo", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"veo_video/1.mp4"}, body["prefixes"])
		w.Write([]byte(`[{"name":"veo_video/1.mp4"}]`))
	}))
	defer srv.Close()

	s, err := supabase.NewStorageClient(srv.URL, "k", "holo")
	require.NoError(t, err)
	require.NoError(t, s.Remove("veo_video/1.mp4"))
	require.NoError(t, s.Remove())
}

func TestNewStorageClient_RequiresBucket(t *testing.T) {
	_, err := supabase.NewStorageClient("https://x.supabase.co", "k", "")
	assert.True(t, apierr.Is(err, apierr.KindConfiguration))
}
