package supabase

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	storage "github.com/supabase-community/storage-go"
	"holoframe-backend/internal/apierr"
)

// StoredObject is one entry of a folder listing.
type StoredObject struct {
	Name      string
	Path      string
	Size      int64
	CreatedAt string
}

type StorageClient struct {
	apiURL  string
	key     string
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	if supabaseURL == "" || serviceRoleKey == "" {
		return nil, apierr.Configuration("SUPABASE_URL and a Supabase key are required for storage")
	}
	if bucket == "" {
		return nil, apierr.Configuration("SUPABASE_STORAGE_BUCKET is not configured")
	}
	baseURL := strings.TrimRight(supabaseURL, "/")

	return &StorageClient{
		apiURL:  baseURL + "/storage/v1",
		key:     serviceRoleKey,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// storage-go keeps upload options in headers shared by every call on a
// client, so each operation gets its own.
func (s *StorageClient) client() *storage.Client {
	return storage.NewClient(s.apiURL, s.key, nil)
}

func (s *StorageClient) Bucket() string {
	return s.bucket
}

// Upload writes data at path and fails if the object already exists.
func (s *StorageClient) Upload(path string, data []byte, contentType string) error {
	cacheControl := "3600"
	upsert := false
	_, err := s.client().UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		CacheControl: &cacheControl,
		ContentType:  &contentType,
		Upsert:       &upsert,
	})
	if err != nil {
		return storageError(fmt.Sprintf("failed to upload %s", path), err)
	}
	return nil
}

func (s *StorageClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

// List returns the objects directly under folder, newest first.
func (s *StorageClient) List(folder string, limit int) ([]StoredObject, error) {
	if limit <= 0 {
		limit = 1000
	}
	folder = strings.Trim(folder, "/")

	files, err := s.client().ListFiles(s.bucket, folder, storage.FileSearchOptions{
		Limit:         limit,
		SortByOptions: storage.SortBy{Column: "created_at", Order: "desc"},
	})
	if err != nil {
		return nil, storageError(fmt.Sprintf("failed to list %s", folder), err)
	}

	objects := make([]StoredObject, 0, len(files))
	for _, f := range files {
		// Sub-folders come back without an id.
		if f.Name == "" || f.Id == "" || strings.HasPrefix(f.Name, ".") {
			continue
		}
		path := f.Name
		if folder != "" {
			path = folder + "/" + f.Name
		}
		objects = append(objects, StoredObject{
			Name:      f.Name,
			Path:      path,
			Size:      metadataSize(f.Metadata),
			CreatedAt: f.CreatedAt,
		})
	}
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].CreatedAt > objects[j].CreatedAt
	})
	return objects, nil
}

func (s *StorageClient) ListNames(folder string) ([]string, error) {
	objects, err := s.List(folder, 1000)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.Name
	}
	return names, nil
}

func (s *StorageClient) Remove(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := s.client().RemoveFile(s.bucket, paths); err != nil {
		return storageError("failed to remove files", err)
	}
	return nil
}

func metadataSize(meta interface{}) int64 {
	m, ok := meta.(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := m["size"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

func storageError(msg string, err error) error {
	e := apierr.Storage(msg, err)
	e.Detail = err.Error()
	return e
}
