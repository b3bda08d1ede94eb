package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/cache"
	"holoframe-backend/internal/models"
)

const (
	FolderUserImages         = "user_images"
	FolderRemovedBackgrounds = "removed_backgrounds"
	FolderVideos             = "veo_video"
)

// Folders lists every folder the service writes to.
var Folders = []string{FolderUserImages, FolderRemovedBackgrounds, FolderVideos}

const gcsHTTPPrefix = "https://storage.googleapis.com/"

type ObjectStore interface {
	Bucket() string
	Upload(path string, data []byte, contentType string) error
	ListNames(folder string) ([]string, error)
	PublicURL(path string) string
}

// ObjectReader reads gs:// locators.
type ObjectReader interface {
	ReadURI(ctx context.Context, uri string) ([]byte, error)
}

type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

type Naming int

const (
	// NamingSequential names objects {n}.{ext}.
	NamingSequential Naming = iota
	// NamingOwner names objects {owner}_{n}.{ext}, or anonymous_{ms}.{ext}
	// without an owner.
	NamingOwner
)

type Materializer struct {
	store      ObjectStore
	objects    ObjectReader
	tokens     TokenProvider
	httpClient *http.Client
	lock       cache.Locker
	now        func() time.Time
}

type MaterializerOption func(*Materializer)

func WithObjectReader(r ObjectReader) MaterializerOption {
	return func(m *Materializer) { m.objects = r }
}

func WithTokenProvider(t TokenProvider) MaterializerOption {
	return func(m *Materializer) { m.tokens = t }
}

func WithLocker(l cache.Locker) MaterializerOption {
	return func(m *Materializer) {
		if l != nil {
			m.lock = l
		}
	}
}

func WithDownloadClient(hc *http.Client) MaterializerOption {
	return func(m *Materializer) { m.httpClient = hc }
}

func WithClock(now func() time.Time) MaterializerOption {
	return func(m *Materializer) { m.now = now }
}

func NewMaterializer(store ObjectStore, opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		store:      store,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		lock:       cache.NoopLocker{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type MaterializeInput struct {
	SourceURI string
	Folder    string
	Naming    Naming
	OwnerKey  string
	Ext       string
	// ContentType overrides whatever the source reports.
	ContentType string
}

type StoreInput struct {
	Data        []byte
	Folder      string
	Naming      Naming
	OwnerKey    string
	Ext         string
	ContentType string
}

// Fetch downloads uri. gs:// goes through the object reader, Cloud Storage
// HTTPS URLs carry the service's bearer token, anything else is a plain GET.
func (m *Materializer) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if strings.HasPrefix(uri, "gs://") {
		if m.objects == nil {
			return nil, "", apierr.Configuration("no Cloud Storage reader configured for " + uri)
		}
		data, err := m.objects.ReadURI(ctx, uri)
		if err != nil {
			return nil, "", err
		}
		return data, contentTypeForExt(path.Ext(uri)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", apierr.Validation("invalid source url: " + uri)
	}
	if strings.HasPrefix(uri, gcsHTTPPrefix) && m.tokens != nil {
		token, err := m.tokens.AccessToken(ctx)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, "", apierr.Storage("failed to download "+uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := apierr.Storage(fmt.Sprintf("failed to download source (status %d)", resp.StatusCode), nil)
		e.Detail = fmt.Sprintf("Status: %d", resp.StatusCode)
		return nil, "", e
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apierr.Storage("failed to read downloaded source", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Materialize copies the asset at SourceURI into our bucket.
func (m *Materializer) Materialize(ctx context.Context, in MaterializeInput) (*models.StoredAsset, error) {
	data, sourceType, err := m.Fetch(ctx, in.SourceURI)
	if err != nil {
		return nil, err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = sourceType
	}
	return m.Store(ctx, StoreInput{
		Data:        data,
		Folder:      in.Folder,
		Naming:      in.Naming,
		OwnerKey:    in.OwnerKey,
		Ext:         in.Ext,
		ContentType: contentType,
	})
}

// Store names and uploads bytes already in hand. Naming and upload happen
// under the folder lock; the upload never overwrites, so two writers that
// pick the same name without a lock make the second one fail.
func (m *Materializer) Store(ctx context.Context, in StoreInput) (*models.StoredAsset, error) {
	if len(in.Data) == 0 {
		return nil, apierr.Validation("asset is empty")
	}
	folder := strings.Trim(in.Folder, "/")
	if folder == "" {
		return nil, apierr.Validation("folder is required")
	}

	ext := strings.TrimPrefix(strings.ToLower(in.Ext), ".")
	if ext == "" {
		ext = extForContentType(in.ContentType)
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = contentTypeForExt("." + ext)
	}

	release, err := m.lock.Lock(ctx, "folder:"+m.store.Bucket()+"/"+folder)
	if err != nil {
		return nil, apierr.Storage("failed to lock "+folder, err)
	}
	defer release()

	fileName, err := m.nextName(folder, in.Naming, in.OwnerKey, ext)
	if err != nil {
		return nil, err
	}
	filePath := folder + "/" + fileName

	if err := m.store.Upload(filePath, in.Data, contentType); err != nil {
		return nil, err
	}

	return &models.StoredAsset{
		FileName:    fileName,
		FilePath:    filePath,
		PublicURL:   m.store.PublicURL(filePath),
		ContentType: contentType,
		Size:        len(in.Data),
	}, nil
}

func (m *Materializer) nextName(folder string, naming Naming, owner, ext string) (string, error) {
	if naming == NamingOwner && owner == "" {
		return fmt.Sprintf("anonymous_%d.%s", m.now().UnixMilli(), ext), nil
	}

	names, err := m.store.ListNames(folder)
	if err != nil {
		return "", err
	}

	if naming == NamingOwner {
		prefix := owner + "_"
		return fmt.Sprintf("%s%d.%s", prefix, NextIndex(names, prefix), ext), nil
	}
	return fmt.Sprintf("%d.%s", NextIndex(names, ""), ext), nil
}

// NextIndex returns one more than the largest n among names of the form
// {prefix}{n}.{ext}, or 1 when none match.
func NextIndex(names []string, prefix string) int {
	highest := 0
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		base := strings.TrimPrefix(name, prefix)
		if i := strings.IndexByte(base, '.'); i >= 0 {
			base = base[:i]
		}
		if base == "" || strings.TrimLeft(base, "0123456789") != "" {
			continue
		}
		n, err := strconv.Atoi(base)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

func extForContentType(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "video/mp4":
		return "mp4"
	case "video/webm":
		return "webm"
	default:
		return "bin"
	}
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
