package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"holoframe-backend/internal/apierr"
)

// TokenSourceProvider is satisfied by googleauth.Provider.
type TokenSourceProvider interface {
	TokenSource() (oauth2.TokenSource, error)
}

// Reader downloads objects from Cloud Storage using the service's Google
// credentials. The storage client is created on first use.
type Reader struct {
	tokens TokenSourceProvider
	opts   []option.ClientOption

	once   sync.Once
	client *storage.Client
	err    error
}

func NewReader(tokens TokenSourceProvider, opts ...option.ClientOption) *Reader {
	return &Reader{tokens: tokens, opts: opts}
}

func (r *Reader) storageClient() (*storage.Client, error) {
	r.once.Do(func() {
		opts := append([]option.ClientOption{}, r.opts...)
		if r.tokens != nil {
			ts, err := r.tokens.TokenSource()
			if err != nil {
				r.err = err
				return
			}
			opts = append(opts, option.WithTokenSource(ts), option.WithScopes(storage.ScopeReadOnly))
		}
		// The client outlives any single request.
		r.client, r.err = storage.NewClient(context.Background(), opts...)
		if r.err != nil {
			r.err = apierr.New(apierr.KindConfiguration, "failed to create storage client", r.err)
		}
	})
	return r.client, r.err
}

// ReadURI reads a gs://bucket/object locator in full.
func (r *Reader) ReadURI(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return r.ReadObject(ctx, bucket, object)
}

func (r *Reader) ReadObject(ctx context.Context, bucket, object string) ([]byte, error) {
	client, err := r.storageClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, apierr.Storage(fmt.Sprintf("failed to open gs://%s/%s", bucket, object), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apierr.Storage(fmt.Sprintf("failed to read gs://%s/%s", bucket, object), err)
	}
	return data, nil
}

func (r *Reader) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// ParseURI splits gs://bucket/path/to/object.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", apierr.Validation("not a gs:// uri: " + uri)
	}
	rest := strings.TrimPrefix(uri, "gs://")
	idx := strings.Index(rest, "/")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", apierr.Validation("gs:// uri must name a bucket and an object: " + uri)
	}
	return rest[:idx], rest[idx+1:], nil
}
