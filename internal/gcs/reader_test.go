package gcs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/gcs"
)

func TestParseURI(t *testing.T) {
	bucket, object, err := gcs.ParseURI("gs://holo-out/videos/2024/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "holo-out", bucket)
	assert.Equal(t, "videos/2024/clip.mp4", object)

	for _, bad := range []string{"https://storage.googleapis.com/b/o", "gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := gcs.ParseURI(bad)
		assert.True(t, apierr.Is(err, apierr.KindValidation), bad)
	}
}

type failingTokens struct{}

func (failingTokens) TokenSource() (oauth2.TokenSource, error) {
	return nil, apierr.Configuration("google credentials are not configured")
}

func TestReadURI_CredentialErrorSurfaces(t *testing.T) {
	r := gcs.NewReader(failingTokens{})
	_, err := r.ReadURI(context.Background(), "gs://b/o.mp4")

	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindConfiguration))
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
	assert.NoError(t, r.Close())
}
