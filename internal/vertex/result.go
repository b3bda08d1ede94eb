package vertex

import (
	"encoding/json"
	"strings"

	"holoframe-backend/internal/apierr"
)

type ResultKind int

const (
	KindUnrecognized ResultKind = iota
	KindStorageURIPrediction
	KindGCSURIVideo
	KindGeneratedVideo
	KindInlineBytes
)

func (k ResultKind) String() string {
	switch k {
	case KindStorageURIPrediction:
		return "storage_uri_prediction"
	case KindGCSURIVideo:
		return "gcs_uri_video"
	case KindGeneratedVideo:
		return "generated_video"
	case KindInlineBytes:
		return "inline_bytes"
	default:
		return "unrecognized"
	}
}

// Result is the parsed payload of a finished operation.
type Result struct {
	Kind ResultKind
	URI  string
	Raw  json.RawMessage
}

type operationResponse struct {
	Predictions []struct {
		StorageURI         string `json:"storageUri"`
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
	Videos []struct {
		GCSURI             string `json:"gcsUri"`
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"videos"`
	GenerateVideoResponse *struct {
		GeneratedVideos []struct {
			Video struct {
				URI string `json:"uri"`
				URL string `json:"url"`
			} `json:"video"`
		} `json:"generatedVideos"`
	} `json:"generateVideoResponse"`
}

// ParseResult probes the known response shapes in a fixed order.
func ParseResult(raw json.RawMessage) Result {
	res := Result{Kind: KindUnrecognized, Raw: raw}
	if len(raw) == 0 {
		return res
	}

	var resp operationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return res
	}

	if len(resp.Predictions) > 0 && resp.Predictions[0].StorageURI != "" {
		res.Kind, res.URI = KindStorageURIPrediction, resp.Predictions[0].StorageURI
		return res
	}
	if len(resp.Videos) > 0 && resp.Videos[0].GCSURI != "" {
		res.Kind, res.URI = KindGCSURIVideo, resp.Videos[0].GCSURI
		return res
	}
	if g := resp.GenerateVideoResponse; g != nil && len(g.GeneratedVideos) > 0 {
		v := g.GeneratedVideos[0].Video
		if uri := firstNonEmpty(v.URI, v.URL); uri != "" {
			res.Kind, res.URI = KindGeneratedVideo, uri
			return res
		}
	}
	if (len(resp.Predictions) > 0 && resp.Predictions[0].BytesBase64Encoded != "") ||
		(len(resp.Videos) > 0 && resp.Videos[0].BytesBase64Encoded != "") {
		res.Kind = KindInlineBytes
	}
	return res
}

// SourceURI returns the locator to hand to the materializer, as returned by
// the provider (gs:// stays gs://).
func (r Result) SourceURI() (string, error) {
	switch r.Kind {
	case KindStorageURIPrediction, KindGCSURIVideo, KindGeneratedVideo:
		return r.URI, nil
	case KindInlineBytes:
		return "", apierr.Configuration("provider returned inline video bytes; set VEO_OUTPUT_STORAGE_URI so results are written to Cloud Storage")
	default:
		return "", apierr.Provider("unrecognized operation response shape", string(r.Raw))
	}
}

// HTTPURI is SourceURI with gs:// rewritten to its storage.googleapis.com form.
func (r Result) HTTPURI() (string, error) {
	uri, err := r.SourceURI()
	if err != nil {
		return "", err
	}
	return RewriteGCSURI(uri), nil
}

func RewriteGCSURI(uri string) string {
	if strings.HasPrefix(uri, "gs://") {
		return "https://storage.googleapis.com/" + strings.TrimPrefix(uri, "gs://")
	}
	return uri
}
