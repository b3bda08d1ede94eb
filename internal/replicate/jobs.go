package replicate

import (
	"context"
	"fmt"

	"holoframe-backend/internal/apierr"
)

// RemoveBackground runs the rembg model over imageURL and returns the URL of
// the cut-out PNG. There is no poll cap; ctx is the only bound.
func (c *Client) RemoveBackground(ctx context.Context, imageURL, version string) (string, error) {
	if version == "" {
		return "", apierr.Configuration("REPLICATE_REMBG_VERSION is not configured")
	}

	prediction, err := c.CreatePrediction(ctx, version, map[string]interface{}{
		"image": imageURL,
	})
	if err != nil {
		return "", err
	}

	prediction, err = c.poll(ctx, prediction, 0, "")
	if err != nil {
		return "", err
	}

	if prediction.Status != StatusSucceeded {
		return "", prediction.failure("background removal failed")
	}
	return prediction.OutputURL()
}

type VideoInput struct {
	Model         string
	ImageURL      string
	Prompt        string
	AspectRatio   string
	Duration      int
	Resolution    string
	GenerateAudio bool
	MaxPolls      int
}

func (in VideoInput) payload() map[string]interface{} {
	aspect := in.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}
	duration := in.Duration
	if duration == 0 {
		duration = 4
	}
	resolution := in.Resolution
	if resolution == "" {
		resolution = "720p"
	}
	return map[string]interface{}{
		"image":          in.ImageURL,
		"last_frame":     in.ImageURL,
		"prompt":         in.Prompt,
		"aspect_ratio":   aspect,
		"duration":       duration,
		"generate_audio": in.GenerateAudio,
		"resolution":     resolution,
	}
}

// GenerateVideo submits an image-to-video job with Prefer: wait and polls
// until it finishes or VideoMaxPolls is reached.
func (c *Client) GenerateVideo(ctx context.Context, in VideoInput) (string, error) {
	if in.Model == "" {
		return "", apierr.Configuration("REPLICATE_VIDEO_MODEL is not configured")
	}
	maxPolls := in.MaxPolls
	if maxPolls <= 0 {
		maxPolls = VideoMaxPolls
	}

	prediction, err := c.CreateModelPrediction(ctx, in.Model, in.payload(), true)
	if err != nil {
		return "", err
	}

	timeoutMsg := fmt.Sprintf("video generation timed out after %d polls (영상 생성 시간 초과)", maxPolls)
	prediction, err = c.poll(ctx, prediction, maxPolls, timeoutMsg)
	if err != nil {
		return "", err
	}

	if prediction.Status != StatusSucceeded {
		return "", prediction.failure("video generation failed")
	}
	return prediction.OutputURL()
}
