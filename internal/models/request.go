package models

type RemoveBackgroundRequest struct {
	ImageURL string `json:"imageUrl" example:"https://xyz.supabase.co/storage/v1/object/public/holo/user_images/3.png"`
}

type CreateVideoRequest struct {
	ImageURL string `json:"imageUrl"`
	// The user's additional requirements only. The server appends them to the
	// hologram template for hologramType; do not send a composed prompt.
	Prompt string `json:"prompt" example:"slow spin with blue glow"`
	// replicate (default) or veo
	Platform string `json:"platform,omitempty" example:"veo"`
	// 1side (default) or 4sides
	HologramType     string `json:"hologramType,omitempty" example:"1side"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	OriginalImageURL string `json:"originalImageUrl,omitempty"`
	// Veo only: return 202 with a job id instead of waiting for the video.
	Async bool `json:"async,omitempty"`
}

type GeminiRequest struct {
	Prompt string `json:"prompt"`
}

// CreateHologramRequest uses the column names of the holograms table.
type CreateHologramRequest struct {
	Title                     string `json:"title"`
	Description               string `json:"description"`
	OriginalImageURL          string `json:"original_image_url"`
	BackgroundRemovedImageURL string `json:"background_removed_image_url,omitempty"`
	VideoURL                  string `json:"video_url"`
	Platform                  string `json:"platform"`
	HologramType              string `json:"hologram_type"`
	UserPrompt                string `json:"user_prompt,omitempty"`
}

type DeleteFileRequest struct {
	Path string `json:"path"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
