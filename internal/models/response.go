package models

import "time"

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database,omitempty" example:"ok"`
}

// AssetResponse is returned by every endpoint that stores an image.
type AssetResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

type CreateVideoResponse struct {
	Success         bool   `json:"success"`
	VideoURL        string `json:"videoUrl"`
	FileName        string `json:"fileName"`
	FilePath        string `json:"filePath"`
	Platform        string `json:"platform"`
	RemainingCredit int    `json:"remainingCredit"`
}

type VideoJobResponse struct {
	Success       bool   `json:"success"`
	JobID         string `json:"jobId"`
	OperationName string `json:"operationName"`
	Status        string `json:"status"`
}

type OperationResponse struct {
	Done     bool   `json:"done"`
	Status   string `json:"status"`
	VideoURL string `json:"videoUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Error    string `json:"error,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type DebugAuthResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	ProjectID    string          `json:"projectId,omitempty"`
	AuthMethod   string          `json:"authMethod,omitempty"`
	TokenPreview string          `json:"tokenPreview,omitempty"`
	Error        string          `json:"error,omitempty"`
	EnvCheck     map[string]bool `json:"envCheck"`
	Timestamp    time.Time       `json:"timestamp"`
}

type GeminiResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

type HologramResponse struct {
	ID                        string    `json:"id"`
	UserID                    *string   `json:"user_id"`
	Nickname                  *string   `json:"nickname,omitempty"`
	Title                     string    `json:"title"`
	Description               string    `json:"description"`
	OriginalImageURL          string    `json:"original_image_url"`
	BackgroundRemovedImageURL *string   `json:"background_removed_image_url"`
	VideoURL                  string    `json:"video_url"`
	Platform                  string    `json:"platform"`
	HologramType              string    `json:"hologram_type"`
	UserPrompt                *string   `json:"user_prompt"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func NewHologramResponse(h *Hologram) HologramResponse {
	resp := HologramResponse{
		ID:               h.ID.String(),
		Title:            h.Title,
		Description:      h.Description,
		OriginalImageURL: h.OriginalImageURL,
		VideoURL:         h.VideoURL,
		Platform:         h.Platform,
		HologramType:     h.HologramType,
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
	if h.UserID.Valid {
		id := h.UserID.UUID.String()
		resp.UserID = &id
	}
	if h.Nickname.Valid {
		resp.Nickname = &h.Nickname.String
	}
	if h.BackgroundRemovedImageURL.Valid {
		resp.BackgroundRemovedImageURL = &h.BackgroundRemovedImageURL.String
	}
	if h.UserPrompt.Valid {
		resp.UserPrompt = &h.UserPrompt.String
	}
	return resp
}

type HologramListResponse struct {
	Success   bool               `json:"success"`
	Holograms []HologramResponse `json:"holograms"`
}

type HologramCreatedResponse struct {
	Success  bool             `json:"success"`
	Hologram HologramResponse `json:"hologram"`
}

type ArchiveVideo struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	UserID    string `json:"userId,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type ArchiveResponse struct {
	Success bool           `json:"success"`
	Videos  []ArchiveVideo `json:"videos"`
}

type MeResponse struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	Credit     int    `json:"credit"`
	CreditCost int    `json:"creditCost"`
}

type AdminFile struct {
	Folder    string `json:"folder"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type AdminFilesResponse struct {
	Success bool        `json:"success"`
	Files   []AdminFile `json:"files"`
}

type DeleteFileResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}
