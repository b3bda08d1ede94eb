package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"holoframe-backend/internal/models"
)

// RealtimeClient publishes broadcast messages through the Realtime REST
// endpoint so clients subscribed to a topic see job updates without polling.
type RealtimeClient struct {
	url        string
	key        string
	httpClient *http.Client
}

func NewRealtimeClient(supabaseURL, key string) *RealtimeClient {
	return &RealtimeClient{
		url:        strings.TrimRight(supabaseURL, "/") + "/realtime/v1/api/broadcast",
		key:        key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type broadcastMessage struct {
	Topic   string                 `json:"topic"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

func (r *RealtimeClient) Broadcast(ctx context.Context, topic, event string, payload map[string]interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"messages": []broadcastMessage{{Topic: topic, Event: event, Payload: payload}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send broadcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("broadcast rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}

func (r *RealtimeClient) PublishJobEvent(ctx context.Context, userID uuid.UUID, event string, payload map[string]interface{}) error {
	return r.Broadcast(ctx, JobTopic(userID), event, payload)
}

func JobTopic(userID uuid.UUID) string {
	return fmt.Sprintf("jobs:%s", userID.String())
}

// Event payloads
func JobCompletedPayload(job *models.GenerationJob, videoURL string, remainingCredit int) map[string]interface{} {
	return map[string]interface{}{
		"job_id":           job.ID.String(),
		"operation_name":   job.OperationName,
		"status":           models.JobStatusSucceeded,
		"video_url":        videoURL,
		"remaining_credit": remainingCredit,
	}
}

func JobFailedPayload(job *models.GenerationJob, status, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"job_id":         job.ID.String(),
		"operation_name": job.OperationName,
		"status":         status,
		"error":          errorMsg,
	}
}
