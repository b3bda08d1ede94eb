package supabase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
	"holoframe-backend/internal/apierr"
)

// SessionVerifier resolves a Supabase access token to its user by asking
// Supabase Auth. It is used when no JWT secret is configured locally.
type SessionVerifier struct {
	client *supabase.Client
}

func NewSessionVerifier(client *supabase.Client) *SessionVerifier {
	return &SessionVerifier{client: client}
}

// NewSessionVerifierFromKey builds the Supabase client for projectURL with
// the given API key.
func NewSessionVerifierFromKey(projectURL, apiKey string) (*SessionVerifier, error) {
	client, err := supabase.NewClient(projectURL, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize supabase client: %w", err)
	}
	return NewSessionVerifier(client), nil
}

func (v *SessionVerifier) VerifyToken(ctx context.Context, token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, apierr.Auth("missing access token", nil)
	}

	type result struct {
		id  uuid.UUID
		err error
	}
	done := make(chan result, 1)
	go func() {
		user, err := v.client.Auth.WithToken(token).GetUser()
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{id: user.ID}
	}()

	select {
	case <-ctx.Done():
		return uuid.Nil, apierr.Timeout("session lookup cancelled")
	case r := <-done:
		if r.err != nil {
			return uuid.Nil, apierr.Auth("invalid session", r.err)
		}
		if r.id == uuid.Nil {
			return uuid.Nil, apierr.Auth("session has no user", nil)
		}
		return r.id, nil
	}
}
