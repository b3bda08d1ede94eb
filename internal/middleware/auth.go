package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"holoframe-backend/internal/apierr"
	"holoframe-backend/internal/models"
)

const UserIDKey = "user_id"

// SessionVerifier resolves a bearer token to the Supabase user it belongs to.
type SessionVerifier interface {
	VerifyToken(ctx context.Context, token string) (uuid.UUID, error)
}

// JWTVerifier checks Supabase access tokens locally against the project's
// HS256 secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if len(v.secret) == 0 {
		return uuid.Nil, apierr.Configuration("SUPABASE_JWT_SECRET is not configured")
	}

	// Some clients URL-encode the token.
	if decoded, err := url.QueryUnescape(tokenString); err == nil {
		tokenString = decoded
	}
	if strings.Count(tokenString, ".") != 2 {
		return uuid.Nil, apierr.Auth("invalid token format", nil)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, apierr.Auth("token has expired", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return uuid.Nil, apierr.Auth("token signature is invalid", err)
		default:
			return uuid.Nil, apierr.Auth("invalid token", err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, apierr.Auth("invalid token claims", nil)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, apierr.Auth("missing user id in token", err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apierr.Auth("user id in token is not a uuid", err)
	}
	return userID, nil
}

func bearerToken(c *gin.Context) (string, bool, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, apierr.Auth("invalid authorization header format", nil)
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", true, apierr.Auth("empty token", nil)
	}
	return token, true, nil
}

// AuthMiddleware requires a valid bearer session.
func AuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, err := bearerToken(c)
		if !present {
			abort(c, apierr.Auth("missing authorization header", nil))
			return
		}
		if err != nil {
			abort(c, err)
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth attaches the user when a bearer token is sent. Requests
// without one pass through anonymously; a token that fails verification
// is still rejected.
func OptionalAuth(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, err := bearerToken(c)
		if !present || verifier == nil {
			c.Next()
			return
		}
		if err != nil {
			abort(c, err)
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func abort(c *gin.Context, err error) {
	resp := models.ErrorResponse{Error: err.Error()}
	if e, ok := apierr.As(err); ok {
		resp.Error = e.Message
		resp.Detail = e.Detail
	}
	c.AbortWithStatusJSON(apierr.StatusOf(err), resp)
}
