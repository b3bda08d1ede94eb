package googleauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/google/externalaccount"
	"golang.org/x/oauth2/jwt"
	"holoframe-backend/internal/apierr"
)

const (
	CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

	stsTokenURL          = "https://sts.googleapis.com/v1/token"
	jwtSubjectTokenType  = "urn:ietf:params:oauth:token-type:jwt"
	impersonationURLBase = "https://iamcredentials.googleapis.com/v1/projects/-/serviceAccounts/"
)

type Method string

const (
	MethodServiceAccountKey    Method = "service_account_key"
	MethodServiceAccountFields Method = "service_account_fields"
	MethodWorkloadIdentity     Method = "workload_identity_federation"
)

// Settings holds every variable any credential source may read.
type Settings struct {
	CredentialsBase64   string
	PrivateKey          string
	ClientEmail         string
	ProjectID           string
	WIFAudience         string
	ServiceAccountEmail string
	OIDCToken           string

	// TokenURL overrides Google's OAuth token endpoint for the key-based sources.
	TokenURL string
}

// Source is one configured way of obtaining Google access tokens.
type Source interface {
	Method() Method
	ProjectID() string
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// Select returns the first viable source in priority order. A source that is
// viable but malformed fails here; the next source is never tried.
func Select(s Settings) (Source, error) {
	if s.CredentialsBase64 != "" {
		return newServiceAccountKey(s)
	}
	if s.PrivateKey != "" && s.ClientEmail != "" {
		return newServiceAccountFields(s), nil
	}
	if s.WIFAudience != "" && s.ServiceAccountEmail != "" && s.OIDCToken != "" {
		return &workloadIdentity{
			audience:       s.WIFAudience,
			serviceAccount: s.ServiceAccountEmail,
			oidcToken:      s.OIDCToken,
			projectID:      s.ProjectID,
		}, nil
	}
	return nil, missingConfigError(s)
}

func missingConfigError(s Settings) error {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("GOOGLE_APPLICATION_CREDENTIALS_BASE64", s.CredentialsBase64)
	check("GOOGLE_PRIVATE_KEY", s.PrivateKey)
	check("GOOGLE_CLIENT_EMAIL", s.ClientEmail)
	check("GOOGLE_WIF_AUDIENCE", s.WIFAudience)
	check("GOOGLE_SERVICE_ACCOUNT_EMAIL", s.ServiceAccountEmail)
	check("GOOGLE_OIDC_TOKEN (or VERCEL_OIDC_TOKEN)", s.OIDCToken)

	msg := "no Google credential source configured. Set one of: " +
		"(1) GOOGLE_APPLICATION_CREDENTIALS_BASE64; " +
		"(2) GOOGLE_PRIVATE_KEY + GOOGLE_CLIENT_EMAIL (+ GOOGLE_PROJECT_ID); " +
		"(3) GOOGLE_WIF_AUDIENCE + GOOGLE_SERVICE_ACCOUNT_EMAIL + GOOGLE_OIDC_TOKEN. " +
		"Missing: " + strings.Join(missing, ", ")
	return apierr.Configuration(msg)
}

type serviceAccountKey struct {
	cfg       *jwt.Config
	projectID string
}

func newServiceAccountKey(s Settings) (*serviceAccountKey, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s.CredentialsBase64))
	if err != nil {
		return nil, apierr.New(apierr.KindConfiguration, "GOOGLE_APPLICATION_CREDENTIALS_BASE64 is not valid base64", err)
	}

	var meta struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, apierr.New(apierr.KindConfiguration, "GOOGLE_APPLICATION_CREDENTIALS_BASE64 is not a JSON key", err)
	}

	cfg, err := google.JWTConfigFromJSON(raw, CloudPlatformScope)
	if err != nil {
		return nil, apierr.New(apierr.KindConfiguration, "failed to parse service account key", err)
	}
	if s.TokenURL != "" {
		cfg.TokenURL = s.TokenURL
	}

	projectID := meta.ProjectID
	if s.ProjectID != "" {
		projectID = s.ProjectID
	}
	return &serviceAccountKey{cfg: cfg, projectID: projectID}, nil
}

func (k *serviceAccountKey) Method() Method    { return MethodServiceAccountKey }
func (k *serviceAccountKey) ProjectID() string { return k.projectID }

func (k *serviceAccountKey) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return k.cfg.TokenSource(ctx), nil
}

type serviceAccountFields struct {
	cfg       *jwt.Config
	projectID string
}

func newServiceAccountFields(s Settings) *serviceAccountFields {
	tokenURL := google.JWTTokenURL
	if s.TokenURL != "" {
		tokenURL = s.TokenURL
	}
	// Env files commonly carry the PEM with literal "\n" sequences.
	privateKey := strings.ReplaceAll(s.PrivateKey, `\n`, "\n")

	return &serviceAccountFields{
		cfg: &jwt.Config{
			Email:      s.ClientEmail,
			PrivateKey: []byte(privateKey),
			Scopes:     []string{CloudPlatformScope},
			TokenURL:   tokenURL,
		},
		projectID: s.ProjectID,
	}
}

func (f *serviceAccountFields) Method() Method    { return MethodServiceAccountFields }
func (f *serviceAccountFields) ProjectID() string { return f.projectID }

func (f *serviceAccountFields) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return f.cfg.TokenSource(ctx), nil
}

type workloadIdentity struct {
	audience       string
	serviceAccount string
	oidcToken      string
	projectID      string
}

func (w *workloadIdentity) Method() Method    { return MethodWorkloadIdentity }
func (w *workloadIdentity) ProjectID() string { return w.projectID }

func (w *workloadIdentity) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	ts, err := externalaccount.NewTokenSource(ctx, externalaccount.Config{
		Audience:                       w.audience,
		SubjectTokenType:               jwtSubjectTokenType,
		TokenURL:                       stsTokenURL,
		ServiceAccountImpersonationURL: impersonationURLBase + w.serviceAccount + ":generateAccessToken",
		Scopes:                         []string{CloudPlatformScope},
		SubjectTokenSupplier:           staticSubjectToken(w.oidcToken),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build external account credentials: %w", err)
	}
	return ts, nil
}

type staticSubjectToken string

func (s staticSubjectToken) SubjectToken(ctx context.Context, options externalaccount.SupplierOptions) (string, error) {
	return string(s), nil
}
