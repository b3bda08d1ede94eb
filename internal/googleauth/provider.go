package googleauth

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"holoframe-backend/internal/apierr"
)

// Provider hands out bearer tokens from the source chosen at startup. The
// underlying token source is built on first use and cached.
type Provider struct {
	source    Source
	selectErr error

	once sync.Once
	ts   oauth2.TokenSource
	err  error
}

func NewProvider(source Source) *Provider {
	return &Provider{source: source}
}

// FromSettings selects a source and keeps any selection error so that callers
// see it per request instead of at boot.
func FromSettings(s Settings) *Provider {
	source, err := Select(s)
	if err != nil {
		return &Provider{selectErr: err}
	}
	return NewProvider(source)
}

func (p *Provider) Configured() bool {
	return p != nil && p.source != nil
}

func (p *Provider) Err() error {
	if p == nil {
		return apierr.Configuration("google credentials are not configured")
	}
	return p.selectErr
}

func (p *Provider) Method() Method {
	if !p.Configured() {
		return ""
	}
	return p.source.Method()
}

func (p *Provider) ProjectID() string {
	if !p.Configured() {
		return ""
	}
	return p.source.ProjectID()
}

func (p *Provider) TokenSource() (oauth2.TokenSource, error) {
	if !p.Configured() {
		return nil, p.Err()
	}
	p.once.Do(func() {
		// Token sources keep their construction context for refreshes.
		ts, err := p.source.TokenSource(context.Background())
		if err != nil {
			p.err = apierr.New(apierr.KindConfiguration, "failed to initialise google credentials", err)
			return
		}
		p.ts = oauth2.ReuseTokenSource(nil, ts)
	})
	return p.ts, p.err
}

// AccessToken mints (or reuses) a bearer token.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	ts, err := p.TokenSource()
	if err != nil {
		return "", err
	}

	type result struct {
		tok *oauth2.Token
		err error
	}
	done := make(chan result, 1)
	go func() {
		tok, err := ts.Token()
		done <- result{tok, err}
	}()

	select {
	case <-ctx.Done():
		return "", apierr.Timeout("google token request cancelled: " + ctx.Err().Error())
	case r := <-done:
		if r.err != nil {
			authErr := apierr.Auth("google credential exchange rejected", r.err)
			authErr.StatusOverride = http.StatusInternalServerError
			return "", authErr
		}
		return r.tok.AccessToken, nil
	}
}
