// Package credential supplies the bearer token a form submission carries.
package credential

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Source yields the current bearer token. An empty token with a nil error
// means no credential is available, and submissions will be dropped.
type Source interface {
	Token(ctx context.Context) (string, error)
}

type Static string

func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// ClientCredentials fetches and caches tokens with the OAuth2 client
// credentials grant. Each fetch runs under the caller's context.
type ClientCredentials struct {
	cfg *clientcredentials.Config

	mu  sync.Mutex
	tok *oauth2.Token
}

func NewClientCredentials(clientID, clientSecret, tokenURL string, scopes ...string) *ClientCredentials {
	return &ClientCredentials{cfg: &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}}
}

func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tok.Valid() {
		return c.tok.AccessToken, nil
	}

	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain token: %w", err)
	}
	c.tok = tok
	return tok.AccessToken, nil
}

// FromSettings picks a static token when one is given, client credentials
// when those are complete, and an empty source otherwise.
func FromSettings(token, clientID, clientSecret, tokenURL string) Source {
	if token != "" {
		return Static(token)
	}
	if clientID != "" && clientSecret != "" && tokenURL != "" {
		return NewClientCredentials(clientID, clientSecret, tokenURL)
	}
	return Static("")
}
