// Package oauth implements the authorization-code flow shared by the
// storefront and design-tool integrations. One Connector is built per
// provider from configuration; the flow itself is identical for both.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"craftdash/internal/config"
	"craftdash/internal/domain"
)

var (
	// ErrNoCode is returned when the provider redirected back without an
	// authorization code.
	ErrNoCode = errors.New("authorization code not provided")
)

// ExchangeError reports a token exchange the provider rejected. Message
// carries the provider's error_description when one was given.
type ExchangeError struct {
	Provider string
	Message  string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s token exchange failed: %s", e.Provider, e.Message)
}

// Connector drives the two-step authorization flow for one provider. It
// holds no state between the steps; the only durable effect of a completed
// flow is the token written to a profile slot by the caller.
type Connector struct {
	name       string
	slot       domain.TokenSlot
	cfg        config.OAuthProviderConfig
	httpClient *http.Client
}

// NewConnector builds a connector for the named provider. client may be
// nil, in which case http.DefaultClient is used.
func NewConnector(name string, slot domain.TokenSlot, cfg config.OAuthProviderConfig, client *http.Client) *Connector {
	if client == nil {
		client = http.DefaultClient
	}
	return &Connector{
		name:       name,
		slot:       slot,
		cfg:        cfg,
		httpClient: client,
	}
}

// Name returns the provider name.
func (c *Connector) Name() string { return c.name }

// Slot returns the profile token slot this provider's credential lands in.
func (c *Connector) Slot() domain.TokenSlot { return c.slot }

// AuthorizeURL builds the provider authorization URL the browser is
// redirected to. No local state is created.
func (c *Connector) AuthorizeURL() string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("scope", c.cfg.Scope)
	return c.cfg.AuthorizeURL + "?" + params.Encode()
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades an authorization code for an access token with a
// server-to-server POST to the provider's token endpoint. Transport faults
// and provider rejections both come back as *ExchangeError; an empty code
// returns ErrNoCode without any network traffic.
func (c *Connector) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrNoCode
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ExchangeError{Provider: c.name, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ExchangeError{Provider: c.name, Message: fmt.Sprintf("error contacting provider: %v", err)}
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", &ExchangeError{Provider: c.name, Message: fmt.Sprintf("invalid token response: %v", err)}
	}

	if token.AccessToken == "" {
		message := token.ErrorDescription
		if message == "" {
			message = "unknown error occurred"
		}
		return "", &ExchangeError{Provider: c.name, Message: message}
	}

	return token.AccessToken, nil
}
