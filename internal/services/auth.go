// Client-credentials token exchange
package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/spotrec/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Session holds the bearer token for one run.
//
// It is never refreshed: once the token expires every request fails with [shared.ErrTokenExpired] and a new session must be authenticated.
type Session struct {
	token *oauth2.Token
}

// NewSession wraps an already issued access token. A zero expiry means the token does not expire.
func NewSession(accessToken string, expiry time.Time) *Session {
	return &Session{token: &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer", Expiry: expiry}}
}

// AccessToken returns the bearer string.
func (s *Session) AccessToken() string {
	if s == nil || s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Expiry returns when the token stops being accepted.
func (s *Session) Expiry() time.Time {
	if s == nil || s.token == nil {
		return time.Time{}
	}
	return s.token.Expiry
}

// Expired reports whether the token is missing or past its expiry.
func (s *Session) Expired() bool {
	return s == nil || !s.token.Valid()
}

// Authenticator exchanges application credentials for a [Session].
type Authenticator struct {
	config     clientcredentials.Config
	httpClient *http.Client
}

// NewAuthenticator validates the credentials and prepares the exchange against tokenURL, defaulting to the Spotify accounts endpoint.
func NewAuthenticator(clientID, clientSecret, tokenURL string, client *http.Client) (*Authenticator, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("%w: client_id is empty", shared.ErrMissingCredentials)
	}
	if strings.TrimSpace(clientSecret) == "" {
		return nil, fmt.Errorf("%w: client_secret is empty", shared.ErrMissingCredentials)
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Authenticator{
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: client,
	}, nil
}

// Authenticate performs the client-credentials grant.
//
// Every failure wraps [shared.ErrAuthFailed]; an unreachable endpoint also wraps [shared.ErrNetwork].
func (a *Authenticator) Authenticate(ctx context.Context) (*Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := a.config.Token(ctx)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token endpoint returned an empty access token", shared.ErrAuthFailed)
	}

	return &Session{token: token}, nil
}

func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		if retrieveErr.ErrorCode != "" {
			return fmt.Errorf("%w: token endpoint returned status %d (%s)", shared.ErrAuthFailed, status, retrieveErr.ErrorCode)
		}
		return fmt.Errorf("%w: token endpoint returned status %d", shared.ErrAuthFailed, status)
	}

	if isTransportError(err) {
		return fmt.Errorf("%w: %w: %v", shared.ErrAuthFailed, shared.ErrNetwork, err)
	}

	return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded)
}
