package provider

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidGoogleAudience = errors.New("invalid google audience")
	ErrUnverifiedGoogleEmail = errors.New("google account email is not verified")
)

// GoogleIdentity is the subset of a validated Google ID token we rely on.
type GoogleIdentity struct {
	Subject string
	Email   string
}

// GoogleOAuthProvider validates Google ID tokens issued for a single client.
type GoogleOAuthProvider struct {
	clientID   string
	httpClient *http.Client
	endpoint   string
}

func NewGoogleOAuthProvider(clientID string, httpClient *http.Client) *GoogleOAuthProvider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &GoogleOAuthProvider{
		clientID:   clientID,
		httpClient: httpClient,
	}
}

// ValidateIDToken checks the token with Google's tokeninfo endpoint and returns the identity it asserts.
func (p *GoogleOAuthProvider) ValidateIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	opts := []option.ClientOption{option.WithHTTPClient(p.httpClient)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	oauth2Service, err := oauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tokenInfo, err := oauth2Service.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if tokenInfo.Audience != p.clientID {
		return nil, ErrInvalidGoogleAudience
	}

	if !tokenInfo.VerifiedEmail {
		return nil, ErrUnverifiedGoogleEmail
	}

	return &GoogleIdentity{
		Subject: tokenInfo.UserId,
		Email:   tokenInfo.Email,
	}, nil
}
