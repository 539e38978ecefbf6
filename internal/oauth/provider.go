package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"carteira/internal/config"
	"carteira/internal/model"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,email,picture.type(large)"
)

// UserInfo is the identity returned by a provider after code exchange.
type UserInfo struct {
	Email    string
	Picture  string
	Provider model.AuthProvider
}

// Provider wraps an oauth2 configuration plus the provider's userinfo endpoint.
type Provider struct {
	Name        model.AuthProvider
	Config      *oauth2.Config
	userInfoURL string
}

// Configured reports whether client credentials and redirect are all set.
func (p *Provider) Configured() bool {
	return p.Config.ClientID != "" && p.Config.ClientSecret != "" && p.Config.RedirectURL != ""
}

// AuthCodeURL returns the provider's consent page URL for the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the provider's view of the user.
func (p *Provider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return p.fetchUserInfo(ctx, token)
}

func (p *Provider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	client := p.Config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	switch p.Name {
	case model.ProviderFacebook:
		var payload struct {
			Email   string `json:"email"`
			Picture struct {
				Data struct {
					URL string `json:"url"`
				} `json:"data"`
			} `json:"picture"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode userinfo: %w", err)
		}
		if payload.Email == "" {
			return nil, fmt.Errorf("provider returned no email")
		}
		return &UserInfo{Email: payload.Email, Picture: payload.Picture.Data.URL, Provider: p.Name}, nil
	default:
		var payload struct {
			Email   string `json:"email"`
			Picture string `json:"picture"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode userinfo: %w", err)
		}
		if payload.Email == "" {
			return nil, fmt.Errorf("provider returned no email")
		}
		return &UserInfo{Email: payload.Email, Picture: payload.Picture, Provider: p.Name}, nil
	}
}

// Registry holds the configured social login providers.
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry builds the google and facebook providers from config.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		providers: map[string]*Provider{
			"google": {
				Name: model.ProviderGoogle,
				Config: &oauth2.Config{
					ClientID:     cfg.GoogleClientID,
					ClientSecret: cfg.GoogleClientSecret,
					RedirectURL:  cfg.GoogleRedirectURL,
					Scopes:       []string{"openid", "email", "profile"},
					Endpoint:     google.Endpoint,
				},
				userInfoURL: googleUserInfoURL,
			},
			"facebook": {
				Name: model.ProviderFacebook,
				Config: &oauth2.Config{
					ClientID:     cfg.FacebookClientID,
					ClientSecret: cfg.FacebookClientSecret,
					RedirectURL:  cfg.FacebookRedirectURL,
					Scopes:       []string{"email", "public_profile"},
					Endpoint:     facebook.Endpoint,
				},
				userInfoURL: facebookUserInfoURL,
			},
		},
	}
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (*Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
