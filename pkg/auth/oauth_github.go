package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubOAuthConfig holds configuration for the GitHub OAuth provider.
type GitHubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"user:email"`
}

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGitHubAdapter creates a GitHub OAuth provider adapter.
func NewGitHubAdapter(cfg GitHubOAuthConfig) ProviderAdapter {
	return &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *githubAdapter) Provider() string {
	return MethodGithub
}

func (a *githubAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

// ResolveProfile exchanges the code and resolves a verified email for the
// GitHub account. GitHub's /user endpoint omits private emails, so the
// /user/emails endpoint is always consulted for verification status.
func (a *githubAdapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ErrInvalidCode
	}

	user, err := a.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github user: %w", err)
	}

	emails, err := a.fetchEmails(ctx, tok.AccessToken)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch github emails: %w", err)
	}

	var emailAddr string
	for _, e := range emails {
		if e.Primary && e.Verified {
			emailAddr = e.Email
			break
		}
	}
	if emailAddr == "" {
		for _, e := range emails {
			if e.Verified {
				emailAddr = e.Email
				break
			}
		}
	}
	if emailAddr == "" {
		return ProviderProfile{}, ErrNoPrimaryEmail
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return ProviderProfile{
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Email:          emailAddr,
		EmailVerified:  true,
		Name:           name,
		AvatarURL:      user.AvatarURL,
	}, nil
}

func (a *githubAdapter) fetchUser(ctx context.Context, accessToken string) (*ghUser, error) {
	var user ghUser
	if err := a.getJSON(ctx, "https://api.github.com/user", accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *githubAdapter) fetchEmails(ctx context.Context, accessToken string) ([]ghEmail, error) {
	var emails []ghEmail
	if err := a.getJSON(ctx, "https://api.github.com/user/emails", accessToken, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (a *githubAdapter) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type ghUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type ghEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

var _ ProviderAdapter = (*githubAdapter)(nil)
