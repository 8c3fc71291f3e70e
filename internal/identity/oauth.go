package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// ExternalIdentity is the subject a token verifier extracts from a
// provider-issued token.
type ExternalIdentity struct {
	Subject     string
	Email       string
	DisplayName string
}

// TokenVerifier validates a token obtained by the client-side OAuth popup.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalIdentity, error)
}

// GoogleVerifier validates Google ID tokens against the configured client ID.
type GoogleVerifier struct {
	ClientID string
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.ClientID)
	if err != nil {
		return nil, fmt.Errorf("validate google token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		given, _ := payload.Claims["given_name"].(string)
		family, _ := payload.Claims["family_name"].(string)
		name = strings.TrimSpace(given + " " + family)
	}

	return &ExternalIdentity{
		Subject:     payload.Subject,
		Email:       email,
		DisplayName: name,
	}, nil
}

// GitHubVerifier resolves a GitHub access token against the user API.
// APIBase is overridable for tests; it defaults to the public API.
type GitHubVerifier struct {
	APIBase string
	Client  *http.Client
}

func (v *GitHubVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	base := v.APIBase
	if base == "" {
		base = "https://api.github.com"
	}
	client := v.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github rejected the token (status %d)", resp.StatusCode)
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}

	email := payload.Email
	if email == "" {
		// public email hidden; the noreply alias is stable per account
		email = fmt.Sprintf("%s@users.noreply.github.com", payload.Login)
	}
	name := payload.Name
	if name == "" {
		name = payload.Login
	}

	return &ExternalIdentity{
		Subject:     fmt.Sprintf("%d", payload.ID),
		Email:       email,
		DisplayName: name,
	}, nil
}
