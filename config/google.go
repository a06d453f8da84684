package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v3/userinfo"
)

var (
	ErrInvalidToken  = errors.New("invalid google token")
	ErrVerifyTimeout = errors.New("google token verification timed out")
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Config       *oauth2.Config
	tokenInfoURL string
	userInfoURL  string
	httpClient   *http.Client
}

// flexBool tolerates both wire encodings Google uses for email_verified:
// the tokeninfo endpoint sends the quoted string "true", the v3 userinfo
// endpoint sends a bare boolean.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseBool(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("invalid boolean value %s", data)
	}
	*b = flexBool(v)
	return nil
}

type GoogleUserInfo struct {
	ID            string   `json:"sub"`
	Email         string   `json:"email"`
	VerifiedEmail flexBool `json:"email_verified"`
	Name          string   `json:"name"`
	GivenName     string   `json:"given_name"`
	FamilyName    string   `json:"family_name"`
	Picture       string   `json:"picture"`
}

// NewGoogleConfig is called once by the composition root; the returned
// handle is passed explicitly to whatever needs identity verification.
func NewGoogleConfig() *GoogleConfig {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	return &GoogleConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		tokenInfoURL: googleTokenInfoURL,
		userInfoURL:  googleUserInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyIDToken resolves a Google ID token to verified identity claims.
// Timeouts surface as ErrVerifyTimeout so callers can distinguish an
// unreachable verifier from a bad credential.
func (g *GoogleConfig) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUserInfo, error) {
	url := fmt.Sprintf("%s?id_token=%s", g.tokenInfoURL, idToken)
	return g.fetchUserInfo(ctx, url)
}

// GetUserInfo resolves a Google OAuth access token to identity claims.
func (g *GoogleConfig) GetUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	url := fmt.Sprintf("%s?access_token=%s", g.userInfoURL, accessToken)
	return g.fetchUserInfo(ctx, url)
}

func (g *GoogleConfig) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.Config.Exchange(ctx, code)
}

func (g *GoogleConfig) fetchUserInfo(ctx context.Context, url string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %v", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrVerifyTimeout, err)
		}
		return nil, fmt.Errorf("failed to verify token: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %v", err)
	}

	return &userInfo, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
