package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type ItfGoogle interface {
	AuthCodeURL(state string) string
	UserInfo(ctx context.Context, code string) (UserInfo, error)
}

type googleProvider struct {
	config *oauth2.Config
	log    *logrus.Logger
}

func New(log *logrus.Logger) ItfGoogle {
	redirect := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirect == "" {
		redirect = "http://localhost:3000/api/v1/auth/callback-gl"
	}

	return &googleProvider{
		config: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  redirect,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		log: log,
	}
}

func (g *googleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// UserInfo exchanges an authorization code and fetches the signed-in profile.
func (g *googleProvider) UserInfo(ctx context.Context, code string) (UserInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return UserInfo{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return UserInfo{}, err
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("get user info: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			g.log.WithError(err).Warn("Failed to close userinfo body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, fmt.Errorf("userinfo returned %s", resp.Status)
	}

	var info UserInfo
	if err := jsoniter.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fmt.Errorf("decode user info: %w", err)
	}

	return info, nil
}
