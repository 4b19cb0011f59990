package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type authWire struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	TokenType    string     `json:"tokenType"`
	ExpiresIn    int64      `json:"expiresIn"`
	User         memberWire `json:"user"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type emailCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendLoginCode asks the backend to mail a verification code to email.
func (c *Client) SendLoginCode(ctx context.Context, email string) error {
	return c.exec(ctx, "Backend.SendLoginCode", http.MethodPost, "/api/auth/email/send", emailRequest{Email: email})
}

func (c *Client) VerifyLoginCode(ctx context.Context, email, code string) error {
	return c.exec(ctx, "Backend.VerifyLoginCode", http.MethodPost, "/api/auth/email/verify", emailCodeRequest{Email: email, Code: code})
}

// Login exchanges a verified code for a session. The returned token is not
// installed on the client; see app.Session.
func (c *Client) Login(ctx context.Context, email, code string) (domain.Session, error) {
	auth, err := send[authWire](ctx, c, "Backend.Login", http.MethodPost, "/api/auth/login", emailCodeRequest{Email: email, Code: code})
	if err != nil {
		return domain.Session{}, err
	}
	if auth.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("%w: login response has no access token", errMissingField)
	}

	user, err := c.times.member(auth.User)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to decode login user: %w", err)
	}

	var expiresAt time.Time
	if auth.ExpiresIn > 0 {
		expiresAt = c.nowFunc().Add(time.Duration(auth.ExpiresIn) * time.Second)
	}

	return domain.Session{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		TokenType:    auth.TokenType,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}
