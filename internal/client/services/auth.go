// Package services contains application services for the sealbox CLI.
// This file defines the session service: register, login, logout and
// restoring a persisted session into the API client.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sealbox/internal/client/client"
	"github.com/dmitrijs2005/sealbox/internal/client/config"
)

// TokenClient is the part of the API client that carries the session.
type TokenClient interface {
	client.Client
	SetTokens(accessToken, refreshToken string)
	Tokens() (string, string)
	OnRefresh(fn func(accessToken, refreshToken string))
}

// AuthService keeps the CLI session in the client directory in sync with
// the tokens held by the API client.
type AuthService struct {
	client TokenClient
	dir    string
}

func NewAuthService(c TokenClient, dir string) *AuthService {
	return &AuthService{client: c, dir: dir}
}

// Register creates the account and stores the resulting session.
func (a *AuthService) Register(ctx context.Context, email, password, publicKey string) (string, error) {
	userID, err := a.client.Register(ctx, email, password, publicKey)
	if err != nil {
		return "", err
	}
	return userID, a.save(userID, email)
}

// Login authenticates and stores the resulting session.
func (a *AuthService) Login(ctx context.Context, email, password string) error {
	if err := a.client.Login(ctx, email, password); err != nil {
		return err
	}

	me, err := a.client.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	return a.save(me.UserID, me.Email)
}

// Logout forgets the stored session.
func (a *AuthService) Logout() error {
	a.client.SetTokens("", "")
	return config.ClearSession(a.dir)
}

// Resume loads the stored session into the client and persists tokens
// rotated by later calls. It returns config.ErrNoSession if nobody is
// logged in.
func (a *AuthService) Resume() (*config.Session, error) {
	s, err := config.LoadSession(a.dir)
	if err != nil {
		return nil, err
	}

	a.client.SetTokens(s.AccessToken, s.RefreshToken)
	a.client.OnRefresh(func(accessToken, refreshToken string) {
		s.AccessToken, s.RefreshToken = accessToken, refreshToken
		_ = config.SaveSession(a.dir, s)
	})
	return s, nil
}

func (a *AuthService) save(userID, email string) error {
	access, refresh := a.client.Tokens()
	return config.SaveSession(a.dir, &config.Session{
		UserID:       userID,
		Email:        email,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
