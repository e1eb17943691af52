package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
)

// ErrAccountNotLinked is returned when the provider email belongs to a user
// created by another method. Identities are never merged silently; the user
// has to sign in with their original method.
var ErrAccountNotLinked = errors.New("account not linked")

// ProviderProfile is the identity the provider asserted, plus the tokens
// from the code exchange.
type ProviderProfile struct {
	Provider          string
	ProviderAccountID string
	Name              string
	Email             string
	Image             string

	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	TokenType    string
	IDToken      string
	Scope        string
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider wraps the OAuth2 authorization-code flow against Google.
type GoogleProvider struct {
	cfg *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}}
}

func (g *GoogleProvider) Configured() bool {
	return g != nil && g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

// AuthCodeURL builds the consent-screen redirect for the given state token.
func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for tokens and fetches the user's
// profile claims from the userinfo endpoint.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*ProviderProfile, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	resp, err := g.cfg.Client(ctx, tok).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: unexpected status %d", resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, errors.New("userinfo: missing id or email")
	}

	p := &ProviderProfile{
		Provider:          "google",
		ProviderAccountID: info.ID,
		Name:              info.Name,
		Email:             strings.ToLower(info.Email),
		Image:             info.Picture,
		AccessToken:       tok.AccessToken,
		RefreshToken:      tok.RefreshToken,
		TokenType:         tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		p.ExpiresAt = tok.Expiry.Unix()
	}
	if idt, ok := tok.Extra("id_token").(string); ok {
		p.IDToken = idt
	}
	return p, nil
}

// FederationService bridges provider identities to internal users.
type FederationService struct {
	Users    repository.UserRepository
	Accounts repository.AccountRepository
	Logger   *logrus.Logger
}

func NewFederationService(users repository.UserRepository, accounts repository.AccountRepository, logger *logrus.Logger) *FederationService {
	return &FederationService{Users: users, Accounts: accounts, Logger: logger}
}

// ResolveOrCreate maps a provider identity to an internal user. An existing
// (provider, provider_account_id) link resolves directly; otherwise a new
// user and link are created in one transaction. A provider email already
// owned by a non-linked user yields ErrAccountNotLinked.
func (s *FederationService) ResolveOrCreate(ctx context.Context, p *ProviderProfile) (*entity.User, error) {
	link, err := s.Accounts.GetLink(ctx, p.Provider, p.ProviderAccountID)
	switch {
	case err == nil:
		u, err := s.Users.GetByID(ctx, link.UserID)
		if err != nil {
			return nil, err
		}
		s.refreshTokens(ctx, link, p)
		return u, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	// First login through this provider account. Refuse to attach to an
	// existing user created by another method.
	if existing, err := s.Users.GetByEmail(ctx, p.Email); err == nil && existing != nil {
		return nil, ErrAccountNotLinked
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u := &entity.User{
		Name:  p.Name,
		Email: p.Email,
		Image: p.Image,
		Role:  entity.RoleUser,
	}
	newLink := &entity.AccountLink{
		Provider:          p.Provider,
		ProviderAccountID: p.ProviderAccountID,
		Type:              "oauth",
		RefreshToken:      p.RefreshToken,
		AccessToken:       p.AccessToken,
		ExpiresAt:         p.ExpiresAt,
		TokenType:         p.TokenType,
		Scope:             p.Scope,
		IDToken:           p.IDToken,
	}
	if err := s.Accounts.CreateUserWithLink(ctx, u, newLink); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// lost a race with a credential registration for the same email
			return nil, ErrAccountNotLinked
		}
		return nil, err
	}
	return u, nil
}

func (s *FederationService) refreshTokens(ctx context.Context, link *entity.AccountLink, p *ProviderProfile) {
	link.AccessToken = p.AccessToken
	if p.RefreshToken != "" {
		link.RefreshToken = p.RefreshToken
	}
	link.ExpiresAt = p.ExpiresAt
	link.TokenType = p.TokenType
	link.IDToken = p.IDToken
	if err := s.Accounts.UpdateLinkTokens(ctx, link); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"provider": link.Provider,
			"user_id":  link.UserID,
		}).Warn("account link token refresh failed")
	}
}
