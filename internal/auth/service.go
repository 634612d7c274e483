// Package auth implements the local account table, the session slot and
// bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/store"
)

// Sentinel errors.
var (
	ErrInvalidCredentials = errors.New(config.ErrInvalidCredentials)
	ErrUserExists         = errors.New(config.ErrUserExists)
	ErrInvalidToken       = errors.New(config.ErrInvalidToken)
	ErrNotAuthenticated   = errors.New(config.ErrNotAuthenticated)
)

// User is the public view of an account or of the guest session.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsGuest bool   `json:"isGuest"`
}

// Claims are the identity fields carried by a token.
type Claims struct {
	User
	ExpiresAt time.Time `json:"expiresAt"`
}

type account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service owns the account table and the current session.
type Service struct {
	store  *store.Store
	secret []byte
	now    func() time.Time

	mu sync.Mutex
}

// NewService returns a Service persisting to s and signing with secret.
func NewService(s *store.Store, secret []byte) *Service {
	return &Service{store: s, secret: secret, now: time.Now}
}

// Register creates an account and opens its session.
func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	email = normalizeEmail(email)
	if err := ValidateRegistration(name, email, password); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := store.Load(ctx, s.store, config.KeyUsers, []account{})
	if err != nil {
		return User{}, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return User{}, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	acc := account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := store.Set(ctx, s.store, config.KeyUsers, append(accounts, acc)); err != nil {
		return User{}, err
	}

	u := acc.user()
	slog.Info(config.MsgUserRegistered,
		config.LogKeyComponent, config.CompAuth,
		config.LogKeyUser, u.ID,
	)
	return u, s.setSession(ctx, u)
}

// Login checks credentials and opens the session.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if err := ValidateLogin(email, password); err != nil {
		return User{}, err
	}

	accounts := store.Get(ctx, s.store, config.KeyUsers, []account{})
	for _, a := range accounts {
		if a.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			break
		}
		u := a.user()
		slog.Info(config.MsgUserLogin,
			config.LogKeyComponent, config.CompAuth,
			config.LogKeyUser, u.ID,
		)
		return u, s.setSession(ctx, u)
	}
	return User{}, ErrInvalidCredentials
}

// LoginAsGuest opens a guest session.
func (s *Service) LoginAsGuest(ctx context.Context) (User, error) {
	u := User{ID: uuid.NewString(), Name: config.GuestName, IsGuest: true}
	return u, s.setSession(ctx, u)
}

// Logout clears the session slot.
func (s *Service) Logout(ctx context.Context) error {
	slog.Info(config.MsgUserLogout, config.LogKeyComponent, config.CompAuth)
	return s.store.Delete(ctx, config.KeySession)
}

// Current returns the session user, if any.
func (s *Service) Current(ctx context.Context) (User, bool) {
	u := store.Get(ctx, s.store, config.KeySession, User{})
	return u, u.ID != ""
}

// IssueToken signs an HS256 token for u valid for config.TokenTTL.
func (s *Service) IssueToken(u User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"guest": u.IsGuest,
		"iat":   now.Unix(),
		"exp":   now.Add(config.TokenTTL).Unix(),
		"jti":   uuid.NewString(),
	})
	return token.SignedString(s.secret)
}

// ParseToken verifies a token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	exp, _ := mc["exp"].(float64)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	name, _ := mc["name"].(string)
	email, _ := mc["email"].(string)
	guest, _ := mc["guest"].(bool)
	return &Claims{
		User:      User{ID: sub, Name: name, Email: email, IsGuest: guest},
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
	}, nil
}

func (s *Service) setSession(ctx context.Context, u User) error {
	return store.Set(ctx, s.store, config.KeySession, u)
}

func (a account) user() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
