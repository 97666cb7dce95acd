package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the part of the user repository the authenticator needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

type Authenticator struct {
	users UserStore
	codec *TokenCodec
}

func NewAuthenticator(users UserStore, codec *TokenCodec) *Authenticator {
	return &Authenticator{users: users, codec: codec}
}

// Login checks email and password against the stored hash and issues a token.
// Unknown users and wrong passwords fail with the same error.
func (a *Authenticator) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" {
		return LoginResult{}, errs.NewMissingRequiredFieldError("email")
	}
	if password == "" {
		return LoginResult{}, errs.NewMissingRequiredFieldError("password")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errs.IsNotFound(err) {
			return LoginResult{}, errs.NewInvalidCredentialsError()
		}
		return LoginResult{}, errs.NewDatabaseError("find", "user", err)
	}
	if user.PasswordHash == nil || *user.PasswordHash == "" {
		return LoginResult{}, errs.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, errs.NewInvalidCredentialsError()
	}

	identity := IdentityOf(user)
	token, err := a.codec.Issue(identity)
	if err != nil {
		return LoginResult{}, errs.NewInternalErrorWithCause("could not issue token", err)
	}

	return LoginResult{Token: token, User: identity}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SeedAdmin creates an ADMIN account unless one with this email already exists.
// It does nothing when either value is empty.
func SeedAdmin(ctx context.Context, users UserStore, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		log.Debug().Str("email", email).Msg("Admin user already exists")
		return nil
	}
	if !errs.IsNotFound(err) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := users.Add(ctx, &models.User{Email: email, PasswordHash: &hash, Role: models.RoleAdmin}); err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("Seeded admin user")
	return nil
}
