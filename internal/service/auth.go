package service

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

// to mock service in tests
type AuthService interface {
	Register(creds domain.Credentials) (string, error)
	Login(creds domain.Credentials) (string, error)
	Profile(userId domain.UserId) (domain.User, error)
	UpdateProfile(userId domain.UserId, firstName, lastName, bio *string) (domain.User, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByUsername(username domain.Username) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdateProfile(id domain.UserId, firstName, lastName, bio *string) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

// Register creates the account and logs it in, returning an access token.
func (a *Auth) Register(creds domain.Credentials) (string, error) {
	username := strings.ToLower(strings.TrimSpace(creds.Username))

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.S().Errorw("failed to hash password", "error", err)
		return "", err
	}

	id, err := a.storage.SaveUser(domain.User{Username: username, PassHash: string(passHash)})
	if err != nil {
		return "", err
	}

	user, err := a.storage.UserById(id)
	if err != nil {
		return "", err
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		zap.S().Errorw("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

// Login checks the credentials and returns an access token. Unknown
// username and wrong password produce the same answer to not leak
// existing users.
func (a *Auth) Login(creds domain.Credentials) (string, error) {
	username := strings.ToLower(strings.TrimSpace(creds.Username))

	user, err := a.storage.UserByUsername(username)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return "", internal_errors.Unauthenticated("Invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		zap.S().Debugw("password verification failed", "user_id", user.Id)
		return "", internal_errors.Unauthenticated("Invalid credentials")
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		zap.S().Errorw("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

func (a *Auth) Profile(userId domain.UserId) (domain.User, error) {
	return a.storage.UserById(userId)
}

func (a *Auth) UpdateProfile(userId domain.UserId, firstName, lastName, bio *string) (domain.User, error) {
	if err := a.storage.UpdateProfile(userId, firstName, lastName, bio); err != nil {
		return domain.User{}, err
	}
	return a.storage.UserById(userId)
}
