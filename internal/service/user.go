package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/audit"
	"github.com/ndolgikh/marketcore/internal/hash"
	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/repo"
	"github.com/ndolgikh/marketcore/internal/transport"
	"github.com/ndolgikh/marketcore/pkg/tokens"
)

type UserService struct {
	Repo      *repo.GormRepo
	Audit     *audit.Sink
	JWTSecret []byte
	AccessTTL time.Duration
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func validMobile(mobile string) bool {
	return len(mobile) > 0 && mobile[0] >= '0' && mobile[0] <= '9'
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	switch {
	case req.Username == "":
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	case req.Password == "":
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	case !validEmail(req.Email):
		return nil, fmt.Errorf("%w: malformed email", ErrValidation)
	case !validMobile(req.Mobile):
		return nil, fmt.Errorf("%w: malformed mobile number", ErrValidation)
	}

	if _, err := s.Repo.UserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", ErrIntegrity)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Repo.UserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrIntegrity)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: pwHash,
		Mobile:       req.Mobile,
		Role:         "user",
	}
	if _, err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.Audit.Emit(ctx, audit.Event{
		Entity: "users",
		Action: audit.ActionInsert,
		After:  user,
		Actor:  fmt.Sprint(user.ID),
	})
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (string, *models.User, error) {
	if req.Username == "" || req.Password == "" {
		return "", nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.UserByUsername(ctx, req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return "", nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := tokens.NewAccessToken(user.ID, user.Role, s.JWTSecret, time.Now().UTC().Add(s.AccessTTL))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
