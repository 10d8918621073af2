package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/sebuszqo/khata/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	Login(ctx context.Context, emailOrLogin, password string) (*user.User, string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

func (s *service) Login(ctx context.Context, emailOrLogin, password string) (*user.User, string, error) {
	existingUser, err := s.userService.Authenticate(ctx, emailOrLogin, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, "", ErrInvalidCredentials
		}
		log.Printf("[Auth] error when getting user from database: %v", err)
		return nil, "", ErrInternalError
	}

	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		log.Printf("[Auth] error during JWT generation: %v", err)
		return nil, "", ErrInternalError
	}
	return existingUser, jwtToken, nil
}
