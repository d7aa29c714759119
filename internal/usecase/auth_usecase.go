package usecase

import (
	"context"
	"errors"

	"resume-screener/internal/domain/user"
	"resume-screener/internal/pkg/jwt"
	ucauth "resume-screener/internal/usecase/auth"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Session is a user together with a fresh token pair.
type Session struct {
	User         user.User
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (Session, error)
	Login(ctx context.Context, in ucauth.LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (Session, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.issue(usr)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (Session, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.issue(usr)
}

// Refresh exchanges a refresh token for a new pair. The role is re-read from
// the database so a changed role takes effect on the next refresh.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrRefreshTokenExpired
		}
		return Session{}, ErrInvalidRefreshToken
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return Session{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, ErrInternal
	}

	return u.issue(ucauth.Sanitize(usr))
}

func (u *Auth) issue(usr user.User) (Session, error) {
	sub := jwt.Subject{UserID: usr.ID, Email: usr.Email, Role: string(usr.Role)}

	access, err := u.jwt.GenerateAccessToken(sub)
	if err != nil {
		return Session{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(sub)
	if err != nil {
		return Session{}, ErrInternal
	}

	return Session{User: usr, AccessToken: access, RefreshToken: refresh}, nil
}
