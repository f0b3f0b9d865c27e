package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=30"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AccessToken struct {
	AccessToken  string `json:"accessToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenVersion int    `json:"tokenVersion"`
}

type LoginOutput struct {
	User  model.User  `json:"user"`
	Token AccessToken `json:"token"`
}

type AuthUsecase struct {
	users  repo.UserRepository
	issuer AccessTokenIssuer
	clock  Clock
}

// DI
func NewAuthUsecase(users repo.UserRepository, issuer AccessTokenIssuer, clock Clock) *AuthUsecase {
	return &AuthUsecase{users: users, issuer: issuer, clock: clock}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register は会員（MEMBER）を作成する。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user, err := u.users.Create(ctx, model.User{
		Email:        email,
		PasswordHash: string(pwHash),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         model.RoleMember,
		IsActive:     true,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.User{}, NewHTTPError(http.StatusConflict, "email already used")
	}
	if err != nil {
		return model.User{}, errDB
	}
	return user, nil
}

// Login はメール/パスワードを確認してアクセストークンを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return LoginOutput{}, errDB
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	now := u.clock.Now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		return LoginOutput{}, errDB
	}

	token, exp, err := u.issuer.Issue(user, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		User: user,
		Token: AccessToken{
			AccessToken:  token,
			ExpiresIn:    int(exp.Sub(now).Seconds()),
			TokenVersion: user.TokenVersion,
		},
	}, nil
}

// 自分の情報
func (u *AuthUsecase) Me(ctx context.Context, actor Actor) (model.User, error) {
	if !actor.valid() {
		return model.User{}, errUnauthorized
	}
	user, err := u.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return model.User{}, toHTTPError(err, "user not found")
	}
	return user, nil
}
