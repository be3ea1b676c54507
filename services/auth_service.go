package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gin-bytemarket/config"
	"gin-bytemarket/constants"
	"gin-bytemarket/dto"
	"gin-bytemarket/models"
	"gin-bytemarket/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type IAuthService interface {
	Signup(ctx context.Context, input dto.SignupInput) (*models.User, error)
	Login(ctx context.Context, email string, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
	Logout(ctx context.Context, accessToken string, refreshToken string) error
	UpdateProfile(ctx context.Context, userID uint, input dto.UpdateProfileInput) (*models.User, error)
}

type AuthService struct {
	repository      repositories.IAuthRepository
	tokenRepository repositories.ITokenRepository
	secret          []byte
	now             func() time.Time
}

func NewAuthService(repository repositories.IAuthRepository, tokenRepository repositories.ITokenRepository) IAuthService {
	return &AuthService{
		repository:      repository,
		tokenRepository: tokenRepository,
		secret:          []byte(config.SecretKey()),
		now:             time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, input dto.SignupInput) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = constants.RoleBuyer
	}
	user := models.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.repository.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*TokenPair, error) {
	foundUser, err := s.repository.FindUser(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createTokenPair(foundUser)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != constants.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}

	blacklisted, err := s.tokenRepository.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	userID, err := claims.userID()
	if err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// リフレッシュトークンは1回のみ使用可能
	if err := s.tokenRepository.AddBlacklistedToken(ctx, refreshToken, claims.ExpiresAt.Unix()); err != nil {
		return nil, err
	}
	return s.createTokenPair(user)
}

func (s *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != constants.TokenTypeAccess {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}

	// トークンがブラックリストに含まれているかチェック
	isBlacklisted, err := s.tokenRepository.IsTokenBlacklisted(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		return nil, ErrTokenBlacklisted
	}

	userID, err := claims.userID()
	if err != nil {
		return nil, err
	}
	// トークンのロールではなく、データベースの最新のユーザー情報を返す
	return s.findUser(ctx, userID)
}

// Logout アクセストークンと、指定された場合はリフレッシュトークンも無効化する
// 両方のトークンを検証してからブラックリストに追加する
func (s *AuthService) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	claims, err := s.parse(accessToken)
	if err != nil {
		return err
	}

	var refreshClaims *tokenClaims
	if refreshToken != "" {
		refreshClaims, err = s.parse(refreshToken)
		if err != nil {
			return err
		}
		if refreshClaims.Type != constants.TokenTypeRefresh {
			return fmt.Errorf("%w: wrong token type", ErrInvalidToken)
		}
		if refreshClaims.Subject != claims.Subject {
			return fmt.Errorf("%w: refresh token belongs to another user", ErrInvalidToken)
		}
	}

	// トークンをブラックリストに追加（有効期限まで保持）
	if err := s.tokenRepository.AddBlacklistedToken(ctx, accessToken, claims.ExpiresAt.Unix()); err != nil {
		return err
	}
	if refreshClaims == nil {
		return nil
	}
	return s.tokenRepository.AddBlacklistedToken(ctx, refreshToken, refreshClaims.ExpiresAt.Unix())
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, input dto.UpdateProfileInput) (*models.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.repository.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) findUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repository.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) userID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

func (s *AuthService) createTokenPair(user *models.User) (*TokenPair, error) {
	access, err := s.sign(user, constants.TokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, constants.TokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := s.now()
	claims := tokenClaims{
		Email: user.Email,
		Role:  user.Role,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        fmt.Sprintf("%d-%d", user.ID, now.UnixNano()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parse(tokenString string) (*tokenClaims, error) {
	// 空の鍵でも署名・検証できてしまうため拒否する
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSecret)
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}
