package services

import (
	"errors"
	"time"
	"passkey_auth_ms/domain"
	"passkey_auth_ms/dtos/response"
	"passkey_auth_ms/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IJWTService interface {
	ParseJWT(tokenStr string) (*jwt.Token, error)
	GetClaims(token *jwt.Token) (jwt.MapClaims, error)
	GenerateToken(userID uint, duration time.Duration) (string, error)
	IssueTokens(user *domain.User) (*response.Tokens, error)
	RefreshTokens(refreshToken string) (*response.Tokens, error)
}
type JWTService struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Optional collaborators for IssueTokens; middleware constructs the
	// service without them for parse-only use.
	DB       *gorm.DB
	Settings repository.ISettingsRepository
	Users    repository.IUserRepository
	Redis    IRedisService
	Logger   *zap.Logger
}

func NewJWTService(secret []byte, issuer string, accessTtl time.Duration, refreshTtl time.Duration) *JWTService {
	return &JWTService{
		Secret:     secret,
		Issuer:     issuer,
		AccessTTL:  accessTtl,
		RefreshTTL: refreshTtl,
	}
}

func (j *JWTService) ParseJWT(tokenStr string) (*jwt.Token, error) {
	if len(j.Secret) == 0 {
		return nil, errors.New("JWT secret is not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	})

	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

func (j *JWTService) GetClaims(token *jwt.Token) (jwt.MapClaims, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] == nil {
		return nil, errors.New("No claims")
	}
	return claims, nil
}

func (j *JWTService) GenerateToken(userID uint, duration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iss": j.Issuer,
		"exp": time.Now().Add(duration).Unix(),
	})

	return token.SignedString(j.Secret)
}

// IssueTokens mints the access/refresh pair after a successful ceremony. The
// access token validity may be overridden by a platform setting; a failed or
// missing lookup falls back to the configured TTL and never aborts issuance.
func (j *JWTService) IssueTokens(user *domain.User) (*response.Tokens, error) {
	accessTTL := j.accessTokenTTL()

	accessToken, err := j.GenerateToken(user.Id, accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := j.GenerateToken(user.Id, j.RefreshTTL)
	if err != nil {
		return nil, err
	}

	if j.Redis != nil {
		if err := j.Redis.SetRefreshToken(user.Id, refreshToken); err != nil && j.Logger != nil {
			j.Logger.Warn("failed to cache refresh token", zap.Uint("user_id", user.Id), zap.Error(err))
		}
	}

	return &response.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

// RefreshTokens rotates the token pair. The presented refresh token must
// parse, match the cached value for its subject, and the account must still be
// active; the freshly issued refresh token replaces the cached one.
func (j *JWTService) RefreshTokens(refreshToken string) (*response.Tokens, error) {
	token, err := j.ParseJWT(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenRejected
	}
	claims, err := j.GetClaims(token)
	if err != nil {
		return nil, domain.ErrTokenRejected
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, domain.ErrTokenRejected
	}
	userID := uint(sub)

	if j.Redis == nil {
		return nil, errors.New("refresh token cache is not configured")
	}
	cached, err := j.Redis.GetRefreshToken(userID)
	if err != nil || cached != refreshToken {
		return nil, domain.ErrTokenRejected
	}

	user := &domain.User{Id: userID}
	if j.Users != nil {
		user, err = j.Users.GetByID(j.DB, userID)
		if err != nil {
			return nil, domain.ErrUserNotFound
		}
		if !user.Active {
			return nil, domain.ErrAccountDisabled
		}
	}
	return j.IssueTokens(user)
}

func (j *JWTService) accessTokenTTL() time.Duration {
	if j.Settings == nil {
		return j.AccessTTL
	}
	minutes, found, err := j.Settings.GetInt(j.DB, repository.SettingAccessTokenValidityMinutes)
	if err != nil {
		if j.Logger != nil {
			j.Logger.Warn("token validity setting lookup failed, using default", zap.Error(err))
		}
		return j.AccessTTL
	}
	if !found || minutes <= 0 {
		return j.AccessTTL
	}
	return time.Duration(minutes) * time.Minute
}
