package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"passkey_auth_ms/config"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// A ceremony session lives for exactly this long. Callers cannot tell an
// expired entry from one that never existed.
const ceremonySessionTTL = 5 * time.Minute

type IRedisService interface {
	SetRefreshToken(userId uint, refreshToken string) error
	GetRefreshToken(userId uint) (string, error)
	DelRefreshToken(userId uint)
	StoreRegistrationSessionRedis(userID uint, sessionData *webauthn.SessionData) error
	GetRegistrationSessionRedis(userID uint) (*webauthn.SessionData, error)
	DeleteRegistrationSessionRedis(userID uint) error
	StoreLoginSessionRedis(challenge string, sessionData *webauthn.SessionData) error
	GetLoginSessionRedis(challenge string) (*webauthn.SessionData, error)
	DeleteLoginSessionRedis(challenge string) error
}

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

func (s *RedisService) SetRefreshToken(userId uint, refreshToken string) error {
	return s.rdb.SetEx(ctx, fmt.Sprintf("refresh_%d", userId), refreshToken, time.Duration(config.Conf.Application.Security.TokenValidityInSecondsForRememberMe)*time.Second).Err()
}

func (s *RedisService) GetRefreshToken(userId uint) (string, error) {
	return s.rdb.Get(ctx, fmt.Sprintf("refresh_%d", userId)).Result()
}

func (s *RedisService) DelRefreshToken(userId uint) {
	s.rdb.Del(ctx, fmt.Sprintf("refresh_%d", userId))
}

// Registration sessions are keyed by user id: one in-flight registration per
// user, a second start overwrites the first.
func (s *RedisService) StoreRegistrationSessionRedis(userId uint, sessionData *webauthn.SessionData) error {
	data, _ := json.Marshal(sessionData)
	return s.rdb.Set(ctx, fmt.Sprintf("webauthn:reg:%d", userId), data, ceremonySessionTTL).Err()
}

func (s *RedisService) GetRegistrationSessionRedis(userId uint) (*webauthn.SessionData, error) {
	val, err := s.rdb.Get(ctx, fmt.Sprintf("webauthn:reg:%d", userId)).Result()
	if err != nil {
		return nil, err
	}
	var sessionData webauthn.SessionData
	if err := json.Unmarshal([]byte(val), &sessionData); err != nil {
		return nil, err
	}
	return &sessionData, nil
}

func (s *RedisService) DeleteRegistrationSessionRedis(userId uint) error {
	return s.rdb.Del(ctx, fmt.Sprintf("webauthn:reg:%d", userId)).Err()
}

// Login sessions are keyed by the challenge itself (base64url string), not by
// a user id: with a discoverable credential the user is unknown until the
// assertion comes back, and the challenge is the only value present in both
// halves of the ceremony.
func (s *RedisService) StoreLoginSessionRedis(challenge string, sessionData *webauthn.SessionData) error {
	data, _ := json.Marshal(sessionData)
	return s.rdb.Set(ctx, fmt.Sprintf("webauthn:login:%s", challenge), data, ceremonySessionTTL).Err()
}

func (s *RedisService) GetLoginSessionRedis(challenge string) (*webauthn.SessionData, error) {
	val, err := s.rdb.Get(ctx, fmt.Sprintf("webauthn:login:%s", challenge)).Result()
	if err != nil {
		return nil, err
	}
	var sessionData webauthn.SessionData
	if err := json.Unmarshal([]byte(val), &sessionData); err != nil {
		return nil, err
	}
	return &sessionData, nil
}

func (s *RedisService) DeleteLoginSessionRedis(challenge string) error {
	return s.rdb.Del(ctx, fmt.Sprintf("webauthn:login:%s", challenge)).Err()
}
